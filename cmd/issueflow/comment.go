package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	commentBody string
	commentFile string
)

var commentCmd = &cobra.Command{
	Use:   "comment <issue-id>",
	Short: "Post a comment on an issue",
	Long: `Post a comment on an issue. The body comes from --body, --file, or
stdin when --file is "-".

Examples:
  issueflow comment ASA-42 --body "Plan approved."
  issueflow comment ASA-42 --file plan.md
  cat plan.md | issueflow comment ASA-42 --file -`,
	Args: cobra.ExactArgs(1),
	RunE: runComment,
}

func init() {
	commentCmd.Flags().StringVar(&commentBody, "body", "", "Comment body")
	commentCmd.Flags().StringVar(&commentFile, "file", "", "Read the body from a file (\"-\" for stdin)")
}

func runComment(cmd *cobra.Command, args []string) error {
	body, err := resolveCommentBody()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}

	if err := a.engine.Tracker().PostComment(ctx, args[0], body); err != nil {
		return err
	}

	fmt.Printf("Comment posted on %s\n", args[0])
	return nil
}

func resolveCommentBody() (string, error) {
	switch {
	case commentBody != "" && commentFile != "":
		return "", fmt.Errorf("--body and --file are mutually exclusive")
	case commentBody != "":
		return commentBody, nil
	case commentFile == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	case commentFile != "":
		data, err := os.ReadFile(commentFile)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", commentFile, err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("a comment body is required: pass --body or --file")
}
