package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/issueflow/config"
)

var configGlobal bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and modify issueflow configuration",
	Long: `Inspect and modify the layered configuration. Resolution order, from
lowest to highest: defaults, ~/.config/issueflow/config.yaml,
.issueflow.yaml at the git root, ISSUEFLOW_* environment variables,
flags.

Examples:
  issueflow config list
  issueflow config get backend
  issueflow config set backend github
  issueflow config set team ASA --global`,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all resolved values with their sources",
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show one resolved value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the local (or global) config file",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configSetCmd.Flags().BoolVar(&configGlobal, "global", false, "Write to ~/.config/issueflow/config.yaml instead of .issueflow.yaml")

	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigList(cmd *cobra.Command, args []string) error {
	resolved := config.NewIssueflowResolver().Resolve()

	keys := resolved.Keys()
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE\tSOURCE")
	for _, key := range keys {
		value, source := resolved.GetWithSource(key)
		fmt.Fprintf(w, "%s\t%s\t%s\n", key, value, source)
	}
	return w.Flush()
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	resolved := config.NewIssueflowResolver().Resolve()

	value, source := resolved.GetWithSource(args[0])
	if value == "" {
		fmt.Printf("%s is not set\n", args[0])
		return nil
	}
	fmt.Printf("%s (from %s)\n", value, source)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	save := config.IssueflowSave()

	if configGlobal {
		if err := save.SaveGlobal(key, value); err != nil {
			return err
		}
		fmt.Printf("Set %s in global config\n", key)
		return nil
	}

	resolver := config.NewIssueflowResolver()
	if resolver.GitRoot() == "" {
		return fmt.Errorf("not in a git repository; use --global for the user-level config")
	}
	if err := save.SaveLocal(resolver.GitRoot(), key, value); err != nil {
		return err
	}
	fmt.Printf("Set %s in %s\n", key, resolver.LocalPath())
	return nil
}
