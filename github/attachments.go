package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
)

// Attachment URL shapes GitHub embeds in issue bodies: the legacy
// user-images host and the current user-attachments asset links.
var attachmentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https://user-images\.githubusercontent\.com/[^\s)"'<>\]]+`),
	regexp.MustCompile(`https://github\.com/user-attachments/assets/[^\s)"'<>\]]+`),
	regexp.MustCompile(`https://github\.com/[^\s)"'<>\]]+/files/[^\s)"'<>\]]+`),
}

// ExtractAttachmentURLs returns the attachment URLs embedded in a body,
// in order of first appearance, deduplicated. Both markdown image
// syntax and raw HTML img tags are covered since the patterns match the
// URL itself.
func ExtractAttachmentURLs(body string) []string {
	seen := make(map[string]bool)
	var urls []string
	for _, pattern := range attachmentPatterns {
		for _, url := range pattern.FindAllString(body, -1) {
			if !seen[url] {
				seen[url] = true
				urls = append(urls, url)
			}
		}
	}
	return urls
}

// DownloadAttachment fetches an attachment using the client's
// credentials. Private-repo attachments 404 without them.
func (c *Client) DownloadAttachment(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create attachment request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download attachment %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
