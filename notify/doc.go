// Package notify provides notification services for issue-workflow events.
//
// Core types:
//   - Notifier: Interface for sending notifications
//   - Event: Notification event with type, issue, message, and metadata
//   - EventType: Type of event (issue_picked, review_ready, run_failed, etc.)
//
// Implementations:
//   - SlackNotifier: Sends notifications to Slack webhooks
//   - WebhookNotifier: Sends notifications to generic webhooks
//   - LogNotifier: Logs notifications (for testing/debugging)
//   - MultiNotifier: Combines multiple notifiers
//   - NopNotifier: No-op notifier (for testing)
//
// Example usage:
//
//	notifier := notify.NewSlackNotifier(webhookURL,
//	    notify.WithSlackChannel("#dev-alerts"),
//	    notify.WithSlackUsername("issueflow"),
//	)
//	err := notifier.Notify(ctx, notify.Event{
//	    Type:    notify.EventReviewReady,
//	    Issue:   "ASA-42",
//	    Message: "ASA-42 moved to In Review",
//	})
package notify
