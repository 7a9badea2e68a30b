// Package notify delivers workflow events (branch created, changes pushed,
// pull request created or merged, issue transitioned, action failed).
//
// Implementations:
//   - SlackNotifier: Slack incoming webhooks via slack-go
//   - WebhookNotifier: JSON POST to a generic endpoint
//   - LogNotifier: structured log lines
//   - MultiNotifier: fan-out that keeps going past failures
//   - NopNotifier: discards everything
//
// Example usage:
//
//	notifier := notify.NewMultiNotifier(
//	    notify.NewLogNotifier(logger),
//	    notify.NewSlackNotifier(webhookURL, notify.WithSlackChannel("#dev")),
//	)
//	event := notify.NewEvent(notify.EventPRCreated, "create_pull_request", "PR #42 opened").
//	    With("url", pull.URL)
//	if err := notifier.Notify(ctx, event); err != nil {
//	    logger.Warn("notification failed", "error", err)
//	}
package notify
