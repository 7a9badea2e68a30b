package notify

import (
	"log/slog"

	"github.com/randalmurphal/issueflow/config"
)

// FromConfig builds the notifier for cfg. Events are always logged; Slack
// and webhook delivery are added when their URLs are configured.
func FromConfig(cfg config.NotifyConfig, logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.Default()
	}

	notifiers := []Notifier{NewLogNotifier(logger)}
	if cfg.SlackWebhookURL != "" {
		notifiers = append(notifiers, NewSlackNotifier(cfg.SlackWebhookURL))
	}
	if cfg.WebhookURL != "" {
		notifiers = append(notifiers, NewWebhookNotifier(cfg.WebhookURL, nil))
	}

	if len(notifiers) == 1 {
		return notifiers[0]
	}
	multi := NewMultiNotifier(notifiers...)
	multi.Logger = logger
	return multi
}
