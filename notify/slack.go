package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/slack-go/slack"
)

// =============================================================================
// SlackNotifier
// =============================================================================

// SlackNotifier posts events to a Slack incoming webhook.
type SlackNotifier struct {
	WebhookURL string
	Channel    string
	Username   string
	Client     *http.Client
}

// NewSlackNotifier creates a Slack webhook notifier.
func NewSlackNotifier(webhookURL string, opts ...SlackOption) *SlackNotifier {
	n := &SlackNotifier{
		WebhookURL: webhookURL,
		Username:   "issueflow",
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SlackOption configures SlackNotifier.
type SlackOption func(*SlackNotifier)

// WithSlackChannel sets the channel to post to.
func WithSlackChannel(channel string) SlackOption {
	return func(n *SlackNotifier) { n.Channel = channel }
}

// WithSlackUsername sets the bot username.
func WithSlackUsername(username string) SlackOption {
	return func(n *SlackNotifier) { n.Username = username }
}

// Notify implements Notifier.
func (n *SlackNotifier) Notify(ctx context.Context, event Event) error {
	msg := &slack.WebhookMessage{
		Username: n.Username,
		Channel:  n.Channel,
		Attachments: []slack.Attachment{{
			Color:    colorForSeverity(event.Severity),
			Fallback: event.Message,
			Title:    fmt.Sprintf("%s %s", emojiForEvent(event.Type), event.Type),
			Text:     event.Message,
			Footer:   footer(event),
			Ts:       json.Number(strconv.FormatInt(event.Timestamp.Unix(), 10)),
			Fields:   fieldsFromMetadata(event.Metadata),
		}},
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, n.WebhookURL, n.Client, msg); err != nil {
		return fmt.Errorf("send slack message: %w", err)
	}
	return nil
}

func footer(event Event) string {
	if event.CallID == "" {
		return "Action: " + event.Action
	}
	return fmt.Sprintf("Action: %s | Call: %s", event.Action, event.CallID)
}

func emojiForEvent(t EventType) string {
	switch t {
	case EventBranchCreated:
		return ":seedling:"
	case EventChangesPushed:
		return ":arrow_up:"
	case EventPRCreated:
		return ":link:"
	case EventPRMerged:
		return ":white_check_mark:"
	case EventIssueTransitioned:
		return ":arrows_counterclockwise:"
	case EventActionFailed:
		return ":x:"
	default:
		return ":loudspeaker:"
	}
}

func colorForSeverity(severity string) string {
	switch severity {
	case SeverityError:
		return "danger"
	case SeverityWarning:
		return "warning"
	default:
		return "good"
	}
}

// fieldsFromMetadata renders metadata sorted by key so messages are stable.
func fieldsFromMetadata(metadata map[string]any) []slack.AttachmentField {
	if len(metadata) == 0 {
		return nil
	}

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	fields := make([]slack.AttachmentField, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, slack.AttachmentField{
			Title: k,
			Value: fmt.Sprintf("%v", metadata[k]),
			Short: true,
		})
	}
	return fields
}
