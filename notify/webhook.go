package notify

import (
	"context"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/randalmurphal/issueflow/http"
)

// =============================================================================
// WebhookNotifier
// =============================================================================

// WebhookNotifier posts events as JSON to a generic HTTP endpoint.
type WebhookNotifier struct {
	URL    string
	client *http.Client
}

// NewWebhookNotifier creates a webhook notifier. headers are sent with
// every request (e.g. a shared secret).
func NewWebhookNotifier(url string, headers map[string]string) *WebhookNotifier {
	return &WebhookNotifier{
		URL: url,
		client: http.NewClient(http.ClientConfig{
			BaseURL:     url,
			ServiceName: "webhook",
			Timeout:     10 * time.Second,
			BeforeRequest: func(req *nethttp.Request) {
				for k, v := range headers {
					req.Header.Set(k, v)
				}
			},
		}),
	}
}

// Notify implements Notifier.
func (n *WebhookNotifier) Notify(ctx context.Context, event Event) error {
	if _, err := n.client.Post(ctx, "", event); err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	return nil
}
