// Package suggest fetches topic-scoped follow-up prompts. A failed or
// empty fetch hides the suggestion surface; it never disturbs the chat.
package suggest

import (
	"context"
	"log/slog"

	"github.com/gbyperovo-dot/dental-clinic-bot/internal/api"
)

// Coordinator wraps the suggestions endpoint behind the tolerant
// contract the orchestrator expects.
type Coordinator struct {
	client *api.Client
	log    *slog.Logger
}

// New creates a coordinator.
func New(client *api.Client, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{client: client, log: logger}
}

// Fetch returns the prompts for a topic, or nil when the topic is empty,
// the fetch fails, or the service has nothing to offer.
func (c *Coordinator) Fetch(ctx context.Context, topic string) []api.Suggestion {
	if topic == "" {
		return nil
	}
	items, err := c.client.Suggestions(ctx, topic)
	if err != nil {
		c.log.Warn("suggestion fetch failed", "topic", topic, "error", err)
		return nil
	}
	if len(items) == 0 {
		return nil
	}
	return items
}
