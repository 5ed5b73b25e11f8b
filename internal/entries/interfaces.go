package entries

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/jdholdren/retrodex/internal/dex"
	"github.com/jdholdren/retrodex/internal/events"
	"github.com/jdholdren/retrodex/internal/feed"
)

// Feed is the part of the platform client the pipeline needs.
type Feed interface {
	HasBot() bool
	Messages(ctx context.Context, channelID string, limit int) ([]feed.Message, error)
	Message(ctx context.Context, channelID, messageID string) (feed.Message, error)
	WebhookMessage(ctx context.Context, hook feed.Webhook, messageID string) (feed.Message, error)
	Webhook(ctx context.Context, hook feed.Webhook) (feed.WebhookInfo, error)
	ExecuteWebhook(ctx context.Context, hook feed.Webhook, payload feed.WebhookPayload) (feed.Message, error)
	EditWebhookMessage(ctx context.Context, hook feed.Webhook, messageID string, payload feed.WebhookPayload) (feed.Message, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	DeleteWebhookMessage(ctx context.Context, hook feed.Webhook, messageID string) error
}

// Store is the entry side of the Local Datastore.
type Store interface {
	Entry(ctx context.Context, id string) (dex.Entry, error)
	Entries(ctx context.Context, ids []string) ([]dex.Entry, error)
	AllEntries(ctx context.Context) ([]dex.Entry, error)
	InsertEntry(ctx context.Context, e dex.Entry) (dex.Entry, error)
	UpdateEntry(ctx context.Context, id string, args dex.UpdateEntryArgs) error
	DeleteEntry(ctx context.Context, id string) error
	CommentCounts(ctx context.Context, entryIDs []string) (map[string]int, error)
}

// Publisher fans entry lifecycle events out to other systems.
type Publisher interface {
	Publish(ctx context.Context, evt events.Event) error
}
