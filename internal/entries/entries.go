// Package entries reconciles the board's posts between the platform's message
// feed and the local datastore.
//
// The feed is where a post's content is published first; the datastore holds
// the counters and anything edited afterwards. Reads merge the two, and fall
// back to the last good result or to the datastore alone when the feed isn't
// answering. Nothing here spans both stores transactionally.
package entries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jdholdren/retrodex/internal/dex"
	"github.com/jdholdren/retrodex/internal/events"
	"github.com/jdholdren/retrodex/internal/feed"
)

const (
	lastGoodKey = "entries"

	defaultPageSize     = 50
	defaultFetchTimeout = 2 * time.Second
	defaultCacheTTL     = 60 * time.Second
	channelCacheTTL     = 10 * time.Minute
	publishTimeout      = 10 * time.Second
)

type (
	Service struct {
		feed      Feed
		store     Store
		publisher Publisher
		cfg       Config

		// The last list that came back from the feed, for when it stops answering.
		lastGood *expirable.LRU[string, []dex.Entry]
		// Webhook id to the channel it posts into.
		channels *expirable.LRU[string, string]
	}

	Config struct {
		ChannelID       string
		PostWebhook     feed.Webhook
		AnnounceWebhook feed.Webhook
		BaseURL         string // Public url of the site, wins over the request's origin

		PageSize     int
		FetchTimeout time.Duration
		CacheTTL     time.Duration
		Backfill     bool // Insert rows for feed posts the datastore hasn't seen
	}
)

func NewService(f Feed, store Store, pub Publisher, cfg Config) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	cfg.PageSize = min(cfg.PageSize, feed.MaxPageSize)
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Service{
		feed:      f,
		store:     store,
		publisher: pub,
		cfg:       cfg,
		lastGood:  expirable.NewLRU[string, []dex.Entry](1, nil, cfg.CacheTTL),
		channels:  expirable.NewLRU[string, string](8, nil, channelCacheTTL),
	}
}

// ClearCache drops the last good list.
func (s *Service) ClearCache() {
	s.lastGood.Purge()
}

// BaseURL resolves the externally visible root of the site.
func (s *Service) BaseURL(origin string) string {
	if s.cfg.BaseURL != "" {
		return s.cfg.BaseURL
	}
	return strings.TrimRight(origin, "/")
}

func (s *Service) ownership() ownership {
	return ownership{
		webhookID: s.cfg.PostWebhook.ID,
		baseURL:   s.cfg.BaseURL,
	}
}

func (s *Service) publish(ctx context.Context, evt events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		slog.WarnContext(ctx, "error publishing entry event", "action", evt.Action, "err", err)
	}
}

// Fetches one message, through the webhook if it can and the bot otherwise.
func (s *Service) message(ctx context.Context, id string) (feed.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	if !s.cfg.PostWebhook.IsZero() {
		msg, err := s.feed.WebhookMessage(ctx, s.cfg.PostWebhook, id)
		if err == nil || !s.feed.HasBot() {
			return msg, err
		}
	}
	if s.cfg.ChannelID == "" {
		return feed.Message{}, feed.ErrNotConfigured
	}
	return s.feed.Message(ctx, s.cfg.ChannelID, id)
}

// Credentials reports which feed credentials the service was given.
type Credentials struct {
	Bot             bool `json:"bot"`
	Channel         bool `json:"channel"`
	PostWebhook     bool `json:"postWebhook"`
	AnnounceWebhook bool `json:"announceWebhook"`
}

func (s *Service) Credentials() Credentials {
	return Credentials{
		Bot:             s.feed.HasBot(),
		Channel:         s.cfg.ChannelID != "",
		PostWebhook:     !s.cfg.PostWebhook.IsZero(),
		AnnounceWebhook: !s.cfg.AnnounceWebhook.IsZero(),
	}
}
