package entries

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jdholdren/retrodex/internal/dex"
	"github.com/jdholdren/retrodex/internal/events"
	"github.com/jdholdren/retrodex/internal/feed"
	"github.com/jdholdren/retrodex/internal/logger"
)

const (
	postUsername  = "retrodex"
	embedColor    = 0xF4A261
	announceColor = 0x2A9D8F
)

// NewEntry is a post as submitted, before it's published anywhere.
type NewEntry struct {
	Title       string
	Episode     string
	ImageURL    string
	Tags        []string
	Age         *int
	Contributor dex.Contributor
}

// Create publishes the entry to the feed and then mirrors it into the datastore
// under the feed's message id.
//
// If the feed post fails the row gets a local id instead, and the entry only
// shows up through the feed once something re-posts or syncs it. Only a
// datastore failure fails the call.
func (s *Service) Create(ctx context.Context, in NewEntry, origin string) (dex.Entry, error) {
	entry := dex.Entry{
		Title:       strings.Join(strings.Fields(in.Title), " "),
		Episode:     strings.TrimSpace(in.Episode),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Tags:        dex.NormalizeTags(in.Tags),
		Age:         in.Age,
		Contributor: in.Contributor.OrDefault(),
		CreatedAt:   time.Now().UTC(),
	}
	if entry.Title == "" {
		entry.Title = dex.DefaultTitle
	}
	base := s.BaseURL(origin)

	if msg, ok := s.publishPost(ctx, entry, base); ok {
		entry.ID = msg.ID
		if !msg.Timestamp.IsZero() {
			entry.CreatedAt = msg.Timestamp.UTC()
		}
		s.announce(ctx, entry, base)
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	ctx = logger.Ctx(ctx, slog.String("entry_id", entry.ID))

	row, err := s.store.InsertEntry(ctx, entry)
	if err != nil {
		return dex.Entry{}, fmt.Errorf("error inserting entry: %w", err)
	}
	row.ID = entry.ID

	s.publish(ctx, events.Event{Action: events.ActionCreated, EntryID: row.ID, Entry: &row, UserID: row.Contributor.ID})
	return row, nil
}

// Posts the entry through the webhook. The detail link can only point at the
// entry once the feed has handed back an id, so the post is edited afterwards.
func (s *Service) publishPost(ctx context.Context, entry dex.Entry, base string) (feed.Message, bool) {
	if s.cfg.PostWebhook.IsZero() {
		return feed.Message{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg, err := s.feed.ExecuteWebhook(ctx, s.cfg.PostWebhook, postPayload(entry, base))
	if err != nil {
		slog.WarnContext(ctx, "error posting entry to feed, using a local id", "stage", "publish", "err", err)
		return feed.Message{}, false
	}
	if msg.ID == "" {
		slog.WarnContext(ctx, "feed returned no message id, using a local id", "stage", "publish")
		return feed.Message{}, false
	}

	entry.ID = msg.ID
	if _, err := s.feed.EditWebhookMessage(ctx, s.cfg.PostWebhook, msg.ID, postPayload(entry, base)); err != nil {
		slog.WarnContext(ctx, "error linking feed post to its entry", "stage", "publish", "entry_id", msg.ID, "err", err)
	}

	return msg, true
}

func (s *Service) announce(ctx context.Context, entry dex.Entry, base string) {
	if s.cfg.AnnounceWebhook.IsZero() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if _, err := s.feed.ExecuteWebhook(ctx, s.cfg.AnnounceWebhook, announcePayload(entry, base)); err != nil {
		slog.WarnContext(ctx, "error announcing entry", "stage", "announce", "entry_id", entry.ID, "err", err)
	}
}

func postPayload(e dex.Entry, base string) feed.WebhookPayload {
	embed := feed.Embed{
		Title:       truncate(e.Title, maxTitleRunes),
		Description: truncate(e.Episode, maxDescRunes),
		URL:         detailURL(base, e.ID),
		Color:       embedColor,
		Footer:      &feed.EmbedFooter{Text: FooterSentinel},
		Author: &feed.EmbedAuthor{
			Name:    e.Contributor.Name,
			IconURL: absoluteURL(base, e.Contributor.AvatarURL),
		},
	}
	if img := absoluteURL(base, e.ImageURL); img != "" {
		embed.Image = &feed.EmbedImage{URL: img}
	}

	return feed.WebhookPayload{
		Content:         buildContent(e),
		Username:        postUsername,
		Embeds:          []feed.Embed{embed},
		AllowedMentions: &feed.AllowedMentions{Parse: []string{}},
	}
}

func announcePayload(e dex.Entry, base string) feed.WebhookPayload {
	embed := feed.Embed{
		Title:       truncate(e.Title, maxTitleRunes),
		Description: truncate(e.Episode, maxAnnounceRunes),
		Color:       announceColor,
		Author: &feed.EmbedAuthor{
			Name:    e.Contributor.Name,
			IconURL: absoluteURL(base, e.Contributor.AvatarURL),
		},
	}
	if base != "" {
		embed.URL = detailURL(base, e.ID)
	}
	if img := absoluteURL(base, e.ImageURL); img != "" {
		embed.Image = &feed.EmbedImage{URL: img}
	}

	return feed.WebhookPayload{
		Content:         fmt.Sprintf("New memory from **%s**", e.Contributor.Name),
		Username:        postUsername,
		Embeds:          []feed.Embed{embed},
		AllowedMentions: &feed.AllowedMentions{Parse: []string{}},
	}
}

func detailURL(base, id string) string {
	return base + "/entries/" + id
}

// Makes site relative urls absolute. Anything that still isn't http(s) is dropped.
func absoluteURL(base, u string) string {
	u = strings.TrimSpace(u)
	if strings.HasPrefix(u, "/") && base != "" {
		u = base + u
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return ""
}
