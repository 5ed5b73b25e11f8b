package entries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jdholdren/retrodex/internal/dex"
	"github.com/jdholdren/retrodex/internal/events"
)

// PartialDBOnly flags a delete that removed the rows but not the feed post.
const PartialDBOnly = "db-only"

type DeleteResult struct {
	Entry   dex.Entry `json:"-"`
	Partial string    `json:"partial,omitempty"`
}

// Delete removes an entry, its comments and its likes from the datastore and
// its post from the feed. Only the contributor can delete their entry.
//
// The feed side is best effort: a post that's already gone counts as deleted,
// and any other failure is reported through Partial rather than as an error.
func (s *Service) Delete(ctx context.Context, id, userID string) (DeleteResult, error) {
	entry, err := s.store.Entry(ctx, id)
	if err != nil {
		return DeleteResult{}, err
	}
	if userID == "" || entry.Contributor.ID != userID {
		return DeleteResult{}, dex.ErrForbidden
	}

	var res DeleteResult
	if err := s.deletePost(ctx, id); err != nil {
		slog.WarnContext(ctx, "error deleting feed post, deleting rows only", "stage", "delete", "err", err)
		res.Partial = PartialDBOnly
	}

	if err := s.store.DeleteEntry(ctx, id); err != nil && !errors.Is(err, dex.ErrNotFound) {
		return DeleteResult{}, fmt.Errorf("error deleting entry: %w", err)
	}

	s.publish(ctx, events.Event{Action: events.ActionDeleted, EntryID: id, UserID: userID})
	res.Entry = entry
	return res, nil
}

func (s *Service) deletePost(ctx context.Context, id string) error {
	if !isFeedID(id) {
		// Never made it to the feed
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	switch {
	case !s.cfg.PostWebhook.IsZero():
		err := s.feed.DeleteWebhookMessage(ctx, s.cfg.PostWebhook, id)
		if err == nil || !s.feed.HasBot() || s.cfg.ChannelID == "" {
			return err
		}
		// Posted by a previous webhook, try as the bot
		return s.feed.DeleteMessage(ctx, s.cfg.ChannelID, id)
	case s.feed.HasBot() && s.cfg.ChannelID != "":
		return s.feed.DeleteMessage(ctx, s.cfg.ChannelID, id)
	default:
		return errors.New("no feed credential to delete with")
	}
}

// Feed ids are numeric snowflakes; local ids are uuids.
func isFeedID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
