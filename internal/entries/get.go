package entries

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jdholdren/retrodex/internal/dex"
)

// Get reads a single entry, from the datastore if it has it and from the feed
// post otherwise.
func (s *Service) Get(ctx context.Context, id string) (dex.Entry, error) {
	entry, err := s.store.Entry(ctx, id)
	if err != nil && !errors.Is(err, dex.ErrNotFound) {
		return dex.Entry{}, err
	}
	if err != nil {
		msg, ferr := s.message(ctx, id)
		if ferr != nil || isUpload(msg) || !s.ownership().relaxed(msg) {
			return dex.Entry{}, dex.ErrNotFound
		}
		entry = toEntry(msg)
	}
	entry.Contributor = entry.Contributor.OrDefault()

	one := []dex.Entry{entry}
	s.attachCommentCounts(ctx, one)
	return one[0], nil
}

// RefreshImage re-reads the entry's feed post and stores the image url it
// carries now. Hosted attachment urls expire, the post always has a fresh one.
func (s *Service) RefreshImage(ctx context.Context, id string) (string, bool, error) {
	entry, err := s.store.Entry(ctx, id)
	if err != nil {
		return "", false, err
	}

	msg, err := s.message(ctx, id)
	if err != nil {
		return "", false, err
	}
	url := toEntry(msg).ImageURL
	if url == "" || url == entry.ImageURL {
		return entry.ImageURL, false, nil
	}

	if err := s.store.UpdateEntry(ctx, id, dex.UpdateEntryArgs{ImageURL: &url}); err != nil {
		return "", false, err
	}

	return url, true, nil
}

type RefreshStats struct {
	Total   int `json:"total"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

const refreshPause = 100 * time.Millisecond

// RefreshAllImages runs RefreshImage over every entry whose image is hosted by the feed.
func (s *Service) RefreshAllImages(ctx context.Context) (RefreshStats, error) {
	all, err := s.store.AllEntries(ctx)
	if err != nil {
		return RefreshStats{}, err
	}

	var stats RefreshStats
	for _, e := range all {
		if !isFeedHosted(e.ImageURL) || !isFeedID(e.ID) {
			continue
		}
		if stats.Total > 0 {
			// Stay under the platform's rate limit
			if err := sleepCtx(ctx, refreshPause); err != nil {
				return stats, err
			}
		}
		stats.Total++

		_, updated, err := s.RefreshImage(ctx, e.ID)
		if err != nil {
			slog.WarnContext(ctx, "error refreshing image", "entry_id", e.ID, "err", err)
			stats.Failed++
			continue
		}
		if updated {
			stats.Updated++
		}
	}

	return stats, nil
}

func isFeedHosted(u string) bool {
	return strings.Contains(u, "cdn.discordapp.com") || strings.Contains(u, "media.discordapp.net")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
