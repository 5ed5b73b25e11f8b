package entries

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jdholdren/retrodex/internal/dex"
)

// ErrFeedUnavailable is returned by operations that can't do anything without reading the feed.
var ErrFeedUnavailable = errors.New("feed reads are not configured")

type SyncResult struct {
	Success    bool `json:"success"`
	TotalFound int  `json:"totalFound"`
	Synced     int  `json:"synced"`
	Skipped    int  `json:"skipped"`
	Failed     int  `json:"failed"`
}

// Sync inserts a datastore row for every post on the feed that doesn't have
// one yet. Existing rows are left alone, so running it twice is harmless.
func (s *Service) Sync(ctx context.Context) (SyncResult, error) {
	if !s.feed.HasBot() {
		return SyncResult{}, ErrFeedUnavailable
	}

	var diag Diagnostics
	entries, err := s.collect(ctx, &diag)
	if errors.Is(err, errNoFeed) {
		return SyncResult{}, ErrFeedUnavailable
	}
	res := SyncResult{Success: true, TotalFound: len(entries)}
	if len(entries) == 0 {
		return res, nil
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	rows, err := s.store.Entries(ctx, ids)
	if err != nil {
		return SyncResult{}, err
	}
	existing := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		existing[row.ID] = struct{}{}
	}

	for _, e := range entries {
		if _, ok := existing[e.ID]; ok {
			res.Skipped++
			continue
		}

		_, err := s.store.InsertEntry(ctx, e)
		switch {
		case errors.Is(err, dex.ErrConflict):
			res.Skipped++
		case err != nil:
			slog.WarnContext(ctx, "error syncing entry", "stage", "sync", "entry_id", e.ID, "err", err)
			res.Failed++
		default:
			res.Synced++
		}
	}
	slog.InfoContext(ctx, "synced feed to datastore",
		"found", res.TotalFound,
		"synced", res.Synced,
		"skipped", res.Skipped,
		"failed", res.Failed,
	)
	return res, nil
}
