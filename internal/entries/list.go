package entries

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jdholdren/retrodex/internal/dex"
	"github.com/jdholdren/retrodex/internal/feed"
)

// Where a list came from.
const (
	SourceFeed      = "feed"
	SourceCache     = "cache"
	SourceDatastore = "datastore"
)

const repairConcurrency = 4

type (
	ListOptions struct {
		Fast bool // Skip the datastore overlay and comment counts
	}

	ListResult struct {
		Entries     []dex.Entry
		Source      string
		Diagnostics Diagnostics
	}

	// Diagnostics describes what the pipeline saw on the way to a result.
	Diagnostics struct {
		Channels   []string `json:"channels"`
		Fetched    int      `json:"fetched"`
		Unique     int      `json:"unique"`
		Pass       string   `json:"pass"`
		Matched    int      `json:"matched"`
		Repaired   int      `json:"repaired"`
		Noise      int      `json:"noise"`
		Overlaid   int      `json:"overlaid"`
		Backfilled int      `json:"backfilled"`
		Errors     []string `json:"errors,omitempty"`

		mu sync.Mutex
	}
)

func (d *Diagnostics) addError(stage string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Errors = append(d.Errors, stage+": "+err.Error())
}

// List returns the board's entries, newest first.
//
// It never fails: when the feed yields nothing usable it serves the last good
// list if it's still fresh, then whatever the datastore has.
func (s *Service) List(ctx context.Context, opts ListOptions) *ListResult {
	res := &ListResult{}

	entries, err := s.collect(ctx, &res.Diagnostics)
	if err == nil && len(entries) > 0 {
		if !opts.Fast {
			res.Diagnostics.Overlaid, res.Diagnostics.Backfilled = s.overlay(ctx, entries, &res.Diagnostics)
			s.attachCommentCounts(ctx, entries)
			s.lastGood.Add(lastGoodKey, slices.Clone(entries))
		}
		res.Entries, res.Source = entries, SourceFeed
		return res
	}
	if err != nil {
		slog.InfoContext(ctx, "feed yielded nothing, falling back", "reason", err)
	}

	if cached, ok := s.lastGood.Get(lastGoodKey); ok {
		res.Entries, res.Source = slices.Clone(cached), SourceCache
		return res
	}

	res.Entries, res.Source = s.fromDatastore(ctx, &res.Diagnostics), SourceDatastore
	return res
}

var (
	errNoFeed     = errors.New("no feed credential or channel configured")
	errNoMessages = errors.New("no messages fetched")
	errNoMatches  = errors.New("no messages belong to this board")
)

// collect runs the feed half of the pipeline: fetch, merge, filter, repair and map.
func (s *Service) collect(ctx context.Context, diag *Diagnostics) ([]dex.Entry, error) {
	if !s.feed.HasBot() {
		return nil, errNoFeed
	}
	diag.Channels = s.candidateChannels(ctx)
	if len(diag.Channels) == 0 {
		return nil, errNoFeed
	}

	perChannel := s.fetch(ctx, diag.Channels, diag)
	for _, msgs := range perChannel {
		diag.Fetched += len(msgs)
	}
	msgs := mergeMessages(perChannel)
	diag.Unique = len(msgs)
	if len(msgs) == 0 {
		return nil, errNoMessages
	}

	// A pass whose matches are all noise counts as no match
	passes := s.ownership().passes()
	for i := range passes {
		owned, pass := filterOwned(msgs, passes[i:i+1])
		if len(owned) == 0 {
			continue
		}
		diag.Pass, diag.Matched = pass, len(owned)

		owned, repaired := s.repair(ctx, owned, diag)
		diag.Repaired += repaired

		entries := make([]dex.Entry, 0, len(owned))
		for _, m := range owned {
			if isNoise(m) {
				diag.Noise++
				continue
			}
			entries = append(entries, toEntry(m))
		}
		if len(entries) > 0 {
			return entries, nil
		}
	}

	return nil, errNoMatches
}

// The configured channel plus whichever one the post webhook writes into.
func (s *Service) candidateChannels(ctx context.Context) []string {
	var chans []string
	if s.cfg.ChannelID != "" {
		chans = append(chans, s.cfg.ChannelID)
	}

	hook := s.cfg.PostWebhook
	if hook.IsZero() {
		return chans
	}
	channelID, ok := s.channels.Get(hook.ID)
	if !ok {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()

		info, err := s.feed.Webhook(ctx, hook)
		if err != nil {
			slog.WarnContext(ctx, "error discovering webhook channel", "stage", "channels", "err", err)
			return chans
		}
		channelID = info.ChannelID
		s.channels.Add(hook.ID, channelID)
	}
	if channelID != "" && !slices.Contains(chans, channelID) {
		chans = append(chans, channelID)
	}

	return chans
}

// Lists every channel at once. A channel that errors or runs past the timeout
// contributes nothing.
func (s *Service) fetch(ctx context.Context, chans []string, diag *Diagnostics) [][]feed.Message {
	results := make([][]feed.Message, len(chans))

	var g errgroup.Group
	for i, channelID := range chans {
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
			defer cancel()

			msgs, err := s.feed.Messages(ctx, channelID, s.cfg.PageSize)
			if err != nil {
				slog.WarnContext(ctx, "error fetching channel", "stage", "fetch", "channel_id", channelID, "err", err)
				diag.addError("fetch", err)
				return nil
			}
			results[i] = msgs
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Dedupes by id, later channels winning, and orders newest first.
func mergeMessages(perChannel [][]feed.Message) []feed.Message {
	byID := make(map[string]feed.Message)
	for _, msgs := range perChannel {
		for _, m := range msgs {
			byID[m.ID] = m
		}
	}

	merged := make([]feed.Message, 0, len(byID))
	for _, m := range byID {
		merged = append(merged, m)
	}
	slices.SortFunc(merged, func(a, b feed.Message) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		// Snowflakes: longer is larger
		if c := cmp.Compare(len(b.ID), len(a.ID)); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	return merged
}

// Re-reads messages the list call came back thin for. Anything that still
// can't be read is kept as it was.
func (s *Service) repair(ctx context.Context, msgs []feed.Message, diag *Diagnostics) ([]feed.Message, int) {
	if s.cfg.PostWebhook.IsZero() {
		return msgs, 0
	}

	var (
		out      = slices.Clone(msgs)
		repaired = make([]bool, len(msgs))
		g        errgroup.Group
	)
	g.SetLimit(repairConcurrency)
	for i, m := range msgs {
		if !isThin(m) {
			continue
		}
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
			defer cancel()

			full, err := s.feed.WebhookMessage(ctx, s.cfg.PostWebhook, m.ID)
			if err != nil {
				slog.WarnContext(ctx, "error repairing message", "stage", "repair", "message_id", m.ID, "err", err)
				diag.addError("repair", err)
				return nil
			}
			if full.Timestamp.IsZero() {
				full.Timestamp = m.Timestamp
			}
			if full.ChannelID == "" {
				full.ChannelID = m.ChannelID
			}
			out[i], repaired[i] = full, true
			return nil
		})
	}
	_ = g.Wait()

	var n int
	for _, ok := range repaired {
		if ok {
			n++
		}
	}
	return out, n
}

// Overlays datastore rows onto the feed's entries, back filling rows that
// don't exist yet. Returns how many were overlaid and back filled.
func (s *Service) overlay(ctx context.Context, entries []dex.Entry, diag *Diagnostics) (int, int) {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	rows, err := s.store.Entries(ctx, ids)
	if err != nil {
		slog.WarnContext(ctx, "error fetching rows to overlay", "stage", "overlay", "err", err)
		diag.addError("overlay", err)
		return 0, 0
	}
	rowsByID := make(map[string]dex.Entry, len(rows))
	for _, row := range rows {
		rowsByID[row.ID] = row
	}

	var overlaid, backfilled int
	for i, e := range entries {
		row, ok := rowsByID[e.ID]
		if ok {
			entries[i] = overlayEntry(e, row)
			overlaid++
			continue
		}
		if !s.cfg.Backfill {
			continue
		}

		_, err := s.store.InsertEntry(ctx, e)
		switch {
		case errors.Is(err, dex.ErrConflict):
			// Someone else got there first
		case err != nil:
			slog.WarnContext(ctx, "error back filling entry", "stage", "backfill", "entry_id", e.ID, "err", err)
			diag.addError("backfill", err)
		default:
			backfilled++
		}
	}

	return overlaid, backfilled
}

// Sets CommentCount on every entry from one grouped query. Missing counts stay zero.
func (s *Service) attachCommentCounts(ctx context.Context, entries []dex.Entry) {
	if len(entries) == 0 {
		return
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	counts, err := s.store.CommentCounts(ctx, ids)
	if err != nil {
		slog.WarnContext(ctx, "error counting comments", "stage", "comment_counts", "err", err)
		return
	}
	for i := range entries {
		entries[i].CommentCount = counts[entries[i].ID]
	}
}

func (s *Service) fromDatastore(ctx context.Context, diag *Diagnostics) []dex.Entry {
	entries, err := s.store.AllEntries(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error listing entries from the datastore", "stage", "datastore", "err", err)
		diag.addError("datastore", err)
		return []dex.Entry{}
	}
	for i := range entries {
		entries[i].Contributor = entries[i].Contributor.OrDefault()
	}
	s.attachCommentCounts(ctx, entries)

	return entries
}
