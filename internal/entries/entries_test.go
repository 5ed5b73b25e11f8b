package entries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jdholdren/retrodex/internal/dex"
	"github.com/jdholdren/retrodex/internal/entries/mocks"
	"github.com/jdholdren/retrodex/internal/events"
	"github.com/jdholdren/retrodex/internal/feed"
)

var (
	testHook = feed.Webhook{ID: "77", Token: "tok"}
	testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

type testDeps struct {
	feed      *mocks.MockFeed
	store     *mocks.MockStore
	publisher *mocks.MockPublisher
}

func newTestService(t *testing.T, cfg Config) (*Service, testDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	deps := testDeps{
		feed:      mocks.NewMockFeed(ctrl),
		store:     mocks.NewMockStore(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
	}
	if cfg.ChannelID == "" {
		cfg.ChannelID = "10"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://dex.example"
	}

	return NewService(deps.feed, deps.store, deps.publisher, cfg), deps
}

// A post the way this board publishes it.
func ownedMessage(id, title string, ts time.Time) feed.Message {
	return feed.Message{
		ID:        id,
		ChannelID: "10",
		Timestamp: ts,
		WebhookID: testHook.ID,
		Content:   "[retrodex] mika の投稿\ntitle: " + title + "\nauthor: mika\nepisode: remembered",
		Embeds: []feed.Embed{{
			Title:       title,
			Description: "remembered",
			URL:         "https://dex.example/entries/" + id,
			Footer:      &feed.EmbedFooter{Text: FooterSentinel},
			Author:      &feed.EmbedAuthor{Name: "mika"},
		}},
	}
}

func TestList_OverlayPrecedence(t *testing.T) {
	s, deps := newTestService(t, Config{PostWebhook: testHook})
	ctx := context.Background()

	deps.feed.EXPECT().HasBot().Return(true).AnyTimes()
	deps.feed.EXPECT().Webhook(gomock.Any(), testHook).Return(feed.WebhookInfo{ChannelID: "10"}, nil)
	deps.feed.EXPECT().Messages(gomock.Any(), "10", 50).Return([]feed.Message{ownedMessage("200", "A", testTime)}, nil)
	deps.store.EXPECT().Entries(gomock.Any(), []string{"200"}).Return([]dex.Entry{{
		ID:          "200",
		Title:       "B",
		Tags:        []string{"x"},
		Likes:       3,
		Contributor: dex.Contributor{ID: "u1", Name: "Mika"},
	}}, nil)
	deps.store.EXPECT().CommentCounts(gomock.Any(), []string{"200"}).Return(map[string]int{"200": 2}, nil)

	res := s.List(ctx, ListOptions{})
	assert.Equal(t, SourceFeed, res.Source)
	assert.Equal(t, "strict", res.Diagnostics.Pass)
	assert.Equal(t, 1, res.Diagnostics.Overlaid)
	require.Len(t, res.Entries, 1)

	got := res.Entries[0]
	assert.Equal(t, "B", got.Title)
	assert.Equal(t, "remembered", got.Episode)
	assert.Equal(t, []string{"x"}, got.Tags)
	assert.Equal(t, 3, got.Likes)
	assert.Equal(t, 2, got.CommentCount)
	assert.Equal(t, "u1", got.Contributor.ID)
}

func TestList_FallbackLadder(t *testing.T) {
	s, deps := newTestService(t, Config{CacheTTL: 100 * time.Millisecond})
	ctx := context.Background()

	deps.feed.EXPECT().HasBot().Return(true).AnyTimes()
	deps.store.EXPECT().CommentCounts(gomock.Any(), gomock.Any()).Return(map[string]int{}, nil).AnyTimes()
	gomock.InOrder(
		deps.feed.EXPECT().Messages(gomock.Any(), "10", 50).Return([]feed.Message{ownedMessage("200", "A", testTime)}, nil),
		deps.feed.EXPECT().Messages(gomock.Any(), "10", 50).Return(nil, errors.New("timeout")).Times(2),
	)
	deps.store.EXPECT().Entries(gomock.Any(), []string{"200"}).Return(nil, nil)
	deps.store.EXPECT().AllEntries(gomock.Any()).Return([]dex.Entry{{ID: "db-1", Title: "from the datastore"}}, nil)

	first := s.List(ctx, ListOptions{})
	require.Equal(t, SourceFeed, first.Source)

	cached := s.List(ctx, ListOptions{})
	assert.Equal(t, SourceCache, cached.Source)
	assert.Equal(t, first.Entries, cached.Entries)

	time.Sleep(150 * time.Millisecond)

	fromDB := s.List(ctx, ListOptions{})
	assert.Equal(t, SourceDatastore, fromDB.Source)
	require.Len(t, fromDB.Entries, 1)
	assert.Equal(t, "from the datastore", fromDB.Entries[0].Title)
	assert.Equal(t, dex.GuestContributorID, fromDB.Entries[0].Contributor.ID)
}

func TestList_NoFeedCredential(t *testing.T) {
	s, deps := newTestService(t, Config{})

	deps.feed.EXPECT().HasBot().Return(false).AnyTimes()
	deps.store.EXPECT().AllEntries(gomock.Any()).Return([]dex.Entry{{ID: "db-1"}, {ID: "db-2"}}, nil)
	deps.store.EXPECT().CommentCounts(gomock.Any(), []string{"db-1", "db-2"}).Return(map[string]int{"db-2": 5}, nil)

	res := s.List(context.Background(), ListOptions{})
	assert.Equal(t, SourceDatastore, res.Source)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, 0, res.Entries[0].CommentCount)
	assert.Equal(t, 5, res.Entries[1].CommentCount)
}

func TestList_DatastoreDownIsEmpty(t *testing.T) {
	s, deps := newTestService(t, Config{})

	deps.feed.EXPECT().HasBot().Return(false).AnyTimes()
	deps.store.EXPECT().AllEntries(gomock.Any()).Return(nil, errors.New("db gone"))

	res := s.List(context.Background(), ListOptions{})
	assert.NotNil(t, res.Entries)
	assert.Empty(t, res.Entries)
	assert.NotEmpty(t, res.Diagnostics.Errors)
}

func TestList_MergesChannels(t *testing.T) {
	s, deps := newTestService(t, Config{PostWebhook: testHook})

	older := ownedMessage("100", "old copy", testTime)
	newer := ownedMessage("100", "new copy", testTime)
	latest := ownedMessage("300", "latest", testTime.Add(time.Hour))

	deps.feed.EXPECT().HasBot().Return(true).AnyTimes()
	deps.feed.EXPECT().Webhook(gomock.Any(), testHook).Return(feed.WebhookInfo{ChannelID: "20"}, nil)
	deps.feed.EXPECT().Messages(gomock.Any(), "10", 50).Return([]feed.Message{older}, nil)
	deps.feed.EXPECT().Messages(gomock.Any(), "20", 50).Return([]feed.Message{newer, latest}, nil)

	res := s.List(context.Background(), ListOptions{Fast: true})
	assert.Equal(t, []string{"10", "20"}, res.Diagnostics.Channels)
	assert.Equal(t, 3, res.Diagnostics.Fetched)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, "300", res.Entries[0].ID)
	assert.Equal(t, "100", res.Entries[1].ID)
	assert.Equal(t, "new copy", res.Entries[1].Title)
}

func TestList_ChannelFailureDegrades(t *testing.T) {
	s, deps := newTestService(t, Config{PostWebhook: testHook})

	deps.feed.EXPECT().HasBot().Return(true).AnyTimes()
	deps.feed.EXPECT().Webhook(gomock.Any(), testHook).Return(feed.WebhookInfo{ChannelID: "20"}, nil)
	deps.feed.EXPECT().Messages(gomock.Any(), "10", 50).Return(nil, context.DeadlineExceeded)
	deps.feed.EXPECT().Messages(gomock.Any(), "20", 50).Return([]feed.Message{ownedMessage("300", "ok", testTime)}, nil)

	res := s.List(context.Background(), ListOptions{Fast: true})
	assert.Equal(t, SourceFeed, res.Source)
	require.Len(t, res.Entries, 1)
	assert.Len(t, res.Diagnostics.Errors, 1)
}

func TestList_RepairsThinMessages(t *testing.T) {
	s, deps := newTestService(t, Config{PostWebhook: testHook})

	thin := feed.Message{ID: "400", WebhookID: testHook.ID, Timestamp: testTime, Content: "[retrodex] mika の投稿"}
	unrepairable := feed.Message{
		ID:        "401",
		WebhookID: testHook.ID,
		Timestamp: testTime.Add(-time.Hour),
		Content:   "[retrodex] yui の投稿\ntitle: From text",
	}
	full := ownedMessage("400", "Full", time.Time{})

	deps.feed.EXPECT().HasBot().Return(true).AnyTimes()
	deps.feed.EXPECT().Webhook(gomock.Any(), testHook).Return(feed.WebhookInfo{ChannelID: "10"}, nil)
	deps.feed.EXPECT().Messages(gomock.Any(), "10", 50).Return([]feed.Message{thin, unrepairable}, nil)
	deps.feed.EXPECT().WebhookMessage(gomock.Any(), testHook, "400").Return(full, nil)
	deps.feed.EXPECT().WebhookMessage(gomock.Any(), testHook, "401").Return(feed.Message{}, feed.ErrNotFound)

	res := s.List(context.Background(), ListOptions{Fast: true})
	assert.Equal(t, 1, res.Diagnostics.Repaired)
	require.Len(t, res.Entries, 2)

	assert.Equal(t, "Full", res.Entries[0].Title)
	assert.Equal(t, testTime, res.Entries[0].CreatedAt)

	assert.Equal(t, "From text", res.Entries[1].Title)
	assert.Equal(t, "yui", res.Entries[1].Contributor.Name)
}

func TestList_BackfillSwallowsConflicts(t *testing.T) {
	s, deps := newTestService(t, Config{Backfill: true})

	deps.feed.EXPECT().HasBot().Return(true).AnyTimes()
	deps.feed.EXPECT().Messages(gomock.Any(), "10", 50).Return([]feed.Message{
		ownedMessage("500", "one", testTime),
		ownedMessage("501", "two", testTime.Add(-time.Minute)),
	}, nil)
	deps.store.EXPECT().Entries(gomock.Any(), []string{"500", "501"}).Return(nil, nil)
	deps.store.EXPECT().InsertEntry(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e dex.Entry) (dex.Entry, error) {
		if e.ID == "500" {
			return dex.Entry{}, dex.ErrConflict
		}
		return e, nil
	}).Times(2)
	deps.store.EXPECT().CommentCounts(gomock.Any(), []string{"500", "501"}).Return(map[string]int{}, nil)

	res := s.List(context.Background(), ListOptions{})
	assert.Equal(t, SourceFeed, res.Source)
	assert.Equal(t, 1, res.Diagnostics.Backfilled)
	assert.Empty(t, res.Diagnostics.Errors)
	assert.Len(t, res.Entries, 2)
}

func TestCreate_AdoptsFeedID(t *testing.T) {
	s, deps := newTestService(t, Config{PostWebhook: testHook})
	ctx := context.Background()

	deps.feed.EXPECT().ExecuteWebhook(gomock.Any(), testHook, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ feed.Webhook, p feed.WebhookPayload) (feed.Message, error) {
			assert.Contains(t, p.Content, "title: T")
			assert.Equal(t, FooterSentinel, p.Embeds[0].Footer.Text)
			return feed.Message{ID: "555", Timestamp: testTime}, nil
		},
	)
	deps.feed.EXPECT().EditWebhookMessage(gomock.Any(), testHook, "555", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ feed.Webhook, _ string, p feed.WebhookPayload) (feed.Message, error) {
			assert.Equal(t, "https://dex.example/entries/555", p.Embeds[0].URL)
			return feed.Message{ID: "555"}, nil
		},
	)
	deps.store.EXPECT().InsertEntry(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e dex.Entry) (dex.Entry, error) {
		assert.Equal(t, "555", e.ID)
		assert.Equal(t, []string{"x", "y"}, e.Tags)
		assert.Equal(t, 0, e.Likes)
		return e, nil
	})
	deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, evt events.Event) error {
		assert.Equal(t, events.ActionCreated, evt.Action)
		assert.Equal(t, "555", evt.EntryID)
		return nil
	})

	got, err := s.Create(ctx, NewEntry{
		Title:       " T ",
		Episode:     "E",
		Tags:        []string{"x", "y", "x", " "},
		Contributor: dex.Contributor{ID: "u1", Name: "mika"},
	}, "http://ignored.example")
	require.NoError(t, err)
	assert.Equal(t, "555", got.ID)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, testTime, got.CreatedAt)
}

func TestCreate_FeedDownUsesLocalID(t *testing.T) {
	s, deps := newTestService(t, Config{PostWebhook: testHook, AnnounceWebhook: feed.Webhook{ID: "88", Token: "a"}})

	deps.feed.EXPECT().ExecuteWebhook(gomock.Any(), testHook, gomock.Any()).Return(feed.Message{}, errors.New("unreachable"))
	deps.store.EXPECT().InsertEntry(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e dex.Entry) (dex.Entry, error) {
		return e, nil
	})
	deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	got, err := s.Create(context.Background(), NewEntry{Title: "T", Episode: "E"}, "")
	require.NoError(t, err)
	_, err = uuid.Parse(got.ID)
	assert.NoError(t, err)
	assert.Equal(t, dex.GuestContributorID, got.Contributor.ID)
}

func TestCreate_DatastoreFailureIsFatal(t *testing.T) {
	s, deps := newTestService(t, Config{})

	deps.store.EXPECT().InsertEntry(gomock.Any(), gomock.Any()).Return(dex.Entry{}, errors.New("disk full"))

	_, err := s.Create(context.Background(), NewEntry{Title: "T", Episode: "E"}, "")
	assert.Error(t, err)
}

func TestDelete_OwnerOnly(t *testing.T) {
	s, deps := newTestService(t, Config{PostWebhook: testHook})

	deps.store.EXPECT().Entry(gomock.Any(), "600").Return(dex.Entry{ID: "600", Contributor: dex.Contributor{ID: "u1", Name: "mika"}}, nil)

	_, err := s.Delete(context.Background(), "600", "u2")
	assert.ErrorIs(t, err, dex.ErrForbidden)
}

func TestDelete_PartialWhenFeedFails(t *testing.T) {
	s, deps := newTestService(t, Config{PostWebhook: testHook})

	deps.feed.EXPECT().HasBot().Return(false).AnyTimes()
	deps.store.EXPECT().Entry(gomock.Any(), "600").Return(dex.Entry{ID: "600", Contributor: dex.Contributor{ID: "u1", Name: "mika"}}, nil)
	deps.feed.EXPECT().DeleteWebhookMessage(gomock.Any(), testHook, "600").Return(&feed.APIError{Status: 500})
	deps.store.EXPECT().DeleteEntry(gomock.Any(), "600").Return(nil)
	deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	res, err := s.Delete(context.Background(), "600", "u1")
	require.NoError(t, err)
	assert.Equal(t, PartialDBOnly, res.Partial)
}

func TestDelete_LocalIDSkipsFeed(t *testing.T) {
	s, deps := newTestService(t, Config{PostWebhook: testHook})
	id := uuid.NewString()

	deps.store.EXPECT().Entry(gomock.Any(), id).Return(dex.Entry{ID: id, Contributor: dex.Contributor{ID: "u1", Name: "mika"}}, nil)
	deps.store.EXPECT().DeleteEntry(gomock.Any(), id).Return(nil)
	deps.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	res, err := s.Delete(context.Background(), id, "u1")
	require.NoError(t, err)
	assert.Empty(t, res.Partial)
}

func TestSync_SkipsExisting(t *testing.T) {
	s, deps := newTestService(t, Config{})

	deps.feed.EXPECT().HasBot().Return(true).AnyTimes()
	deps.feed.EXPECT().Messages(gomock.Any(), "10", 50).Return([]feed.Message{
		ownedMessage("700", "known", testTime),
		ownedMessage("701", "new", testTime.Add(-time.Minute)),
	}, nil)
	deps.store.EXPECT().Entries(gomock.Any(), []string{"700", "701"}).Return([]dex.Entry{{ID: "700"}}, nil)
	deps.store.EXPECT().InsertEntry(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e dex.Entry) (dex.Entry, error) {
		assert.Equal(t, "701", e.ID)
		return e, nil
	})

	res, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SyncResult{Success: true, TotalFound: 2, Synced: 1, Skipped: 1}, res)
}

func TestSync_NeedsBot(t *testing.T) {
	s, deps := newTestService(t, Config{})
	deps.feed.EXPECT().HasBot().Return(false).AnyTimes()

	_, err := s.Sync(context.Background())
	assert.ErrorIs(t, err, ErrFeedUnavailable)
}

func TestGet_FallsBackToFeed(t *testing.T) {
	s, deps := newTestService(t, Config{PostWebhook: testHook})

	deps.store.EXPECT().Entry(gomock.Any(), "800").Return(dex.Entry{}, dex.ErrNotFound)
	deps.feed.EXPECT().WebhookMessage(gomock.Any(), testHook, "800").Return(ownedMessage("800", "from feed", testTime), nil)
	deps.store.EXPECT().CommentCounts(gomock.Any(), []string{"800"}).Return(map[string]int{"800": 1}, nil)

	got, err := s.Get(context.Background(), "800")
	require.NoError(t, err)
	assert.Equal(t, "from feed", got.Title)
	assert.Equal(t, 1, got.CommentCount)
}

func TestRefreshImage(t *testing.T) {
	s, deps := newTestService(t, Config{PostWebhook: testHook})

	msg := ownedMessage("900", "img", testTime)
	msg.Embeds[0].Image = &feed.EmbedImage{URL: "https://cdn.discordapp.com/attachments/1/2/new.png?ex=2"}

	deps.store.EXPECT().Entry(gomock.Any(), "900").Return(dex.Entry{ID: "900", ImageURL: "https://cdn.discordapp.com/attachments/1/2/new.png?ex=1"}, nil)
	deps.feed.EXPECT().WebhookMessage(gomock.Any(), testHook, "900").Return(msg, nil)
	deps.store.EXPECT().UpdateEntry(gomock.Any(), "900", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, args dex.UpdateEntryArgs) error {
		require.NotNil(t, args.ImageURL)
		assert.Equal(t, "https://cdn.discordapp.com/attachments/1/2/new.png?ex=2", *args.ImageURL)
		return nil
	})

	url, updated, err := s.RefreshImage(context.Background(), "900")
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Contains(t, url, "ex=2")
}

func TestRefreshAllImages(t *testing.T) {
	s, deps := newTestService(t, Config{PostWebhook: testHook})

	fresh := ownedMessage("900", "img", testTime)
	fresh.Embeds[0].Image = &feed.EmbedImage{URL: "https://cdn.discordapp.com/attachments/1/2/a.png?ex=2"}

	deps.store.EXPECT().AllEntries(gomock.Any()).Return([]dex.Entry{
		{ID: "900", ImageURL: "https://cdn.discordapp.com/attachments/1/2/a.png?ex=1"},
		{ID: "901", ImageURL: "https://cdn.discordapp.com/attachments/1/2/b.png?ex=1"},
		{ID: "local-1", ImageURL: "https://cdn.discordapp.com/attachments/1/2/c.png"},
		{ID: "902", ImageURL: "/uploads/d.png"},
	}, nil)
	deps.store.EXPECT().Entry(gomock.Any(), "900").Return(dex.Entry{ID: "900", ImageURL: "https://cdn.discordapp.com/attachments/1/2/a.png?ex=1"}, nil)
	deps.store.EXPECT().Entry(gomock.Any(), "901").Return(dex.Entry{ID: "901"}, nil)
	deps.feed.EXPECT().WebhookMessage(gomock.Any(), testHook, "900").Return(fresh, nil)
	deps.feed.EXPECT().WebhookMessage(gomock.Any(), testHook, "901").Return(feed.Message{}, feed.ErrNotFound)
	deps.feed.EXPECT().HasBot().Return(false)
	deps.store.EXPECT().UpdateEntry(gomock.Any(), "900", gomock.Any()).Return(nil)

	stats, err := s.RefreshAllImages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RefreshStats{Total: 2, Updated: 1, Failed: 1}, stats)
}

func TestClearCache(t *testing.T) {
	s, deps := newTestService(t, Config{})
	ctx := context.Background()

	deps.feed.EXPECT().HasBot().Return(true).AnyTimes()
	deps.store.EXPECT().CommentCounts(gomock.Any(), gomock.Any()).Return(map[string]int{}, nil).AnyTimes()
	deps.feed.EXPECT().Messages(gomock.Any(), "10", 50).Return([]feed.Message{ownedMessage("200", "A", testTime)}, nil)
	deps.feed.EXPECT().Messages(gomock.Any(), "10", 50).Return(nil, errors.New("timeout"))
	deps.store.EXPECT().Entries(gomock.Any(), []string{"200"}).Return(nil, nil)
	deps.store.EXPECT().AllEntries(gomock.Any()).Return(nil, nil)

	require.Equal(t, SourceFeed, s.List(ctx, ListOptions{}).Source)
	s.ClearCache()

	res := s.List(ctx, ListOptions{})
	assert.Equal(t, SourceDatastore, res.Source)
	assert.Empty(t, res.Entries)
}

func TestList_NoisyStrictPassFallsThrough(t *testing.T) {
	s, deps := newTestService(t, Config{PostWebhook: testHook})

	noise := feed.Message{
		ID:        "500",
		ChannelID: "10",
		Timestamp: testTime,
		WebhookID: testHook.ID,
		Content:   "hello",
		Embeds:    []feed.Embed{{Footer: &feed.EmbedFooter{Text: FooterSentinel}}},
	}
	relayed := ownedMessage("501", "relayed", testTime.Add(-time.Minute))
	relayed.WebhookID = ""

	deps.feed.EXPECT().HasBot().Return(true).AnyTimes()
	deps.feed.EXPECT().Webhook(gomock.Any(), testHook).Return(feed.WebhookInfo{ChannelID: "10"}, nil)
	deps.feed.EXPECT().Messages(gomock.Any(), "10", 50).Return([]feed.Message{noise, relayed}, nil)
	deps.store.EXPECT().Entries(gomock.Any(), []string{"501"}).Return(nil, nil)
	deps.store.EXPECT().CommentCounts(gomock.Any(), gomock.Any()).Return(map[string]int{}, nil).AnyTimes()

	res := s.List(context.Background(), ListOptions{})
	require.Equal(t, SourceFeed, res.Source)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "501", res.Entries[0].ID)
	assert.Equal(t, "relaxed", res.Diagnostics.Pass)
}

func TestList_CacheOutlivesWrites(t *testing.T) {
	s, deps := newTestService(t, Config{PostWebhook: testHook})
	ctx := context.Background()

	listed := ownedMessage("600", "cached", testTime)
	fresh := ownedMessage("600", "cached", testTime)
	fresh.Embeds[0].Image = &feed.EmbedImage{URL: "https://cdn.discordapp.com/attachments/1/2/new.png"}

	deps.feed.EXPECT().HasBot().Return(true).AnyTimes()
	deps.feed.EXPECT().Webhook(gomock.Any(), testHook).Return(feed.WebhookInfo{ChannelID: "10"}, nil)
	deps.store.EXPECT().CommentCounts(gomock.Any(), gomock.Any()).Return(map[string]int{}, nil).AnyTimes()
	deps.feed.EXPECT().Messages(gomock.Any(), "10", 50).Return([]feed.Message{listed}, nil)
	deps.feed.EXPECT().Messages(gomock.Any(), "10", 50).Return(nil, errors.New("timeout"))
	deps.store.EXPECT().Entries(gomock.Any(), []string{"600"}).Return(nil, nil)
	deps.store.EXPECT().Entry(gomock.Any(), "600").Return(dex.Entry{ID: "600"}, nil)
	deps.feed.EXPECT().WebhookMessage(gomock.Any(), testHook, "600").Return(fresh, nil)
	deps.store.EXPECT().UpdateEntry(gomock.Any(), "600", gomock.Any()).Return(nil)

	require.Equal(t, SourceFeed, s.List(ctx, ListOptions{}).Source)
	_, updated, err := s.RefreshImage(ctx, "600")
	require.NoError(t, err)
	require.True(t, updated)

	res := s.List(ctx, ListOptions{})
	assert.Equal(t, SourceCache, res.Source)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "cached", res.Entries[0].Title)
}
