package entries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/retrodex/internal/feed"
)

var testOwnership = ownership{webhookID: "77", baseURL: "https://dex.example"}

func TestFilterOwned_StrictWins(t *testing.T) {
	msgs := []feed.Message{
		{ID: "1", WebhookID: "77", Content: "[retrodex] mika の投稿"},
		{ID: "2", WebhookID: "99", Content: "[retrodex] yui の投稿"},
		{ID: "3", Content: "just chatting"},
	}

	got, pass := filterOwned(msgs, testOwnership.passes())
	assert.Equal(t, "strict", pass)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestFilterOwned_RelaxedWhenStrictEmpty(t *testing.T) {
	msgs := []feed.Message{
		{ID: "2", WebhookID: "99", Content: "[retrodex] yui の投稿"},
		{ID: "3", Content: "[retrodex] ren の投稿"},
		{ID: "4", Content: "just chatting"},
	}

	// Under strict alone none of these are ours
	strictOnly, _ := filterOwned(msgs, testOwnership.passes()[:1])
	assert.Empty(t, strictOnly)

	got, pass := filterOwned(msgs, testOwnership.passes())
	assert.Equal(t, "relaxed", pass)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestFilterOwned_EmbedMarkers(t *testing.T) {
	msgs := []feed.Message{
		{ID: "5", Embeds: []feed.Embed{{Title: "a", Footer: &feed.EmbedFooter{Text: "retrodex"}}}},
		{ID: "6", Embeds: []feed.Embed{{Title: "b", URL: "https://dex.example/entries/6"}}},
		{ID: "7", Embeds: []feed.Embed{{Title: "c", URL: "https://elsewhere.example/entries/7"}}},
	}

	got, pass := filterOwned(msgs, testOwnership.passes())
	assert.Equal(t, "relaxed", pass)
	require.Len(t, got, 2)
	assert.Equal(t, "5", got[0].ID)
	assert.Equal(t, "6", got[1].ID)
}

func TestFilterOwned_UploadsNeverMatch(t *testing.T) {
	msgs := []feed.Message{
		{
			ID:          "8",
			WebhookID:   "77",
			Content:     "[retrodex-upload]",
			Embeds:      []feed.Embed{{Footer: &feed.EmbedFooter{Text: "retrodex"}}},
			Attachments: []feed.Attachment{{URL: "https://cdn.discordapp.com/a.png"}},
		},
	}

	got, pass := filterOwned(msgs, testOwnership.passes())
	assert.Empty(t, got)
	assert.Empty(t, pass)
}

func TestStrict_RequiresConfiguredWebhook(t *testing.T) {
	o := ownership{}
	assert.False(t, o.strict(feed.Message{Content: "[retrodex] x の投稿"}))
	assert.True(t, o.relaxed(feed.Message{Content: "[retrodex] x の投稿"}))
}

func TestIsNoise(t *testing.T) {
	assert.True(t, isNoise(feed.Message{Embeds: []feed.Embed{{Title: "(untitled)"}}}))
	assert.True(t, isNoise(feed.Message{Embeds: []feed.Embed{{}}}))
	assert.False(t, isNoise(feed.Message{Embeds: []feed.Embed{{Title: "Game Boy"}}}))
	assert.False(t, isNoise(feed.Message{
		Content: "[retrodex] mika の投稿\ntitle: Game Boy",
		Embeds:  []feed.Embed{{}},
	}))
	// Nothing to judge without an embed; repair or mapping decides
	assert.False(t, isNoise(feed.Message{Content: "[retrodex] mika の投稿"}))
}

func TestMergeMessages(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	perChannel := [][]feed.Message{
		{
			{ID: "1", Timestamp: base, Content: "one"},
			{ID: "2", Timestamp: base.Add(time.Hour), Content: "two, first copy"},
		},
		{
			{ID: "2", Timestamp: base.Add(time.Hour), Content: "two, second copy"},
			{ID: "3", Timestamp: base.Add(2 * time.Hour), Content: "three"},
		},
	}

	got := mergeMessages(perChannel)
	require.Len(t, got, 3)
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
	assert.Equal(t, "two, second copy", got[1].Content)
	assert.Equal(t, "1", got[2].ID)
}

func TestEmbedMarker_WithoutBaseURL(t *testing.T) {
	o := ownership{webhookID: "77"}

	// Detail links built from a request origin can't be recognised, the footer still is
	assert.False(t, o.minimal(feed.Message{Embeds: []feed.Embed{{URL: "https://dex.example/entries/6"}}}))
	assert.True(t, o.minimal(feed.Message{Embeds: []feed.Embed{{
		URL:    "https://dex.example/entries/6",
		Footer: &feed.EmbedFooter{Text: FooterSentinel},
	}}}))
}
