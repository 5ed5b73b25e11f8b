package entries

import (
	"strings"

	"github.com/jdholdren/retrodex/internal/dex"
	"github.com/jdholdren/retrodex/internal/feed"
)

// ownership decides which messages in a channel were posted by this board.
type ownership struct {
	webhookID string
	baseURL   string
}

// A single predicate in the cascade.
type ownershipPass struct {
	name  string
	owned func(feed.Message) bool
}

// Ordered strictest first. The first pass with any match wins.
func (o ownership) passes() []ownershipPass {
	return []ownershipPass{
		{name: "strict", owned: o.strict},
		{name: "relaxed", owned: o.relaxed},
		{name: "minimal", owned: o.minimal},
	}
}

func (o ownership) strict(m feed.Message) bool {
	return o.webhookID != "" && m.WebhookID == o.webhookID && o.relaxed(m)
}

func (o ownership) relaxed(m feed.Message) bool {
	return hasContentMarker(m) || o.hasEmbedMarker(m)
}

func (o ownership) minimal(m feed.Message) bool {
	return o.hasEmbedMarker(m)
}

func (o ownership) hasEmbedMarker(m feed.Message) bool {
	for _, e := range m.Embeds {
		if e.Footer != nil && strings.TrimSpace(e.Footer.Text) == FooterSentinel {
			return true
		}
		if o.baseURL != "" && strings.HasPrefix(e.URL, o.baseURL+"/entries/") {
			return true
		}
	}
	return false
}

func hasContentMarker(m feed.Message) bool {
	return strings.HasPrefix(strings.TrimSpace(m.Content), ContentMarker)
}

func isUpload(m feed.Message) bool {
	return strings.HasPrefix(strings.TrimSpace(m.Content), UploadMarker)
}

// filterOwned runs the cascade and reports which pass matched. Upload
// placeholders never match.
func filterOwned(msgs []feed.Message, passes []ownershipPass) ([]feed.Message, string) {
	for _, p := range passes {
		var kept []feed.Message
		for _, m := range msgs {
			if isUpload(m) || !p.owned(m) {
				continue
			}
			kept = append(kept, m)
		}
		if len(kept) > 0 {
			return kept, p.name
		}
	}

	return nil, ""
}

// A message whose detail is missing from the list response.
func isThin(m feed.Message) bool {
	return strings.TrimSpace(m.Content) == "" || len(m.Embeds) == 0
}

// An embed with nothing in it and no plain text copy to fall back on.
func isNoise(m feed.Message) bool {
	if len(m.Embeds) == 0 {
		return false
	}
	e := m.FirstEmbed()
	title := strings.TrimSpace(e.Title)
	if (title != "" && title != dex.DefaultTitle) || strings.TrimSpace(e.Description) != "" {
		return false
	}

	f := parseContent(m.Content)
	return f.Title == "" && f.Episode == ""
}
