package entries

import (
	"strings"

	"github.com/jdholdren/retrodex/internal/dex"
	"github.com/jdholdren/retrodex/internal/feed"
)

// toEntry maps a feed message onto an entry, falling back field by field from
// the embed to the plain text copy to the message itself.
func toEntry(m feed.Message) dex.Entry {
	var (
		embed  = m.FirstEmbed()
		fields = parseContent(m.Content)
	)

	var embedImage, embedAuthor, embedIcon string
	if embed.Image != nil {
		embedImage = embed.Image.URL
	}
	if embed.Author != nil {
		embedAuthor = embed.Author.Name
		embedIcon = embed.Author.IconURL
	}
	var attachment string
	if len(m.Attachments) > 0 {
		attachment = m.Attachments[0].URL
	}

	// Webhook posts carry the webhook as the author, which isn't a person.
	var senderID string
	if m.WebhookID == "" {
		senderID = m.Author.ID
	}

	tags := fields.Tags
	if tags == nil {
		tags = []string{}
	}

	return dex.Entry{
		ID:       m.ID,
		Title:    firstNonEmpty(embed.Title, fields.Title, dex.DefaultTitle),
		Episode:  firstNonEmpty(embed.Description, fields.Episode),
		ImageURL: firstNonEmpty(embedImage, fields.Image, attachment),
		Tags:     tags,
		Age:      fields.Age,
		Contributor: dex.Contributor{
			ID:        firstNonEmpty(fields.AuthorID, senderID, dex.GuestContributorID),
			Name:      firstNonEmpty(embedAuthor, fields.Author, postedName(m.Content), m.Author.Username, dex.UnknownContributor),
			AvatarURL: firstNonEmpty(embedIcon, m.Author.AvatarURL(), dex.DefaultAvatarURL),
		},
		CreatedAt: m.Timestamp.UTC(),
	}
}

// overlayEntry lays the datastore's row over the feed's view of the same entry.
// The row wins wherever it has a value.
func overlayEntry(fromFeed, row dex.Entry) dex.Entry {
	out := fromFeed
	if row.Title != "" {
		out.Title = row.Title
	}
	if row.Episode != "" {
		out.Episode = row.Episode
	}
	if row.ImageURL != "" {
		out.ImageURL = row.ImageURL
	}
	if row.Tags != nil {
		out.Tags = row.Tags
	}
	if row.Age != nil {
		out.Age = row.Age
	}
	if row.Contributor.Valid() {
		out.Contributor = row.Contributor
	}
	out.Likes = row.Likes

	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
