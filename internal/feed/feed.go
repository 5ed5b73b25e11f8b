// Package feed talks to the chat platform that doubles as the board's message feed.
//
// Reads go through the bot API when a bot token is configured, and through the
// webhook's own endpoints otherwise. Posts are always made through a webhook.
package feed

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// DefaultBaseURL is the platform's REST root.
const DefaultBaseURL = "https://discord.com/api/v10"

var (
	// ErrNotFound is returned for a 404 from the platform.
	ErrNotFound = errors.New("feed: not found")
	// ErrNotConfigured means the credential needed for a call is missing.
	ErrNotConfigured = errors.New("feed: not configured")
)

// APIError is any other non-2xx response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("feed: unexpected status %d: %s", e.Status, e.Body)
}

type (
	Message struct {
		ID          string       `json:"id"`
		ChannelID   string       `json:"channel_id"`
		Timestamp   time.Time    `json:"timestamp"`
		Content     string       `json:"content"`
		WebhookID   string       `json:"webhook_id,omitempty"`
		Author      Author       `json:"author"`
		Embeds      []Embed      `json:"embeds"`
		Attachments []Attachment `json:"attachments"`
	}

	Author struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
	}

	Embed struct {
		Title       string       `json:"title,omitempty"`
		Description string       `json:"description,omitempty"`
		URL         string       `json:"url,omitempty"`
		Color       int          `json:"color,omitempty"`
		Image       *EmbedImage  `json:"image,omitempty"`
		Footer      *EmbedFooter `json:"footer,omitempty"`
		Author      *EmbedAuthor `json:"author,omitempty"`
	}

	EmbedImage struct {
		URL string `json:"url"`
	}

	EmbedFooter struct {
		Text string `json:"text"`
	}

	EmbedAuthor struct {
		Name    string `json:"name"`
		IconURL string `json:"icon_url,omitempty"`
	}

	Attachment struct {
		ID       string `json:"id"`
		URL      string `json:"url"`
		Filename string `json:"filename"`
	}

	// WebhookPayload is the body for executing or editing a webhook message.
	WebhookPayload struct {
		Content         string           `json:"content,omitempty"`
		Username        string           `json:"username,omitempty"`
		AvatarURL       string           `json:"avatar_url,omitempty"`
		Embeds          []Embed          `json:"embeds,omitempty"`
		AllowedMentions *AllowedMentions `json:"allowed_mentions,omitempty"`
	}

	AllowedMentions struct {
		Parse []string `json:"parse"`
	}

	// WebhookInfo is the metadata returned for a webhook.
	WebhookInfo struct {
		ID        string `json:"id"`
		ChannelID string `json:"channel_id"`
		GuildID   string `json:"guild_id"`
		Name      string `json:"name"`
	}
)

// FirstEmbed returns the message's first embed, or a zero one.
func (m Message) FirstEmbed() Embed {
	if len(m.Embeds) == 0 {
		return Embed{}
	}
	return m.Embeds[0]
}

// AvatarURL is the CDN url for the sender's avatar, if they have one.
func (a Author) AvatarURL() string {
	if a.ID == "" || a.Avatar == "" {
		return ""
	}
	return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", a.ID, a.Avatar)
}

// Webhook identifies an incoming webhook by id and token.
type Webhook struct {
	ID    string
	Token string
}

// IsZero reports whether the webhook was never configured.
func (w Webhook) IsZero() bool {
	return w.ID == "" || w.Token == ""
}

var webhookPathRe = regexp.MustCompile(`/webhooks/(\d+)/([^/?#]+)`)

// ParseWebhookURL pulls the id and token out of a webhook url. An empty url
// yields the zero Webhook.
func ParseWebhookURL(raw string) (Webhook, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Webhook{}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Webhook{}, fmt.Errorf("error parsing webhook url: %w", err)
	}
	m := webhookPathRe.FindStringSubmatch(u.Path)
	if m == nil {
		return Webhook{}, fmt.Errorf("not a webhook url: %s", u.Redacted())
	}

	return Webhook{ID: m[1], Token: m[2]}, nil
}
