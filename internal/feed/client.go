package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	// MaxPageSize is the most messages the platform returns per list call.
	MaxPageSize = 100

	uploadTimeout  = 15 * time.Second
	maxRateLimWait = 5 * time.Second
)

type (
	// Client is a thin REST client for the platform.
	Client struct {
		baseURL    string
		botToken   string
		httpClient *http.Client
	}

	ClientConfig struct {
		BaseURL    string // Defaults to DefaultBaseURL
		BotToken   string
		HTTPClient *http.Client
	}
)

func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		botToken:   cfg.BotToken,
		httpClient: cfg.HTTPClient,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: 20 * time.Second,
		}
	}

	return c
}

// HasBot reports whether bot-authenticated reads are possible.
func (c *Client) HasBot() bool {
	return c.botToken != ""
}

// Messages lists the most recent messages in a channel, newest first.
func (c *Client) Messages(ctx context.Context, channelID string, limit int) ([]Message, error) {
	if !c.HasBot() {
		return nil, ErrNotConfigured
	}
	limit = max(1, min(limit, MaxPageSize))

	var msgs []Message
	path := fmt.Sprintf("/channels/%s/messages?limit=%d", url.PathEscape(channelID), limit)
	if err := c.doJSON(ctx, http.MethodGet, path, true, nil, &msgs); err != nil {
		return nil, fmt.Errorf("error listing messages in %s: %w", channelID, err)
	}

	return msgs, nil
}

// Message fetches a single message through the bot API.
func (c *Client) Message(ctx context.Context, channelID, messageID string) (Message, error) {
	if !c.HasBot() {
		return Message{}, ErrNotConfigured
	}

	var msg Message
	path := fmt.Sprintf("/channels/%s/messages/%s", url.PathEscape(channelID), url.PathEscape(messageID))
	if err := c.doJSON(ctx, http.MethodGet, path, true, nil, &msg); err != nil {
		return Message{}, fmt.Errorf("error getting message %s: %w", messageID, err)
	}

	return msg, nil
}

// WebhookMessage fetches a message that the webhook itself posted.
func (c *Client) WebhookMessage(ctx context.Context, hook Webhook, messageID string) (Message, error) {
	if hook.IsZero() {
		return Message{}, ErrNotConfigured
	}

	var msg Message
	path := webhookPath(hook) + "/messages/" + url.PathEscape(messageID)
	if err := c.doJSON(ctx, http.MethodGet, path, false, nil, &msg); err != nil {
		return Message{}, fmt.Errorf("error getting webhook message %s: %w", messageID, err)
	}

	return msg, nil
}

// Webhook returns the webhook's metadata, most usefully the channel it posts into.
func (c *Client) Webhook(ctx context.Context, hook Webhook) (WebhookInfo, error) {
	if hook.IsZero() {
		return WebhookInfo{}, ErrNotConfigured
	}

	var info WebhookInfo
	if err := c.doJSON(ctx, http.MethodGet, webhookPath(hook), false, nil, &info); err != nil {
		return WebhookInfo{}, fmt.Errorf("error getting webhook: %w", err)
	}

	return info, nil
}

// ExecuteWebhook posts a message and waits for the created message to come back.
//
// Rate limited posts are retried a few times.
func (c *Client) ExecuteWebhook(ctx context.Context, hook Webhook, payload WebhookPayload) (Message, error) {
	if hook.IsZero() {
		return Message{}, ErrNotConfigured
	}

	var msg Message
	b := retry.WithMaxRetries(3, retry.NewExponential(250*time.Millisecond))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		err := c.doJSON(ctx, http.MethodPost, webhookPath(hook)+"?wait=true", false, payload, &msg)
		var rl *RateLimitError
		if errors.As(err, &rl) {
			slog.WarnContext(ctx, "rate limited by feed", "retry_after", rl.RetryAfter)
			if err := sleepCtx(ctx, min(rl.RetryAfter, maxRateLimWait)); err != nil {
				return err
			}
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return Message{}, fmt.Errorf("error executing webhook: %w", err)
	}

	return msg, nil
}

// EditWebhookMessage replaces the content and embeds of a webhook's message.
func (c *Client) EditWebhookMessage(ctx context.Context, hook Webhook, messageID string, payload WebhookPayload) (Message, error) {
	if hook.IsZero() {
		return Message{}, ErrNotConfigured
	}

	var msg Message
	path := webhookPath(hook) + "/messages/" + url.PathEscape(messageID)
	if err := c.doJSON(ctx, http.MethodPatch, path, false, payload, &msg); err != nil {
		return Message{}, fmt.Errorf("error editing webhook message %s: %w", messageID, err)
	}

	return msg, nil
}

// DeleteMessage deletes through the bot API. A message that's already gone is not an error.
func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if !c.HasBot() {
		return ErrNotConfigured
	}

	path := fmt.Sprintf("/channels/%s/messages/%s", url.PathEscape(channelID), url.PathEscape(messageID))
	err := c.doJSON(ctx, http.MethodDelete, path, true, nil, nil)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("error deleting message %s: %w", messageID, err)
	}

	return nil
}

// DeleteWebhookMessage deletes a message the webhook posted. A message that's
// already gone is not an error.
func (c *Client) DeleteWebhookMessage(ctx context.Context, hook Webhook, messageID string) error {
	if hook.IsZero() {
		return ErrNotConfigured
	}

	path := webhookPath(hook) + "/messages/" + url.PathEscape(messageID)
	err := c.doJSON(ctx, http.MethodDelete, path, false, nil, nil)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("error deleting webhook message %s: %w", messageID, err)
	}

	return nil
}

// UploadFile posts a file as an attachment through the webhook and returns the
// created message, whose first attachment carries the hosted url.
func (c *Client) UploadFile(ctx context.Context, hook Webhook, payload WebhookPayload, filename, contentType string, r io.Reader) (Message, error) {
	if hook.IsZero() {
		return Message{}, ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	var (
		body = &bytes.Buffer{}
		mw   = multipart.NewWriter(body)
	)
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("error encoding payload: %w", err)
	}
	if err := mw.WriteField("payload_json", string(payloadJSON)); err != nil {
		return Message{}, fmt.Errorf("error writing payload: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files[0]"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return Message{}, fmt.Errorf("error creating file part: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return Message{}, fmt.Errorf("error copying file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Message{}, fmt.Errorf("error closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+webhookPath(hook)+"?wait=true", body)
	if err != nil {
		return Message{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var msg Message
	if err := c.do(req, &msg); err != nil {
		return Message{}, fmt.Errorf("error uploading file: %w", err)
	}

	return msg, nil
}

// RateLimitError is a 429 with the platform's suggested wait.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("feed: rate limited, retry after %s", e.RetryAfter)
}

func (c *Client) doJSON(ctx context.Context, method, path string, bot bool, in, out any) error {
	var body io.Reader
	if in != nil {
		byts, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("error encoding request: %w", err)
		}
		body = bytes.NewReader(byts)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bot {
		req.Header.Set("Authorization", "Bot "+c.botToken)
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: retryAfter(resp)}
	case resp.StatusCode >= 300:
		byts, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{Status: resp.StatusCode, Body: string(byts)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}

// Reads the wait from the Retry-After header, in seconds.
func retryAfter(resp *http.Response) time.Duration {
	secs, err := strconv.ParseFloat(resp.Header.Get("Retry-After"), 64)
	if err != nil || secs < 0 {
		return time.Second
	}
	return time.Duration(secs * float64(time.Second))
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

func webhookPath(hook Webhook) string {
	return fmt.Sprintf("/webhooks/%s/%s", url.PathEscape(hook.ID), url.PathEscape(hook.Token))
}
