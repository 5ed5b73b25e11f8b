// Retrodex-API serves the retro memories board: it publishes entries to the
// Discord channel and keeps the likes, comments and edits locally.
package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"github.com/sethvargo/go-retry"
	"go.uber.org/fx"
	_ "golang.org/x/crypto/x509roots/fallback"

	"github.com/jdholdren/retrodex/internal/api"
	"github.com/jdholdren/retrodex/internal/database"
	"github.com/jdholdren/retrodex/internal/dex"
	"github.com/jdholdren/retrodex/internal/entries"
	"github.com/jdholdren/retrodex/internal/events"
	"github.com/jdholdren/retrodex/internal/feed"
	"github.com/jdholdren/retrodex/internal/logger"
	"github.com/jdholdren/retrodex/internal/migrations"
)

type config struct {
	Database       string `env:"DATABASE, required"`
	DatabaseDriver string `env:"DATABASE_DRIVER, default=sqlite"`

	Port           int    `env:"PORT, default=4444"`
	LoggerFormat   string `env:"LOGGER_FORMAT, default=text"` // text or json
	HTTPSCookies   bool   `env:"HTTPS_COOKIES, default=false"`
	CookieHashKey  string `env:"COOKIE_HASH_KEY"`
	CookieBlockKey string `env:"COOKIE_BLOCK_KEY"`
	CorsOrigin     string `env:"CORS_ORIGIN"`
	DebugEndpoints bool   `env:"DEBUG_ENDPOINTS, default=false"`

	DiscordClientID     string `env:"DISCORD_CLIENT_ID"`
	DiscordClientSecret string `env:"DISCORD_CLIENT_SECRET"`
	OAuthRedirectURL    string `env:"OAUTH_REDIRECT_URL"`
	SSORedirectURL      string `env:"SSO_REDIRECT_URL"`

	DiscordBotToken           string `env:"DISCORD_BOT_TOKEN"`
	DiscordChannelID          string `env:"DISCORD_CHANNEL_ID"`
	DiscordWebhookURL         string `env:"DISCORD_WEBHOOK_URL"`
	DiscordAnnounceWebhookURL string `env:"DISCORD_ANNOUNCE_WEBHOOK_URL"`
	DiscordUploadWebhookURL   string `env:"DISCORD_UPLOAD_WEBHOOK_URL"`
	DiscordAPIURL             string `env:"DISCORD_API_URL, default=https://discord.com/api/v10"`

	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
	BasicUser     string `env:"BASIC_USER"`
	BasicPass     string `env:"BASIC_PASS"`

	FeedPageSize    int           `env:"FEED_PAGE_SIZE, default=50"`
	FeedTimeout     time.Duration `env:"FEED_TIMEOUT, default=2s"`
	EntriesCacheTTL time.Duration `env:"ENTRIES_CACHE_TTL, default=60s"`
	Backfill        bool          `env:"BACKFILL, default=true"`
	UploadDir       string        `env:"UPLOAD_DIR, default=/tmp/uploads"`

	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE, default=retrodex"`
	AMQPQueue    string `env:"AMQP_QUEUE, default=retrodex.entries"`
}

type publisher interface {
	entries.Publisher
	io.Closer
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// A .env file is optional
	_ = godotenv.Load()

	// Parse the config
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}

	slog.SetDefault(logger.New(os.Stderr, cfg.LoggerFormat, cfg.DebugEndpoints))

	postHook, err := feed.ParseWebhookURL(cfg.DiscordWebhookURL)
	if err != nil {
		log.Fatalf("error parsing DISCORD_WEBHOOK_URL: %s", err)
	}
	announceHook, err := feed.ParseWebhookURL(cfg.DiscordAnnounceWebhookURL)
	if err != nil {
		log.Fatalf("error parsing DISCORD_ANNOUNCE_WEBHOOK_URL: %s", err)
	}
	uploadHook, err := feed.ParseWebhookURL(cfg.DiscordUploadWebhookURL)
	if err != nil {
		log.Fatalf("error parsing DISCORD_UPLOAD_WEBHOOK_URL: %s", err)
	}

	// Connect and migrate, always
	dbx, err := database.Open(ctx, cfg.DatabaseDriver, cfg.Database)
	if err != nil {
		log.Fatalf("error opening database: %s", err)
	}
	defer dbx.Close()
	if err := migrations.Run(dbx); err != nil {
		log.Fatalf("error running migrations: %s", err)
	}
	repo := database.New(dbx)

	pub, err := connectPublisher(ctx, cfg)
	if err != nil {
		log.Fatalf("error connecting to broker: %s", err)
	}

	client := feed.NewClient(feed.ClientConfig{
		BaseURL:  cfg.DiscordAPIURL,
		BotToken: cfg.DiscordBotToken,
	})
	svc := entries.NewService(client, repo, pub, entries.Config{
		ChannelID:       cfg.DiscordChannelID,
		PostWebhook:     postHook,
		AnnounceWebhook: announceHook,
		BaseURL:         cfg.PublicBaseURL,
		PageSize:        cfg.FeedPageSize,
		FetchTimeout:    cfg.FeedTimeout,
		CacheTTL:        cfg.EntriesCacheTTL,
		Backfill:        cfg.Backfill,
	})

	slog.Info("starting",
		"port", cfg.Port,
		"driver", cfg.DatabaseDriver,
		"bot", client.HasBot(),
		"post_webhook", !postHook.IsZero(),
		"events", cfg.AMQPURL != "",
	)

	// Start the application
	fx.New(
		fx.NopLogger,
		fx.Supply(
			api.ServerConfig{
				Port:                cfg.Port,
				CookieHashKey:       []byte(cfg.CookieHashKey),
				CookieBlockKey:      []byte(cfg.CookieBlockKey),
				HttpsCookies:        cfg.HTTPSCookies,
				DiscordClientID:     cfg.DiscordClientID,
				DiscordClientSecret: cfg.DiscordClientSecret,
				OAuthRedirectURL:    cfg.OAuthRedirectURL,
				SSORedirectURL:      cfg.SSORedirectURL,
				DiscordAPIURL:       cfg.DiscordAPIURL,
				CorsOrigin:          cfg.CorsOrigin,
				BasicUser:           cfg.BasicUser,
				BasicPass:           cfg.BasicPass,
				UploadWebhook:       uploadHook,
				UploadDir:           cfg.UploadDir,
				DebugEndpoints:      cfg.DebugEndpoints,
			},
			svc,
			fx.Annotate(repo, fx.As(new(dex.Repository))),
			fx.Annotate(client, fx.As(new(api.Uploader))),
			fx.Annotate(pub, fx.As(new(entries.Publisher))),
		),
		api.Module,
		fx.Invoke(func(lc fx.Lifecycle, _ *api.Server) {
			lc.Append(fx.StopHook(pub.Close))
		}),
	).Run()
}

// The broker is optional. When it's configured it has to be reachable, so
// connecting is retried for a while before giving up.
func connectPublisher(ctx context.Context, cfg config) (publisher, error) {
	if cfg.AMQPURL == "" {
		return events.Nop{}, nil
	}

	var pub *events.RabbitMQ
	b := retry.WithMaxDuration(time.Minute, retry.NewFibonacci(time.Second))
	if err := retry.Do(ctx, b, func(ctx context.Context) error {
		p, err := events.NewRabbitMQ(events.Config{
			URL:       cfg.AMQPURL,
			Exchange:  cfg.AMQPExchange,
			QueueName: cfg.AMQPQueue,
		})
		if err != nil {
			slog.Warn("broker not ready", "err", err)
			return retry.RetryableError(err)
		}
		pub = p

		return nil
	}); err != nil {
		return nil, err
	}

	return pub, nil
}
