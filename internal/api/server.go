package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"
	"go.uber.org/fx"
	"golang.org/x/oauth2"

	"github.com/jdholdren/retrodex/internal/dex"
	"github.com/jdholdren/retrodex/internal/entries"
	"github.com/jdholdren/retrodex/internal/feed"
	"github.com/jdholdren/retrodex/internal/serverutil"
)

// Discord's OAuth endpoints.
var discordEndpoint = oauth2.Endpoint{
	AuthURL:   "https://discord.com/oauth2/authorize",
	TokenURL:  "https://discord.com/api/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

type (
	// Uploader hosts a file on the feed's CDN by posting it through a webhook.
	Uploader interface {
		UploadFile(ctx context.Context, hook feed.Webhook, payload feed.WebhookPayload, filename, contentType string, r io.Reader) (feed.Message, error)
	}

	// Server is the board's HTTP surface.
	Server struct {
		*http.Server

		entries   *entries.Service
		repo      dex.Repository
		uploader  Uploader
		publisher entries.Publisher

		discordOauth   oauth2.Config
		discordAPI     string
		secureCookie   *securecookie.SecureCookie
		httpsCookies   bool   // Whether or not HTTPS should be used for cookies
		ssoRedirectURL string // URL to redirect to after successful SSO login

		uploadWebhook feed.Webhook
		uploadDir     string
	}

	ServerConfig struct {
		Port                int
		CookieHashKey       []byte
		CookieBlockKey      []byte
		HttpsCookies        bool
		DiscordClientID     string
		DiscordClientSecret string
		OAuthRedirectURL    string
		SSORedirectURL      string
		DiscordAPIURL       string
		CorsOrigin          string

		// Gate for the whole site, off unless both are set
		BasicUser string
		BasicPass string

		UploadWebhook feed.Webhook // Uploads are stored locally without one
		UploadDir     string

		DebugEndpoints bool
	}

	Params struct {
		fx.In

		Config    ServerConfig
		Entries   *entries.Service
		Repo      dex.Repository
		Uploader  Uploader
		Publisher entries.Publisher
	}
)

func NewServer(lc fx.Lifecycle, p Params) *Server {
	srvr := newServer(p)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srvr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.Error("api server stopped", "err", err)
				}
			}()

			slog.Info("started api server", "port", p.Config.Port)

			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srvr.Shutdown(ctx)
		},
	})

	return srvr
}

func newServer(p Params) *Server {
	var (
		config = p.Config
		r      = serverutil.ErrRouter{Router: mux.NewRouter()}
	)
	if config.DiscordAPIURL == "" {
		config.DiscordAPIURL = feed.DefaultBaseURL
	}
	if config.UploadDir == "" {
		config.UploadDir = defaultUploadDir
	}
	origins := []string{"*"}
	if config.CorsOrigin != "" {
		origins = []string{config.CorsOrigin}
	}

	srvr := &Server{
		entries:        p.Entries,
		repo:           p.Repo,
		uploader:       p.Uploader,
		publisher:      p.Publisher,
		secureCookie:   securecookie.New(config.CookieHashKey, config.CookieBlockKey),
		httpsCookies:   config.HttpsCookies,
		ssoRedirectURL: config.SSORedirectURL,
		discordAPI:     config.DiscordAPIURL,
		discordOauth: oauth2.Config{
			ClientID:     config.DiscordClientID,
			ClientSecret: config.DiscordClientSecret,
			RedirectURL:  config.OAuthRedirectURL,
			Scopes:       []string{"identify"},
			Endpoint:     discordEndpoint,
		},
		uploadWebhook: config.UploadWebhook,
		uploadDir:     config.UploadDir,
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			Handler: handlers.CORS(
				handlers.AllowedOrigins(origins),
				handlers.AllowCredentials(),
				handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
				handlers.AllowedHeaders([]string{"content-type", "authorization"}),
			)(r),
		},
	}

	r.Use(requestContextMiddleware)
	r.Use(serverutil.AccessLogMiddleware) // Log everything
	r.Use(serverutil.BasicAuth(config.BasicUser, config.BasicPass,
		"/api/auth/", "/api/sso-", "/uploads/", "/healthz",
	))

	r.HandleFuncE("/healthz", srvr.getHealth).Methods(http.MethodGet)
	r.HandleFuncE("/api/viewer", srvr.handleViewer).Methods(http.MethodGet)
	r.HandleFuncE("/api/sso-login", srvr.handleSSORedirect).Methods(http.MethodGet)
	r.HandleFuncE("/api/sso-callback", srvr.handleSSOCallback).Methods(http.MethodGet)
	r.HandleFuncE("/api/auth/logout", srvr.getLogout).Methods(http.MethodGet, http.MethodPost)

	if config.DebugEndpoints {
		// For local testing
		r.HandleFuncE("/api/auth/login", srvr.handleDebugLogin).Methods(http.MethodPost)
	}

	// Entries
	r.HandleFuncE("/api/entries", srvr.getEntries).Methods(http.MethodGet)
	r.HandleFuncE("/api/entries", srvr.postEntry).Methods(http.MethodPost)
	r.HandleFuncE("/api/entries/{entryID}", srvr.getEntry).Methods(http.MethodGet)
	r.HandleFuncE("/api/entries/{entryID}", srvr.deleteEntry).Methods(http.MethodDelete)
	r.HandleFuncE("/api/entries/{entryID}/refresh-image", srvr.postRefreshImage).Methods(http.MethodPost)
	r.HandleFuncE("/api/refresh-images", srvr.postRefreshImages).Methods(http.MethodPost)
	r.HandleFuncE("/api/sync", srvr.postSync).Methods(http.MethodPost)
	r.HandleFuncE("/api/cache/clear", srvr.postClearCache).Methods(http.MethodPost)

	// Likes
	r.HandleFuncE("/api/entries/{entryID}/like", srvr.getLikes).Methods(http.MethodGet)
	r.HandleFuncE("/api/entries/{entryID}/like", srvr.patchLike).Methods(http.MethodPatch)

	// Comments
	r.HandleFuncE("/api/entries/{entryID}/comments", srvr.getComments).Methods(http.MethodGet)
	r.HandleFuncE("/api/entries/{entryID}/comments", srvr.postComment).Methods(http.MethodPost)
	r.HandleFuncE("/api/comments/{commentID}", srvr.patchComment).Methods(http.MethodPatch)
	r.HandleFuncE("/api/comments/{commentID}", srvr.deleteComment).Methods(http.MethodDelete)

	// Uploads
	r.HandleFuncE("/api/upload", srvr.postUpload).Methods(http.MethodPost)
	r.HandleFuncE("/uploads/{name}", srvr.getUpload).Methods(http.MethodGet)

	slog.Debug("configured api server", "port", config.Port)

	return srvr
}
