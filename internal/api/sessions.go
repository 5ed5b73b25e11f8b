package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"github.com/jdholdren/retrodex/internal/dex"
	dexerrs "github.com/jdholdren/retrodex/internal/errors"
	"github.com/jdholdren/retrodex/internal/feed"
)

const sessionCookieName = "retrodex_session"

// Describes a user's sessionState that's persisted to their cookie.
type sessionState struct {
	State string // For SSO

	UserID    string
	DiscordID string
	Name      string
	AvatarURL string
}

// The identity the session posts, comments and likes as.
func (s sessionState) contributor() (dex.Contributor, bool) {
	if s.UserID == "" || s.DiscordID == "" {
		return dex.Contributor{}, false
	}
	return dex.Contributor{
		ID:        s.DiscordID,
		Name:      s.Name,
		AvatarURL: s.AvatarURL,
	}.OrDefault(), true
}

// Fetches the current session tied to the request.
func session(r *http.Request, secureCookie *securecookie.SecureCookie) sessionState {
	cookie, err := r.Cookie(sessionCookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return sessionState{}
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "error fetching cookie", "err", err)
		return sessionState{}
	}

	value := sessionState{}
	if err := secureCookie.Decode(sessionCookieName, cookie.Value, &value); err != nil {
		slog.WarnContext(r.Context(), "error decoding cookie", "err", err)
		return sessionState{}
	}

	return value
}

// Sets the session on the request.
func setSession(w http.ResponseWriter, secureCookie *securecookie.SecureCookie, https bool, sess sessionState) {
	encoded, err := secureCookie.Encode(sessionCookieName, sess)
	if err != nil {
		slog.Error("error encoding cookie", "err", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded,
		Path:     "/",
		Secure:   https,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// The contributor behind the request, or an error for anonymous callers.
func (s Server) requireContributor(r *http.Request) (dex.Contributor, error) {
	c, ok := session(r, s.secureCookie).contributor()
	if !ok {
		return dex.Contributor{}, dexerrs.E(http.StatusUnauthorized, "login required")
	}
	return c, nil
}

// Redirects the user to Discord's consent page.
func (s Server) handleSSORedirect(w http.ResponseWriter, r *http.Request) error {
	// Create a state to store as part of the flow
	state := sessionState{
		State: uuid.NewString(),
	}
	setSession(w, s.secureCookie, s.httpsCookies, state)

	http.Redirect(w, r, s.discordOauth.AuthCodeURL(state.State), http.StatusTemporaryRedirect)
	return nil
}

func (s Server) redirectWithError(w http.ResponseWriter, r *http.Request, reason string) error {
	http.Redirect(w, r, s.afterLoginURL()+"?error="+url.QueryEscape(reason), http.StatusFound)
	return nil
}

func (s Server) afterLoginURL() string {
	if s.ssoRedirectURL == "" {
		return "/"
	}
	return s.ssoRedirectURL
}

// Handles the code coming back from Discord.
func (s Server) handleSSOCallback(w http.ResponseWriter, r *http.Request) error {
	// Check the state and error
	sess := session(r, s.secureCookie)
	q := r.URL.Query()
	if sess.State == "" || q.Get("state") != sess.State {
		return s.redirectWithError(w, r, "invalid_state")
	}
	if q.Get("error") != "" {
		return s.redirectWithError(w, r, q.Get("error"))
	}

	tok, err := s.discordOauth.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		slog.WarnContext(r.Context(), "error exchanging oauth code", "err", err)
		return s.redirectWithError(w, r, "exchange_failed")
	}

	// Get some details about our person
	info, err := s.discordUser(r, s.discordOauth.Client(r.Context(), tok))
	if err != nil {
		slog.WarnContext(r.Context(), "error fetching discord user", "err", err)
		return s.redirectWithError(w, r, "profile_failed")
	}

	name := info.GlobalName
	if name == "" {
		name = info.Username
	}
	usr, err := s.repo.EnsureUser(r.Context(), dex.User{
		DiscordID: info.ID,
		Name:      name,
		AvatarURL: feed.Author{ID: info.ID, Avatar: info.Avatar}.AvatarURL(),
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "error ensuring user", "err", err)
		return s.redirectWithError(w, r, "login_failed")
	}

	setSession(w, s.secureCookie, s.httpsCookies, sessionState{
		UserID:    usr.ID,
		DiscordID: usr.DiscordID,
		Name:      usr.Name,
		AvatarURL: usr.AvatarURL,
	})

	http.Redirect(w, r, s.afterLoginURL(), http.StatusFound)
	return nil
}

type discordUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Avatar     string `json:"avatar"`
}

func (s Server) discordUser(r *http.Request, client *http.Client) (discordUser, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, strings.TrimRight(s.discordAPI, "/")+"/users/@me", nil)
	if err != nil {
		return discordUser{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return discordUser{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return discordUser{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var info discordUser
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return discordUser{}, err
	}
	if info.ID == "" {
		return discordUser{}, errors.New("discord user has no id")
	}

	return info, nil
}

func (s Server) getLogout(w http.ResponseWriter, r *http.Request) error {
	setSession(w, s.secureCookie, s.httpsCookies, sessionState{})

	http.Redirect(w, r, s.afterLoginURL(), http.StatusFound)
	return nil
}

type DebugLogin struct {
	DiscordID string `json:"discordId"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

func (req DebugLogin) Validate() error {
	if req.DiscordID == "" || req.Name == "" {
		return dexerrs.E(http.StatusBadRequest, "discordId and name are required")
	}
	return nil
}

// Logs in as anyone, for local testing.
func (s Server) handleDebugLogin(w http.ResponseWriter, r *http.Request) error {
	body, err := decodeValid[DebugLogin](r)
	if err != nil {
		return err
	}

	usr, err := s.repo.EnsureUser(r.Context(), dex.User{
		DiscordID: body.DiscordID,
		Name:      body.Name,
		AvatarURL: body.AvatarURL,
	})
	if err != nil {
		return err
	}

	// Issue an update to their session so they're logged in
	setSession(w, s.secureCookie, s.httpsCookies, sessionState{
		UserID:    usr.ID,
		DiscordID: usr.DiscordID,
		Name:      usr.Name,
		AvatarURL: usr.AvatarURL,
	})
	w.WriteHeader(http.StatusNoContent)
	return nil
}
