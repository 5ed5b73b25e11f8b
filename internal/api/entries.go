package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/jdholdren/retrodex/internal/dex"
	"github.com/jdholdren/retrodex/internal/entries"
	dexerrs "github.com/jdholdren/retrodex/internal/errors"
	"github.com/jdholdren/retrodex/internal/feed"
	"github.com/jdholdren/retrodex/internal/logger"
	"github.com/jdholdren/retrodex/internal/serverutil"
)

const (
	maxTitleLength   = 256
	maxEpisodeLength = 4000
)

// Maps domain errors onto their statuses. Anything unrecognized is left for
// the generic 500.
func domainErr(err error) error {
	switch {
	case errors.Is(err, dex.ErrNotFound), errors.Is(err, feed.ErrNotFound):
		return dexerrs.E(http.StatusNotFound, "not found")
	case errors.Is(err, dex.ErrForbidden):
		return dexerrs.E(http.StatusForbidden, "not allowed")
	case errors.Is(err, dex.ErrConflict):
		return dexerrs.E(http.StatusConflict, "already exists")
	case errors.Is(err, entries.ErrFeedUnavailable), errors.Is(err, feed.ErrNotConfigured):
		return dexerrs.E(http.StatusServiceUnavailable, "feed is not configured")
	}
	return err
}

// Entries are always rendered with a tag list, even an empty one.
func viewEntry(e dex.Entry) dex.Entry {
	if e.Tags == nil {
		e.Tags = []string{}
	}
	return e
}

func viewEntries(es []dex.Entry) []dex.Entry {
	out := make([]dex.Entry, 0, len(es))
	for _, e := range es {
		out = append(out, viewEntry(e))
	}
	return out
}

// The scheme and host the request came in on.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return scheme + "://" + host
}

type EntriesResp struct {
	Entries     []dex.Entry          `json:"entries"`
	Source      string               `json:"source"`
	Diagnostics *entries.Diagnostics `json:"diagnostics,omitempty"`
	Sync        *entries.SyncResult  `json:"sync,omitempty"`
}

func (s Server) getEntries(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var resp EntriesResp
	if flag(r, "sync") {
		res, err := s.entries.Sync(ctx)
		if err != nil {
			slog.WarnContext(ctx, "sync before list failed", "err", err)
		} else {
			resp.Sync = &res
		}
	}

	res := s.entries.List(ctx, entries.ListOptions{Fast: flag(r, "fast")})
	resp.Entries = viewEntries(res.Entries)
	resp.Source = res.Source
	if flag(r, "debug") {
		resp.Diagnostics = &res.Diagnostics
	}

	return serverutil.WriteJSON(w, http.StatusOK, resp)
}

// Tags arrive either as a list or as a single comma separated string.
type tagList []string

func (t *tagList) UnmarshalJSON(byts []byte) error {
	byts = bytes.TrimSpace(byts)
	if len(byts) > 0 && byts[0] == '"' {
		var csv string
		if err := json.Unmarshal(byts, &csv); err != nil {
			return err
		}
		*t = dex.SplitTags(csv)
		return nil
	}

	var list []string
	if err := json.Unmarshal(byts, &list); err != nil {
		return err
	}
	*t = list
	return nil
}

type CreateEntryReq struct {
	Title    string          `json:"title"`
	Episode  string          `json:"episode"`
	ImageURL string          `json:"imageUrl"`
	Tags     tagList         `json:"tags"`
	Age      json.RawMessage `json:"age"`
}

func (req CreateEntryReq) Validate() error {
	var details []dexerrs.Detail
	if strings.TrimSpace(req.Episode) == "" {
		details = append(details, dexerrs.Detail{Field: "episode", Error: "is required"})
	}
	if len([]rune(req.Title)) > maxTitleLength {
		details = append(details, dexerrs.Detail{Field: "title", Error: "is too long"})
	}
	if len([]rune(req.Episode)) > maxEpisodeLength {
		details = append(details, dexerrs.Detail{Field: "episode", Error: "is too long"})
	}
	if len(details) > 0 {
		return dexerrs.E(http.StatusBadRequest, "invalid entry", details)
	}
	return nil
}

type EntryResp struct {
	Entry dex.Entry `json:"entry"`
}

func (s Server) postEntry(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	body, err := decodeValid[CreateEntryReq](r)
	if err != nil {
		return err
	}

	in := entries.NewEntry{
		Title:    sanitize(body.Title),
		Episode:  sanitize(body.Episode),
		ImageURL: strings.TrimSpace(body.ImageURL),
		Age:      dex.ParseAge(body.Age),
	}
	for _, tag := range body.Tags {
		in.Tags = append(in.Tags, sanitize(tag))
	}
	if err := checkProfanity("entry", append([]string{in.Title, in.Episode}, in.Tags...)...); err != nil {
		return err
	}

	contributor, ok := session(r, s.secureCookie).contributor()
	if !ok {
		contributor = dex.Contributor{}.OrDefault()
	}
	in.Contributor = contributor

	entry, err := s.entries.Create(ctx, in, requestOrigin(r))
	if err != nil {
		return domainErr(err)
	}

	return serverutil.WriteJSON(w, http.StatusCreated, EntryResp{Entry: viewEntry(entry)})
}

func (s Server) getEntry(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["entryID"]
	ctx := logger.Ctx(r.Context(), slog.String("entry_id", id))

	entry, err := s.entries.Get(ctx, id)
	if err != nil {
		return domainErr(err)
	}

	return serverutil.WriteJSON(w, http.StatusOK, EntryResp{Entry: viewEntry(entry)})
}

type DeleteEntryResp struct {
	OK      bool   `json:"ok"`
	Partial string `json:"partial,omitempty"`
}

func (s Server) deleteEntry(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["entryID"]
	ctx := logger.Ctx(r.Context(), slog.String("entry_id", id))

	contributor, err := s.requireContributor(r)
	if err != nil {
		return err
	}

	res, err := s.entries.Delete(ctx, id, contributor.ID)
	if err != nil {
		return domainErr(err)
	}
	s.removeLocalUpload(ctx, res.Entry.ImageURL)

	return serverutil.WriteJSON(w, http.StatusOK, DeleteEntryResp{OK: true, Partial: res.Partial})
}

type RefreshImageResp struct {
	OK       bool   `json:"ok"`
	Updated  bool   `json:"updated"`
	ImageURL string `json:"imageUrl"`
}

func (s Server) postRefreshImage(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["entryID"]
	ctx := logger.Ctx(r.Context(), slog.String("entry_id", id))

	url, updated, err := s.entries.RefreshImage(ctx, id)
	if err != nil {
		return domainErr(err)
	}

	return serverutil.WriteJSON(w, http.StatusOK, RefreshImageResp{OK: true, Updated: updated, ImageURL: url})
}

func (s Server) postRefreshImages(w http.ResponseWriter, r *http.Request) error {
	const budget = 5 * time.Minute
	_ = http.NewResponseController(w).SetWriteDeadline(time.Now().Add(budget))
	ctx, cancel := context.WithTimeout(r.Context(), budget)
	defer cancel()

	stats, err := s.entries.RefreshAllImages(ctx)
	if err != nil {
		return domainErr(err)
	}

	return serverutil.WriteJSON(w, http.StatusOK, stats)
}

func (s Server) postSync(w http.ResponseWriter, r *http.Request) error {
	res, err := s.entries.Sync(r.Context())
	if err != nil {
		return domainErr(err)
	}

	return serverutil.WriteJSON(w, http.StatusOK, res)
}

func (s Server) postClearCache(w http.ResponseWriter, r *http.Request) error {
	s.entries.ClearCache()

	return serverutil.WriteJSON(w, http.StatusOK, okResp{OK: true})
}

type okResp struct {
	OK bool `json:"ok"`
}

// Deletes the file behind a locally served upload url. Other urls are ignored.
func (s Server) removeLocalUpload(ctx context.Context, imageURL string) {
	if !strings.HasPrefix(imageURL, uploadsPrefix) {
		return
	}

	path := filepath.Join(s.uploadDir, filepath.Base(imageURL))
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.WarnContext(ctx, "error removing uploaded file", "path", path, "err", err)
	}
}
