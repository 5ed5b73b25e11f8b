package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/jdholdren/retrodex/internal/entries"
	dexerrs "github.com/jdholdren/retrodex/internal/errors"
	"github.com/jdholdren/retrodex/internal/feed"
	"github.com/jdholdren/retrodex/internal/serverutil"
)

const (
	maxUploadBytes   = 5 << 20
	uploadsPrefix    = "/uploads/"
	defaultUploadDir = "/tmp/uploads"
	uploadUsername   = "retrodex-bot"
)

var allowedImageTypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
	"image/avif",
}

type UploadResp struct {
	URL string `json:"url"`
}

func (s Server) postUpload(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	// Room for the multipart framing on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+(1<<20))
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return dexerrs.E(http.StatusRequestEntityTooLarge, "file is too large")
		}
		return dexerrs.E(http.StatusBadRequest, "file is required")
	}
	defer file.Close()

	byts, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return dexerrs.E(http.StatusBadRequest, fmt.Errorf("error reading file: %w", err))
	}
	if len(byts) > maxUploadBytes {
		return dexerrs.E(http.StatusRequestEntityTooLarge, "file is too large")
	}

	mtype := mimetype.Detect(byts)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return dexerrs.E(http.StatusBadRequest, "only png, jpeg, gif, webp and avif images are accepted")
	}
	name := fmt.Sprintf("%d_%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], mtype.Extension())

	if s.uploadWebhook.IsZero() || s.uploader == nil {
		url, err := s.storeLocally(name, byts)
		if err != nil {
			return err
		}
		return serverutil.WriteJSON(w, http.StatusCreated, UploadResp{URL: url})
	}

	msg, err := s.uploader.UploadFile(ctx, s.uploadWebhook, feed.WebhookPayload{
		Content:         entries.UploadMarker,
		Username:        uploadUsername,
		AllowedMentions: &feed.AllowedMentions{Parse: []string{}},
	}, name, mtype.String(), bytes.NewReader(byts))
	if err != nil {
		slog.ErrorContext(ctx, "error uploading to feed", "filename", header.Filename, "err", err)
		return dexerrs.E(http.StatusBadGateway, "upload failed")
	}
	if len(msg.Attachments) == 0 || msg.Attachments[0].URL == "" {
		return dexerrs.E(http.StatusBadGateway, "upload returned no url")
	}

	return serverutil.WriteJSON(w, http.StatusCreated, UploadResp{URL: msg.Attachments[0].URL})
}

func (s Server) storeLocally(name string, byts []byte) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("error creating upload dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.uploadDir, name), byts, 0o644); err != nil {
		return "", fmt.Errorf("error writing upload: %w", err)
	}
	return uploadsPrefix + name, nil
}

// Serves a locally stored upload. Only the base name of the path is honored.
func (s Server) getUpload(w http.ResponseWriter, r *http.Request) error {
	name := filepath.Base(mux.Vars(r)["name"])
	if name == "." || name == "/" || name == ".." {
		return dexerrs.E(http.StatusNotFound, "not found")
	}

	path := filepath.Join(s.uploadDir, name)
	if _, err := os.Stat(path); err != nil {
		return dexerrs.E(http.StatusNotFound, "not found")
	}

	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeFile(w, r, path)
	return nil
}
