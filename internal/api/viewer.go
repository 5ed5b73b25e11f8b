package api

import (
	"net/http"

	"github.com/jdholdren/retrodex/internal/dex"
	"github.com/jdholdren/retrodex/internal/entries"
	"github.com/jdholdren/retrodex/internal/serverutil"
)

// Viewer is the identity the frontend posts as.
type Viewer struct {
	UserID string `json:"userId"`
	dex.Contributor
}

func (s Server) handleViewer(w http.ResponseWriter, r *http.Request) error {
	sess := session(r, s.secureCookie)
	c, ok := sess.contributor()
	if !ok {
		return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
	}

	return serverutil.WriteJSON(w, http.StatusOK, Viewer{
		UserID:      sess.UserID,
		Contributor: c,
	})
}

type HealthResp struct {
	OK        bool                `json:"ok"`
	Datastore string              `json:"datastore"`
	Feed      entries.Credentials `json:"feed"`
	Uploads   string              `json:"uploads"`
}

func (s Server) getHealth(w http.ResponseWriter, r *http.Request) error {
	resp := HealthResp{
		OK:        true,
		Datastore: "ok",
		Feed:      s.entries.Credentials(),
		Uploads:   "local",
	}
	if !s.uploadWebhook.IsZero() {
		resp.Uploads = "feed"
	}

	status := http.StatusOK
	if err := s.repo.Ping(r.Context()); err != nil {
		resp.OK, resp.Datastore = false, "unreachable"
		status = http.StatusServiceUnavailable
	}

	return serverutil.WriteJSON(w, status, resp)
}
