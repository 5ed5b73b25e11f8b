package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jdholdren/retrodex/internal/database"
	"github.com/jdholdren/retrodex/internal/dex"
	dexerrs "github.com/jdholdren/retrodex/internal/errors"
	"github.com/jdholdren/retrodex/internal/events"
	"github.com/jdholdren/retrodex/internal/logger"
	"github.com/jdholdren/retrodex/internal/serverutil"
)

type LikeReq struct {
	Action string `json:"action"`
}

func (req LikeReq) Validate() error {
	if _, err := dex.ParseLikeAction(req.Action); err != nil {
		return dexerrs.E(http.StatusBadRequest, err)
	}
	return nil
}

func (s Server) patchLike(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["entryID"]
	ctx := logger.Ctx(r.Context(), slog.String("entry_id", id))

	// Nothing is read before the caller is known
	liker, err := s.requireContributor(r)
	if err != nil {
		return err
	}

	var body LikeReq
	if r.ContentLength != 0 {
		if body, err = decodeValid[LikeReq](r); err != nil {
			return err
		}
	}
	action, _ := dex.ParseLikeAction(body.Action)

	res, err := s.repo.ToggleLike(ctx, id, liker, action)
	if err != nil {
		return domainErr(err)
	}

	if s.publisher != nil && res.Action != dex.ActionNoop {
		likes := res.Likes
		if err := s.publisher.Publish(ctx, events.Event{
			Action:    events.ActionLiked,
			EntryID:   id,
			UserID:    liker.ID,
			Likes:     &likes,
			Timestamp: time.Now().UTC(),
		}); err != nil {
			slog.WarnContext(ctx, "error publishing like event", "err", err)
		}
	}

	return serverutil.WriteJSON(w, http.StatusOK, res)
}

type (
	Liker struct {
		UserID     string    `json:"userId"`
		UserName   string    `json:"userName"`
		UserAvatar string    `json:"userAvatar"`
		CreatedAt  time.Time `json:"createdAt"`
	}

	LikersResp struct {
		Users []Liker `json:"users"`
	}
)

func (s Server) getLikes(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["entryID"]
	ctx := logger.Ctx(r.Context(), slog.String("entry_id", id))

	likes, err := s.repo.Likes(ctx, id, parseLimit(r, "limit", database.DefaultLikesLimit, database.MaxLikesLimit))
	if err != nil {
		return domainErr(err)
	}

	resp := LikersResp{Users: make([]Liker, 0, len(likes))}
	for _, l := range likes {
		avatar := l.UserAvatar
		if avatar == "" {
			avatar = dex.DefaultAvatarURL
		}
		resp.Users = append(resp.Users, Liker{
			UserID:     l.UserID,
			UserName:   l.UserName,
			UserAvatar: avatar,
			CreatedAt:  l.CreatedAt,
		})
	}

	return serverutil.WriteJSON(w, http.StatusOK, resp)
}
