package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jdholdren/retrodex/internal/database"
	"github.com/jdholdren/retrodex/internal/dex"
	dexerrs "github.com/jdholdren/retrodex/internal/errors"
	"github.com/jdholdren/retrodex/internal/logger"
	"github.com/jdholdren/retrodex/internal/serverutil"
)

const maxCommentLength = 1000

type CommentReq struct {
	Body string `json:"body"`
}

func (req CommentReq) Validate() error {
	body := sanitize(req.Body)
	if body == "" {
		return dexerrs.E(http.StatusBadRequest, "body is required", dexerrs.Detail{Field: "body", Error: "is required"})
	}
	if len([]rune(body)) > maxCommentLength {
		return dexerrs.E(http.StatusBadRequest, "body is too long", dexerrs.Detail{Field: "body", Error: "is too long"})
	}
	return nil
}

type (
	CommentsResp struct {
		Comments   []dex.Comment `json:"comments"`
		NextCursor string        `json:"nextCursor,omitempty"`
	}

	CommentResp struct {
		Comment dex.Comment `json:"comment"`
	}
)

func (s Server) getComments(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["entryID"]
	ctx := logger.Ctx(r.Context(), slog.String("entry_id", id))

	take := parseLimit(r, "take", database.DefaultCommentsLimit, database.MaxCommentsLimit)
	comments, err := s.repo.Comments(ctx, id, dex.CommentsArgs{
		Cursor: r.URL.Query().Get("cursor"),
		Limit:  take,
	})
	if err != nil {
		return err
	}

	resp := CommentsResp{Comments: comments}
	if len(comments) == take {
		resp.NextCursor = comments[len(comments)-1].ID
	}

	return serverutil.WriteJSON(w, http.StatusOK, resp)
}

func (s Server) postComment(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["entryID"]
	ctx := logger.Ctx(r.Context(), slog.String("entry_id", id))

	body, err := decodeValid[CommentReq](r)
	if err != nil {
		return err
	}
	text := sanitize(body.Body)
	if err := checkProfanity("body", text); err != nil {
		return err
	}

	author, ok := session(r, s.secureCookie).contributor()
	if !ok {
		author = dex.Contributor{}.OrDefault()
	}

	comment, err := s.repo.InsertComment(ctx, dex.Comment{
		EntryID: id,
		Body:    text,
		Author:  author,
	})
	if err != nil {
		return domainErr(err)
	}

	return serverutil.WriteJSON(w, http.StatusCreated, CommentResp{Comment: comment})
}

// Comments left by a logged in user can only be changed by that user. Guest
// comments are open to anyone.
func (s Server) ownComment(r *http.Request, commentID string) error {
	comment, err := s.repo.Comment(r.Context(), commentID)
	if err != nil {
		return domainErr(err)
	}
	if comment.Author.ID == dex.GuestContributorID {
		return nil
	}

	caller, err := s.requireContributor(r)
	if err != nil {
		return err
	}
	if caller.ID != comment.Author.ID {
		return domainErr(dex.ErrForbidden)
	}
	return nil
}

func (s Server) patchComment(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["commentID"]

	body, err := decodeValid[CommentReq](r)
	if err != nil {
		return err
	}
	text := sanitize(body.Body)
	if err := checkProfanity("body", text); err != nil {
		return err
	}
	if err := s.ownComment(r, id); err != nil {
		return err
	}

	if _, err := s.repo.UpdateComment(r.Context(), id, text); err != nil {
		return domainErr(err)
	}

	return serverutil.WriteJSON(w, http.StatusOK, okResp{OK: true})
}

func (s Server) deleteComment(w http.ResponseWriter, r *http.Request) error {
	id := mux.Vars(r)["commentID"]

	if err := s.ownComment(r, id); err != nil {
		return err
	}
	if err := s.repo.DeleteComment(r.Context(), id); err != nil {
		return domainErr(err)
	}

	return serverutil.WriteJSON(w, http.StatusOK, okResp{OK: true})
}
