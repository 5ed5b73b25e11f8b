package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jdholdren/retrodex/internal/dex"
)

const (
	DefaultLikesLimit = 20
	MaxLikesLimit     = 100
)

// ToggleLike moves the liker's like on an entry to the state the action asks
// for, then stores the recounted total on the entry. The whole thing runs in a
// single transaction so concurrent likes can't lose updates.
func (r Repo) ToggleLike(ctx context.Context, entryID string, liker dex.Contributor, action dex.LikeAction) (dex.LikeResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return dex.LikeResult{}, fmt.Errorf("error starting transaction: %s", err)
	}
	defer tx.Rollback()

	// Touching the entry row takes its lock up front, serializing likes on it.
	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE entries SET likes = likes WHERE id = ?;`), entryID)
	if err != nil {
		return dex.LikeResult{}, fmt.Errorf("error locking entry: %s", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dex.LikeResult{}, dex.ErrNotFound
	}

	var mine int
	err = tx.GetContext(ctx, &mine, tx.Rebind(`SELECT COUNT(*) FROM likes WHERE entry_id = ? AND user_id = ?;`), entryID, liker.ID)
	if err != nil {
		return dex.LikeResult{}, fmt.Errorf("error checking like: %s", err)
	}

	want, reported := action.Resolve(mine > 0)
	switch {
	case want && mine == 0:
		const q = `INSERT INTO likes (id, entry_id, user_id, user_name, user_avatar, created_at) VALUES (?, ?, ?, ?, ?, ?);`
		if _, err := tx.ExecContext(ctx, tx.Rebind(q),
			uuid.NewString(), entryID, liker.ID, liker.Name, liker.AvatarURL, time.Now().UTC(),
		); err != nil {
			return dex.LikeResult{}, fmt.Errorf("error inserting like: %s", err)
		}
	case !want && mine > 0:
		const q = `DELETE FROM likes WHERE entry_id = ? AND user_id = ?;`
		if _, err := tx.ExecContext(ctx, tx.Rebind(q), entryID, liker.ID); err != nil {
			return dex.LikeResult{}, fmt.Errorf("error deleting like: %s", err)
		}
	}

	var total int
	if err := tx.GetContext(ctx, &total, tx.Rebind(`SELECT COUNT(*) FROM likes WHERE entry_id = ?;`), entryID); err != nil {
		return dex.LikeResult{}, fmt.Errorf("error counting likes: %s", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE entries SET likes = ? WHERE id = ?;`), total, entryID); err != nil {
		return dex.LikeResult{}, fmt.Errorf("error updating like count: %s", err)
	}

	if err := tx.Commit(); err != nil {
		return dex.LikeResult{}, fmt.Errorf("error committing like: %s", err)
	}

	return dex.LikeResult{
		Likes:     total,
		Action:    reported,
		UserLiked: want,
	}, nil
}

// Likes lists who liked an entry, most recent first.
func (r Repo) Likes(ctx context.Context, entryID string, limit int) ([]dex.Like, error) {
	if limit <= 0 {
		limit = DefaultLikesLimit
	}
	if limit > MaxLikesLimit {
		limit = MaxLikesLimit
	}

	var exists int
	if err := r.db.GetContext(ctx, &exists, r.q(`SELECT COUNT(*) FROM entries WHERE id = ?;`), entryID); err != nil {
		return nil, fmt.Errorf("error checking entry: %s", err)
	}
	if exists == 0 {
		return nil, dex.ErrNotFound
	}

	q, args, err := r.sb.Select("id", "entry_id", "user_id", "user_name", "user_avatar", "created_at").
		From("likes").
		Where("entry_id = ?", entryID).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building query: %s", err)
	}

	var rows []struct {
		ID         string    `db:"id"`
		EntryID    string    `db:"entry_id"`
		UserID     string    `db:"user_id"`
		UserName   string    `db:"user_name"`
		UserAvatar string    `db:"user_avatar"`
		CreatedAt  time.Time `db:"created_at"`
	}
	err = r.db.SelectContext(ctx, &rows, q, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return []dex.Like{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching likes: %s", err)
	}

	likes := make([]dex.Like, 0, len(rows))
	for _, row := range rows {
		likes = append(likes, dex.Like{
			ID:         row.ID,
			EntryID:    row.EntryID,
			UserID:     row.UserID,
			UserName:   row.UserName,
			UserAvatar: row.UserAvatar,
			CreatedAt:  row.CreatedAt.UTC(),
		})
	}
	return likes, nil
}
