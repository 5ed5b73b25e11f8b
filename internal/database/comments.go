package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jdholdren/retrodex/internal/dex"
)

const (
	DefaultCommentsLimit = 20
	MaxCommentsLimit     = 50
)

type commentRow struct {
	ID        string    `db:"id"`
	EntryID   string    `db:"entry_id"`
	Body      string    `db:"body"`
	Author    string    `db:"author"`
	CreatedAt time.Time `db:"created_at"`
}

func (row commentRow) comment() dex.Comment {
	c := dex.Comment{
		ID:        row.ID,
		EntryID:   row.EntryID,
		Body:      row.Body,
		CreatedAt: row.CreatedAt.UTC(),
	}
	author, _ := dex.ParseContributor(row.Author)
	c.Author = author.OrDefault()

	return c
}

func (r Repo) Comment(ctx context.Context, id string) (dex.Comment, error) {
	q := r.q(`SELECT id, entry_id, body, author, created_at FROM comments WHERE id = ?;`)

	var row commentRow
	err := r.db.GetContext(ctx, &row, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return dex.Comment{}, dex.ErrNotFound
	}
	if err != nil {
		return dex.Comment{}, fmt.Errorf("error fetching comment: %s", err)
	}

	return row.comment(), nil
}

// Comments pages through an entry's comments, newest first. The cursor is the
// id of the last comment of the previous page; a cursor that no longer exists
// yields an empty page.
func (r Repo) Comments(ctx context.Context, entryID string, args dex.CommentsArgs) ([]dex.Comment, error) {
	limit := args.Limit
	if limit <= 0 {
		limit = DefaultCommentsLimit
	}
	if limit > MaxCommentsLimit {
		limit = MaxCommentsLimit
	}

	b := r.sb.Select("id", "entry_id", "body", "author", "created_at").
		From("comments").
		Where("entry_id = ?", entryID).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit))
	if args.Cursor != "" {
		b = b.Where(`(created_at < (SELECT c.created_at FROM comments c WHERE c.id = ?)
		OR (created_at = (SELECT c.created_at FROM comments c WHERE c.id = ?) AND id < ?))`,
			args.Cursor, args.Cursor, args.Cursor)
	}

	q, qargs, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building query: %s", err)
	}

	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, q, qargs...); err != nil {
		return nil, fmt.Errorf("error fetching comments: %s", err)
	}

	comments := make([]dex.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.comment())
	}
	return comments, nil
}

// InsertComment stores a comment on an existing entry.
func (r Repo) InsertComment(ctx context.Context, c dex.Comment) (dex.Comment, error) {
	const q = `INSERT INTO comments (id, entry_id, body, author, created_at)
	VALUES (:id, :entry_id, :body, :author, :created_at);`

	if _, err := r.Entry(ctx, c.EntryID); err != nil {
		return dex.Comment{}, err
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	author, _ := json.Marshal(c.Author.OrDefault())
	row := commentRow{
		ID:        c.ID,
		EntryID:   c.EntryID,
		Body:      c.Body,
		Author:    string(author),
		CreatedAt: c.CreatedAt.UTC(),
	}
	if _, err := r.db.NamedExecContext(ctx, q, row); err != nil {
		if isUniqueViolation(err) {
			return dex.Comment{}, fmt.Errorf("comment %s already exists: %w", c.ID, dex.ErrConflict)
		}
		return dex.Comment{}, fmt.Errorf("error inserting comment: %s", err)
	}

	return row.comment(), nil
}

func (r Repo) UpdateComment(ctx context.Context, id, body string) (dex.Comment, error) {
	res, err := r.db.ExecContext(ctx, r.q(`UPDATE comments SET body = ? WHERE id = ?;`), body, id)
	if err != nil {
		return dex.Comment{}, fmt.Errorf("error updating comment: %s", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dex.Comment{}, dex.ErrNotFound
	}

	return r.Comment(ctx, id)
}

func (r Repo) DeleteComment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.q(`DELETE FROM comments WHERE id = ?;`), id)
	if err != nil {
		return fmt.Errorf("error deleting comment: %s", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dex.ErrNotFound
	}

	return nil
}
