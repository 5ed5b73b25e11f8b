package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/jdholdren/retrodex/internal/dex"
)

const entryColumns = "id, title, episode, image_url, tags, age, contributor, likes, created_at"

// The stored shape of an entry. Tags are comma separated and the contributor
// is a JSON blob.
type entryRow struct {
	ID          string        `db:"id"`
	Title       string        `db:"title"`
	Episode     string        `db:"episode"`
	ImageURL    string        `db:"image_url"`
	Tags        string        `db:"tags"`
	Age         sql.NullInt64 `db:"age"`
	Contributor string        `db:"contributor"`
	Likes       int           `db:"likes"`
	CreatedAt   time.Time     `db:"created_at"`
}

func (row entryRow) entry() dex.Entry {
	e := dex.Entry{
		ID:        row.ID,
		Title:     row.Title,
		Episode:   row.Episode,
		ImageURL:  row.ImageURL,
		Tags:      dex.SplitTags(row.Tags),
		Likes:     row.Likes,
		CreatedAt: row.CreatedAt.UTC(),
	}
	if row.Age.Valid {
		age := int(row.Age.Int64)
		e.Age = &age
	}
	// A contributor that doesn't parse is left empty so callers fall back to
	// whatever else they know about the author.
	if c, err := dex.ParseContributor(row.Contributor); err == nil {
		e.Contributor = c
	}

	return e
}

func newEntryRow(e dex.Entry) entryRow {
	row := entryRow{
		ID:        e.ID,
		Title:     e.Title,
		Episode:   e.Episode,
		ImageURL:  e.ImageURL,
		Tags:      dex.JoinTags(e.Tags),
		Likes:     e.Likes,
		CreatedAt: e.CreatedAt.UTC(),
	}
	if e.Age != nil {
		row.Age = sql.NullInt64{Int64: int64(*e.Age), Valid: true}
	}
	if e.Contributor.Valid() {
		b, _ := json.Marshal(e.Contributor)
		row.Contributor = string(b)
	}

	return row
}

func (r Repo) Entry(ctx context.Context, id string) (dex.Entry, error) {
	q := r.q(`SELECT ` + entryColumns + ` FROM entries WHERE id = ?;`)

	var row entryRow
	err := r.db.GetContext(ctx, &row, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return dex.Entry{}, dex.ErrNotFound
	}
	if err != nil {
		return dex.Entry{}, fmt.Errorf("error fetching entry: %s", err)
	}

	return row.entry(), nil
}

// Entries returns the stored rows for the given ids. Ids with no row are left
// out.
func (r Repo) Entries(ctx context.Context, ids []string) ([]dex.Entry, error) {
	if len(ids) == 0 {
		return []dex.Entry{}, nil
	}

	q, args, err := r.sb.Select(entryColumns).From("entries").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building query: %s", err)
	}

	var rows []entryRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("error fetching entries: %s", err)
	}

	return toEntries(rows), nil
}

// AllEntries lists every stored entry, newest first.
func (r Repo) AllEntries(ctx context.Context) ([]dex.Entry, error) {
	q := `SELECT ` + entryColumns + ` FROM entries ORDER BY created_at DESC, id DESC;`

	var rows []entryRow
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("error fetching entries: %s", err)
	}

	return toEntries(rows), nil
}

func (r Repo) InsertEntry(ctx context.Context, e dex.Entry) (dex.Entry, error) {
	const q = `INSERT INTO entries (id, title, episode, image_url, tags, age, contributor, likes, created_at)
	VALUES (:id, :title, :episode, :image_url, :tags, :age, :contributor, :likes, :created_at);`

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	row := newEntryRow(e)
	if _, err := r.db.NamedExecContext(ctx, q, row); err != nil {
		if isUniqueViolation(err) {
			return dex.Entry{}, fmt.Errorf("entry %s already exists: %w", e.ID, dex.ErrConflict)
		}
		return dex.Entry{}, fmt.Errorf("error inserting entry: %s", err)
	}

	return row.entry(), nil
}

func (r Repo) UpdateEntry(ctx context.Context, id string, args dex.UpdateEntryArgs) error {
	b := r.sb.Update("entries").Where(sq.Eq{"id": id})

	set := false
	if args.Title != nil {
		b, set = b.Set("title", *args.Title), true
	}
	if args.Episode != nil {
		b, set = b.Set("episode", *args.Episode), true
	}
	if args.ImageURL != nil {
		b, set = b.Set("image_url", *args.ImageURL), true
	}
	if args.Tags != nil {
		b, set = b.Set("tags", dex.JoinTags(args.Tags)), true
	}
	if !set {
		return nil
	}

	q, qargs, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("error building query: %s", err)
	}
	res, err := r.db.ExecContext(ctx, q, qargs...)
	if err != nil {
		return fmt.Errorf("error updating entry: %s", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dex.ErrNotFound
	}

	return nil
}

// DeleteEntry removes the entry along with its comments and likes.
func (r Repo) DeleteEntry(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %s", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM comments WHERE entry_id = ?;`,
		`DELETE FROM likes WHERE entry_id = ?;`,
	} {
		if _, err := tx.ExecContext(ctx, tx.Rebind(q), id); err != nil {
			return fmt.Errorf("error deleting entry children: %s", err)
		}
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM entries WHERE id = ?;`), id)
	if err != nil {
		return fmt.Errorf("error deleting entry: %s", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dex.ErrNotFound
	}

	return tx.Commit()
}

// CommentCounts returns the number of comments per entry. Entries without any
// comments are absent from the map.
func (r Repo) CommentCounts(ctx context.Context, entryIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(entryIDs))
	if len(entryIDs) == 0 {
		return counts, nil
	}

	q, args, err := r.sb.Select("entry_id", "COUNT(*) AS n").
		From("comments").
		Where(sq.Eq{"entry_id": entryIDs}).
		GroupBy("entry_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building query: %s", err)
	}

	var rows []struct {
		EntryID string `db:"entry_id"`
		N       int    `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("error counting comments: %s", err)
	}
	for _, row := range rows {
		counts[row.EntryID] = row.N
	}

	return counts, nil
}

func toEntries(rows []entryRow) []dex.Entry {
	entries := make([]dex.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.entry())
	}
	return entries
}
