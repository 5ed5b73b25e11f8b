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

const userNamespace = "-usr"

const userColumns = "id, discord_id, name, avatar_url, created_at"

// EnsureUser creates the user on first login and refreshes their name and
// avatar on later ones.
func (r Repo) EnsureUser(ctx context.Context, usr dex.User) (dex.User, error) {
	const q = `INSERT INTO users (id, discord_id, name, avatar_url, created_at)
	VALUES (:id, :discord_id, :name, :avatar_url, :created_at)
	ON CONFLICT (discord_id) DO UPDATE SET name = excluded.name, avatar_url = excluded.avatar_url;`

	usr.ID = uuid.NewString() + userNamespace
	usr.CreatedAt = time.Now().UTC()
	if _, err := r.db.NamedExecContext(ctx, q, usr); err != nil {
		return dex.User{}, fmt.Errorf("error ensuring user: %s", err)
	}

	return r.userByDiscordID(ctx, usr.DiscordID)
}

func (r Repo) User(ctx context.Context, id string) (dex.User, error) {
	q := r.q(`SELECT ` + userColumns + ` FROM users WHERE id = ?;`)

	var usr dex.User
	err := r.db.GetContext(ctx, &usr, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return dex.User{}, dex.ErrNotFound
	}
	if err != nil {
		return dex.User{}, err
	}

	return usr, nil
}

func (r Repo) userByDiscordID(ctx context.Context, discordID string) (dex.User, error) {
	q := r.q(`SELECT ` + userColumns + ` FROM users WHERE discord_id = ?;`)

	var usr dex.User
	if err := r.db.GetContext(ctx, &usr, q, discordID); err != nil {
		return dex.User{}, err
	}

	return usr, nil
}
