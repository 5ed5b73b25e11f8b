// Package database is the Local Datastore: entries, comments, likes and users
// over sqlite by default, or postgres.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sethvargo/go-retry"
	"modernc.org/sqlite"

	"github.com/jdholdren/retrodex/internal/dex"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Ensure Repo implements the Repository interface
var _ dex.Repository = (*Repo)(nil)

type Repo struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

func New(db *sqlx.DB) Repo {
	sb := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if db.DriverName() == DriverPostgres {
		sb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}

	return Repo{db: db, sb: sb}
}

// Open connects to the datastore, waiting for it to accept connections.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		dsn = fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate&_time_format=sqlite", dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	dbx, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	b := retry.WithMaxDuration(30*time.Second, retry.NewFibonacci(500*time.Millisecond))
	if err := retry.Do(ctx, b, func(ctx context.Context) error {
		if err := dbx.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		dbx.Close()
		return nil, fmt.Errorf("error reaching database: %w", err)
	}

	return dbx, nil
}

func (r Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Rebinds a query written with ? placeholders for the connected driver.
func (r Repo) q(query string) string {
	return r.db.Rebind(query)
}

func isUniqueViolation(err error) bool {
	if sqliteErr := (&sqlite.Error{}); errors.As(err, &sqliteErr) {
		// SQLITE_CONSTRAINT_UNIQUE, SQLITE_CONSTRAINT_PRIMARYKEY
		return sqliteErr.Code() == 2067 || sqliteErr.Code() == 1555
	}
	if pqErr := (&pq.Error{}); errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
