// Package sqlite opens the development/single-box store.Driver backed by
// the pure-Go modernc.org/sqlite engine (no CGO, unlike the teacher's
// mattn/go-sqlite3 + sqlite-vec stack, which this domain has no use for).
package sqlite

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	_ "modernc.org/sqlite"

	"github.com/narvesen/supportbot/internal/profile"
	"github.com/narvesen/supportbot/store"
	"github.com/narvesen/supportbot/store/db/sqlstore"
)

// New opens p.DSN as a sqlite file (creating it if absent), applies the
// pragmas a single-writer/many-reader workload needs, and returns a
// store.Driver backed by it.
func New(p *profile.Profile) (store.Driver, error) {
	conn, err := sqlx.Open("sqlite", p.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	// sqlite allows only one writer at a time; cap the pool so the
	// driver's own locking is the sole source of serialization.
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			return nil, errors.Wrapf(err, "apply pragma %q", p)
		}
	}

	return sqlstore.New(conn, sqlstore.DialectSQLite), nil
}
