// Package postgres opens the production store.Driver backed by PostgreSQL.
package postgres

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	// registers the "postgres" database/sql driver.
	_ "github.com/lib/pq"

	"github.com/narvesen/supportbot/internal/profile"
	"github.com/narvesen/supportbot/store"
	"github.com/narvesen/supportbot/store/db/sqlstore"
)

// New opens a pooled connection to a PostgreSQL instance per p.DSN and
// returns a store.Driver backed by it.
func New(p *profile.Profile) (store.Driver, error) {
	conn, err := sqlx.Open("postgres", p.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}

	conn.SetMaxOpenConns(p.DBPoolSize + p.DBMaxOverflow)
	conn.SetMaxIdleConns(p.DBPoolSize)

	if err := conn.Ping(); err != nil {
		return nil, errors.Wrap(err, "ping postgres")
	}

	return sqlstore.New(conn, sqlstore.DialectPostgres), nil
}
