// Package sqlstore implements store.Driver once against database/sql via
// sqlx, sharing query text between postgres and sqlite by writing every
// statement with '?' placeholders and rebinding per dialect (spec.md §4.1:
// a Driver backs either engine named in DB_DRIVER).
package sqlstore

import (
	"context"
	_ "embed"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

//go:embed schema_postgres.sql
var schemaPostgres string

//go:embed schema_sqlite.sql
var schemaSQLite string

// Dialect names the SQL engine a DB talks to, selecting which embedded
// schema Migrate applies and how queries are rebound.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DB is the shared store.Driver implementation. Callers construct it via
// store/db/postgres or store/db/sqlite, which only differ in how they open
// the underlying *sqlx.DB and which Dialect they pass.
type DB struct {
	conn    *sqlx.DB
	dialect Dialect
}

func New(conn *sqlx.DB, dialect Dialect) *DB {
	return &DB{conn: conn, dialect: dialect}
}

// rebind rewrites a '?'-placeholder query for the active dialect
// ($1, $2, ... for postgres; unchanged for sqlite).
func (d *DB) rebind(query string) string {
	return d.conn.Rebind(query)
}

// insertReturningID runs an INSERT and reports the generated id.
// lib/pq doesn't implement sql.Result.LastInsertId, so postgres inserts
// append RETURNING id and Scan it; sqlite inserts use LastInsertId.
func (d *DB) insertReturningID(ctx context.Context, tx *sqlx.Tx, query string, args ...interface{}) (int64, error) {
	if d.dialect == DialectPostgres {
		var id int64
		if err := tx.QueryRowxContext(ctx, d.rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
			return 0, errors.Wrap(err, "insert returning id")
		}
		return id, nil
	}

	res, err := tx.ExecContext(ctx, d.rebind(query), args...)
	if err != nil {
		return 0, errors.Wrap(err, "insert")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "last insert id")
	}
	return id, nil
}

func (d *DB) Migrate(ctx context.Context) error {
	schema := schemaSQLite
	if d.dialect == DialectPostgres {
		schema = schemaPostgres
	}
	if _, err := d.conn.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "apply schema")
	}
	return nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}
