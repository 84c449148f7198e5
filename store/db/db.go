// Package db dispatches to the configured store.Driver implementation.
package db

import (
	"github.com/pkg/errors"

	"github.com/narvesen/supportbot/internal/profile"
	"github.com/narvesen/supportbot/store"
	"github.com/narvesen/supportbot/store/db/postgres"
	"github.com/narvesen/supportbot/store/db/sqlite"
)

// NewDBDriver opens the store.Driver named by p.Driver (DB_DRIVER), per
// spec.md §4.1.
func NewDBDriver(p *profile.Profile) (store.Driver, error) {
	switch p.Driver {
	case "postgres":
		return postgres.New(p)
	case "sqlite":
		return sqlite.New(p)
	default:
		return nil, errors.Errorf("unsupported DB_DRIVER %q", p.Driver)
	}
}
