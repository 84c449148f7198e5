package sqlstore

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/narvesen/supportbot/store"
)

func (d *DB) GetUser(ctx context.Context, id int64) (*store.User, error) {
	u := &store.User{}
	query := d.rebind(`SELECT id, handle, first_name, last_name, created_ts, updated_ts FROM users WHERE id = ?`)
	if err := d.conn.GetContext(ctx, u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select user")
	}

	roles, err := d.userRoles(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return u, nil
}

func (d *DB) userRoles(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	query := d.rebind(`
		SELECT r.name FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = ?
		ORDER BY r.name`)
	if err := d.conn.SelectContext(ctx, &names, query, userID); err != nil {
		return nil, errors.Wrap(err, "select user roles")
	}
	return names, nil
}

func (d *DB) UpsertUser(ctx context.Context, upsert *store.UpsertUser) (*store.User, error) {
	existing, err := d.GetUser(ctx, upsert.ID)
	if err != nil {
		return nil, err
	}

	now := nowUnix()
	if existing == nil {
		query := d.rebind(`
			INSERT INTO users (id, handle, first_name, last_name, created_ts, updated_ts)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if _, err := d.conn.ExecContext(ctx, query, upsert.ID, upsert.Handle, upsert.FirstName, upsert.LastName, now, now); err != nil {
			return nil, errors.Wrap(err, "insert user")
		}
	} else {
		query := d.rebind(`
			UPDATE users SET handle = ?, first_name = ?, last_name = ?, updated_ts = ?
			WHERE id = ?`)
		if _, err := d.conn.ExecContext(ctx, query, upsert.Handle, upsert.FirstName, upsert.LastName, now, upsert.ID); err != nil {
			return nil, errors.Wrap(err, "update user")
		}
	}

	return d.GetUser(ctx, upsert.ID)
}
