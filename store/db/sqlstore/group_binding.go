package sqlstore

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/narvesen/supportbot/store"
)

func (d *DB) UpsertGroupBinding(ctx context.Context, userID, groupID int64, createdBy string) error {
	existing, err := d.GetGroupBinding(ctx, userID)
	if err != nil {
		return err
	}

	now := nowUnix()
	if existing == nil {
		query := d.rebind(`INSERT INTO support_group_ids (user_id, group_id, created_by, created_ts) VALUES (?, ?, ?, ?)`)
		if _, err := d.conn.ExecContext(ctx, query, userID, groupID, createdBy, now); err != nil {
			return errors.Wrap(err, "insert group binding")
		}
		return nil
	}

	query := d.rebind(`UPDATE support_group_ids SET group_id = ?, created_by = ?, created_ts = ? WHERE user_id = ?`)
	if _, err := d.conn.ExecContext(ctx, query, groupID, createdBy, now, userID); err != nil {
		return errors.Wrap(err, "update group binding")
	}
	return nil
}

func (d *DB) GetGroupBinding(ctx context.Context, userID int64) (*store.OperatorGroupBinding, error) {
	b := &store.OperatorGroupBinding{}
	query := d.rebind(`SELECT user_id, group_id, created_by, created_ts FROM support_group_ids WHERE user_id = ?`)
	if err := d.conn.GetContext(ctx, b, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select group binding")
	}
	return b, nil
}

func (d *DB) DeleteGroupBinding(ctx context.Context, userID int64) error {
	query := d.rebind(`DELETE FROM support_group_ids WHERE user_id = ?`)
	if _, err := d.conn.ExecContext(ctx, query, userID); err != nil {
		return errors.Wrap(err, "delete group binding")
	}
	return nil
}

func (d *DB) CountGroupsCreatedBy(ctx context.Context, workerIdentity string) (int, error) {
	var n int
	query := d.rebind(`SELECT COUNT(*) FROM support_group_ids WHERE created_by = ?`)
	if err := d.conn.GetContext(ctx, &n, query, workerIdentity); err != nil {
		return 0, errors.Wrap(err, "count groups created by")
	}
	return n, nil
}

func (d *DB) GetAllGroupBindings(ctx context.Context) ([]*store.OperatorGroupBinding, error) {
	var bindings []*store.OperatorGroupBinding
	query := `SELECT user_id, group_id, created_by, created_ts FROM support_group_ids ORDER BY created_ts ASC`
	if err := d.conn.SelectContext(ctx, &bindings, query); err != nil {
		return nil, errors.Wrap(err, "select all group bindings")
	}
	return bindings, nil
}

func (d *DB) GetLatestTicketCreatedTs(ctx context.Context, userID int64) (int64, bool, error) {
	var ts int64
	query := d.rebind(`SELECT created_ts FROM support_tickets WHERE user_id = ? ORDER BY created_ts DESC LIMIT 1`)
	err := d.conn.GetContext(ctx, &ts, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrap(err, "select latest ticket created ts")
	}
	return ts, true, nil
}

func (d *DB) HasOpenTicket(ctx context.Context, userID int64) (bool, error) {
	var n int
	query := d.rebind(`SELECT COUNT(*) FROM support_tickets WHERE user_id = ? AND closed = ` + falseLiteral(d.dialect))
	if err := d.conn.GetContext(ctx, &n, query, userID); err != nil {
		return false, errors.Wrap(err, "count open tickets")
	}
	return n > 0, nil
}
