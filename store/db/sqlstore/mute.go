package sqlstore

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

func (d *DB) UpsertMute(ctx context.Context, userID int64, durationSeconds int64) error {
	now := nowUnix()
	until := now + durationSeconds

	query := d.rebind(`DELETE FROM support_user_muted WHERE user_id = ?`)
	if _, err := d.conn.ExecContext(ctx, query, userID); err != nil {
		return errors.Wrap(err, "clear existing mute")
	}

	query = d.rebind(`INSERT INTO support_user_muted (user_id, muted_ts, muted_until) VALUES (?, ?, ?)`)
	if _, err := d.conn.ExecContext(ctx, query, userID, now, until); err != nil {
		return errors.Wrap(err, "insert mute")
	}
	return nil
}

// IsMuted deletes the mute row the moment it reads as expired, so a
// second read never has to reason about stale mutes (spec.md §8).
func (d *DB) IsMuted(ctx context.Context, userID int64) (bool, error) {
	var until int64
	query := d.rebind(`SELECT muted_until FROM support_user_muted WHERE user_id = ?`)
	err := d.conn.GetContext(ctx, &until, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "select mute")
	}

	if nowUnix() >= until {
		del := d.rebind(`DELETE FROM support_user_muted WHERE user_id = ?`)
		if _, err := d.conn.ExecContext(ctx, del, userID); err != nil {
			return false, errors.Wrap(err, "delete expired mute")
		}
		return false, nil
	}
	return true, nil
}
