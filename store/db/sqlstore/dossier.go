package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/narvesen/supportbot/store"
)

// dossierOrderColumns whitelists GetUserAndDrops' orderBy argument against
// SQL injection; any other value falls back to "created_ts".
var dossierOrderColumns = map[string]string{
	"created_ts": "created_ts",
	"amount":     "amount",
	"status":     "status",
}

func (d *DB) GetUserAndDrops(ctx context.Context, userID int64, statuses []store.DropStatus, orderBy string) (*store.UserDossierData, error) {
	user, err := d.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.Errorf("user %d not found", userID)
	}

	orderCol, ok := dossierOrderColumns[orderBy]
	if !ok {
		orderCol = "created_ts"
	}

	query := `
		SELECT d.id, d.amount, d.status, d.lost, d.created_ts,
		       COALESCE(c.name, '') AS area, COALESCE(p.name, '') AS product
		FROM drops d
		LEFT JOIN cities c ON c.id = d.city_id
		LEFT JOIN products p ON p.id = d.product_id
		WHERE d.user_id = ?`
	args := []interface{}{userID}
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, s := range statuses {
			placeholders[i] = "?"
			args = append(args, string(s))
		}
		query += fmt.Sprintf(" AND d.status IN (%s)", strings.Join(placeholders, ","))
	}
	query += fmt.Sprintf(" ORDER BY d.%s DESC", orderCol)

	var drops []*store.Drop
	if err := d.conn.SelectContext(ctx, &drops, d.rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "select drops")
	}

	firstSeen, lastSeen, err := d.userMessageSpan(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &store.UserDossierData{
		User:        user,
		Drops:       drops,
		FirstSeenTs: firstSeen,
		LastSeenTs:  lastSeen,
	}, nil
}

func (d *DB) userMessageSpan(ctx context.Context, userID int64) (int64, int64, error) {
	var span struct {
		FirstTs sql.NullInt64 `db:"first_ts"`
		LastTs  sql.NullInt64 `db:"last_ts"`
	}
	query := d.rebind(`SELECT MIN(created_ts) AS first_ts, MAX(created_ts) AS last_ts FROM support_messages WHERE user_id = ?`)
	if err := d.conn.GetContext(ctx, &span, query, userID); err != nil {
		return 0, 0, errors.Wrap(err, "select user message span")
	}
	return span.FirstTs.Int64, span.LastTs.Int64, nil
}
