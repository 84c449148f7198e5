package sqlstore

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/narvesen/supportbot/store"
)

// AppendUserMessage finds the user's open ticket or creates one, then
// inserts the message into it, all within a single transaction so the
// invariant "a user has at most one open ticket" never races against a
// concurrent insert (spec.md §8).
func (d *DB) AppendUserMessage(ctx context.Context, userID int64, messageID int64, text string, replied bool) (*store.SupportMessage, error) {
	tx, err := d.conn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	var ticketID int64
	query := d.rebind(`SELECT id FROM support_tickets WHERE user_id = ? AND closed = ` + falseLiteral(d.dialect) + ` LIMIT 1`)
	err = tx.GetContext(ctx, &ticketID, query, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		now := nowUnix()
		insertTicket := `INSERT INTO support_tickets (user_id, closed, messages_forwarded, created_ts) VALUES (?, ` + falseLiteral(d.dialect) + `, ` + falseLiteral(d.dialect) + `, ?)`
		ticketID, err = d.insertReturningID(ctx, tx, insertTicket, userID, now)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, errors.Wrap(err, "select open ticket")
	}

	now := nowUnix()
	insertMsg := `
		INSERT INTO support_messages (ticket_id, user_id, message_id, user_text, replied, is_deleted, created_ts)
		VALUES (?, ?, ?, ?, ?, ` + falseLiteral(d.dialect) + `, ?)`
	msgID, err := d.insertReturningID(ctx, tx, insertMsg, ticketID, userID, messageID, text, boolLiteral(d.dialect, replied), now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}

	return &store.SupportMessage{
		ID:        msgID,
		TicketID:  ticketID,
		UserID:    userID,
		MessageID: messageID,
		UserText:  text,
		Replied:   replied,
		CreatedTs: now,
	}, nil
}

// boolLiteral adapts a bool to the representation each driver's parameter
// binder accepts: lib/pq wants a real bool, modernc.org/sqlite wants 0/1.
func boolLiteral(dialect Dialect, v bool) interface{} {
	if dialect == DialectPostgres {
		return v
	}
	if v {
		return 1
	}
	return 0
}

func (d *DB) MarkMessageDeleted(ctx context.Context, id int64) error {
	query := d.rebind(`UPDATE support_messages SET is_deleted = ` + trueLiteral(d.dialect) + ` WHERE id = ?`)
	if _, err := d.conn.ExecContext(ctx, query, id); err != nil {
		return errors.Wrap(err, "mark message deleted")
	}
	return nil
}

func (d *DB) UpdateEditedMessage(ctx context.Context, userID, messageID int64, newText string) (bool, error) {
	query := d.rebind(`
		UPDATE support_messages SET user_text = ?
		WHERE user_id = ? AND message_id = ? AND replied = ` + falseLiteral(d.dialect))
	res, err := d.conn.ExecContext(ctx, query, newText, userID, messageID)
	if err != nil {
		return false, errors.Wrap(err, "update edited message")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "rows affected")
	}
	return n > 0, nil
}

func (d *DB) GetMessageByPlatformID(ctx context.Context, userID, messageID int64) (*store.SupportMessage, error) {
	msg := &store.SupportMessage{}
	query := d.rebind(`
		SELECT id, ticket_id, user_id, message_id, user_text, replied, is_deleted, created_ts
		FROM support_messages WHERE user_id = ? AND message_id = ?`)
	if err := d.conn.GetContext(ctx, msg, query, userID, messageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select message by platform id")
	}
	return msg, nil
}
