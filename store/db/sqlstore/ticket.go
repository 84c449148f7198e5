package sqlstore

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/narvesen/supportbot/store"
)

func (d *DB) GetActiveTickets(ctx context.Context, filter *store.TicketFilter) ([]*store.SupportTicket, error) {
	query := `SELECT id, user_id, closed, messages_forwarded, support_issue, lang, created_ts FROM support_tickets WHERE 1=1`
	var args []interface{}

	if filter != nil {
		if filter.UserID != nil {
			query += ` AND user_id = ?`
			args = append(args, *filter.UserID)
		}
		if filter.OnlyOpen {
			query += ` AND closed = ` + falseLiteral(d.dialect)
		}
		if filter.UnforwardedOnly {
			query += ` AND messages_forwarded = ` + falseLiteral(d.dialect)
		}
	}
	query += ` ORDER BY created_ts ASC`

	var tickets []*store.SupportTicket
	if err := d.conn.SelectContext(ctx, &tickets, d.rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "select active tickets")
	}

	for _, t := range tickets {
		msgs, err := d.ticketMessages(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		t.Messages = msgs
	}
	return tickets, nil
}

func falseLiteral(dialect Dialect) string {
	if dialect == DialectPostgres {
		return "FALSE"
	}
	return "0"
}

func (d *DB) ticketMessages(ctx context.Context, ticketID int64) ([]*store.SupportMessage, error) {
	var msgs []*store.SupportMessage
	query := d.rebind(`
		SELECT id, ticket_id, user_id, message_id, user_text, replied, is_deleted, created_ts
		FROM support_messages WHERE ticket_id = ? ORDER BY message_id ASC`)
	if err := d.conn.SelectContext(ctx, &msgs, query, ticketID); err != nil {
		return nil, errors.Wrap(err, "select ticket messages")
	}
	return msgs, nil
}

func (d *DB) GetTicket(ctx context.Context, ticketID int64) (*store.SupportTicket, error) {
	t := &store.SupportTicket{}
	query := d.rebind(`SELECT id, user_id, closed, messages_forwarded, support_issue, lang, created_ts FROM support_tickets WHERE id = ?`)
	if err := d.conn.GetContext(ctx, t, query, ticketID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "select ticket")
	}
	msgs, err := d.ticketMessages(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Messages = msgs
	return t, nil
}

// SetLangAndCategory only updates a ticket whose support_issue is still
// NULL; a second call matches no row and returns an error, so the pair is
// set at most once per ticket.
func (d *DB) SetLangAndCategory(ctx context.Context, ticketID int64, category, lang string) error {
	query := d.rebind(`UPDATE support_tickets SET support_issue = ?, lang = ? WHERE id = ? AND support_issue IS NULL`)
	res, err := d.conn.ExecContext(ctx, query, category, lang, ticketID)
	if err != nil {
		return errors.Wrap(err, "set lang and category")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return errors.Errorf("ticket %d already categorized or missing", ticketID)
	}
	return nil
}

func (d *DB) MarkMessagesReplied(ctx context.Context, ticketID int64) error {
	query := d.rebind(`UPDATE support_messages SET replied = ` + trueLiteral(d.dialect) + ` WHERE ticket_id = ?`)
	if _, err := d.conn.ExecContext(ctx, query, ticketID); err != nil {
		return errors.Wrap(err, "mark messages replied")
	}
	return nil
}

func trueLiteral(dialect Dialect) string {
	if dialect == DialectPostgres {
		return "TRUE"
	}
	return "1"
}

func (d *DB) CloseTicket(ctx context.Context, ticketID int64) error {
	query := d.rebind(`UPDATE support_tickets SET closed = ` + trueLiteral(d.dialect) + ` WHERE id = ?`)
	if _, err := d.conn.ExecContext(ctx, query, ticketID); err != nil {
		return errors.Wrap(err, "close ticket")
	}
	return nil
}

// SetMessagesForwarded is written as an unconditional SET to true; the
// invariant that it never reverts is upheld by callers never calling it
// with a "false" variant, not by a guard clause here.
func (d *DB) SetMessagesForwarded(ctx context.Context, ticketID int64) error {
	query := d.rebind(`UPDATE support_tickets SET messages_forwarded = ` + trueLiteral(d.dialect) + ` WHERE id = ?`)
	if _, err := d.conn.ExecContext(ctx, query, ticketID); err != nil {
		return errors.Wrap(err, "set messages forwarded")
	}
	return nil
}

// GetPreviousCategoryKey returns the support_issue of the user's
// second-most-recent ticket (the most recent being the one currently under
// evaluation), or "" if there isn't one.
func (d *DB) GetPreviousCategoryKey(ctx context.Context, userID int64) (string, error) {
	var category sql.NullString
	query := d.rebind(`
		SELECT support_issue FROM support_tickets
		WHERE user_id = ?
		ORDER BY created_ts DESC, id DESC
		LIMIT 1 OFFSET 1`)
	err := d.conn.GetContext(ctx, &category, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "select previous category")
	}
	return category.String, nil
}
