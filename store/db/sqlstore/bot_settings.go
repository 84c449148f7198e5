package sqlstore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/narvesen/supportbot/store"
)

func (d *DB) GetBotSettings(ctx context.Context) (*store.BotSettings, error) {
	s := &store.BotSettings{}
	query := `SELECT bot_username, support_username FROM bot_settings WHERE id = 1`
	if err := d.conn.GetContext(ctx, s, query); err != nil {
		return nil, errors.Wrap(err, "select bot settings")
	}
	return s, nil
}

func (d *DB) UpdateBotSettings(ctx context.Context, settings *store.BotSettings) error {
	query := `UPDATE bot_settings SET bot_username = ?, support_username = ? WHERE id = 1`
	if _, err := d.conn.ExecContext(ctx, d.rebind(query), settings.BotUsername, settings.SupportUsername); err != nil {
		return errors.Wrap(err, "update bot settings")
	}
	return nil
}
