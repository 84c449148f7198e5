package ingress

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/narvesen/supportbot/internal/apperr"
)

const closeTicketPrefix = "close_ticket:"

// handleCallback implements spec.md §4.10: the "Close Ticket" button
// closes the ticket and edits the keyboard to a disabled "CLOSED" state.
func (r *Router) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if !strings.HasPrefix(cb.Data, closeTicketPrefix) {
		return nil
	}

	ticketID, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, closeTicketPrefix), 10, 64)
	if err != nil {
		return nil
	}

	if err := r.store.CloseTicket(ctx, ticketID); err != nil {
		return err
	}

	if cb.Message == nil {
		return nil
	}

	disabled := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("CLOSED", "noop"),
		),
	)
	return apperr.NewPlatformError("disable close ticket button",
		r.bot.EditReplyMarkup(ctx, cb.Message.Chat.ID, cb.Message.MessageID, disabled))
}

// CloseTicketKeyboard builds the "Close Ticket" inline button for a
// ticket, posted by the escalation orchestrator (spec.md §4.6 step 5).
func CloseTicketKeyboard(ticketID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Close Ticket", closeTicketPrefix+strconv.FormatInt(ticketID, 10)),
		),
	)
}
