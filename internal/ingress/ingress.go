// Package ingress routes each inbound chat event into the correct
// repository write and optional cross-forward (spec.md §4.4).
package ingress

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/narvesen/supportbot/internal/apperr"
	"github.com/narvesen/supportbot/internal/botapi"
	"github.com/narvesen/supportbot/store"
)

// Router dispatches inbound updates to the three sub-routes of spec.md
// §4.4, plus the callback sub-route of §4.10.
type Router struct {
	store *store.Store
	bot   *botapi.Client
}

func New(st *store.Store, bot *botapi.Client) *Router {
	return &Router{store: st, bot: bot}
}

// Handle is the single entrypoint wired to the webhook (internal/botapi.
// UpdateHandler), dispatching by update shape.
func (r *Router) Handle(u *botapi.Update) error {
	ctx := context.Background()

	switch {
	case u.CallbackQuery != nil:
		return r.handleCallback(ctx, u.CallbackQuery)
	case u.EditedMessage != nil:
		return r.handleEdit(ctx, u.EditedMessage)
	case u.Message != nil && botapi.IsPrivateChat(u):
		return r.handleUserMessage(ctx, u.Message)
	case u.Message != nil:
		return r.handleOperatorMessage(ctx, u.Message)
	default:
		return nil
	}
}

// handleUserMessage implements spec.md §4.4's "user private message"
// sub-route.
func (r *Router) handleUserMessage(ctx context.Context, msg *tgbotapi.Message) error {
	userID := msg.From.ID

	if _, err := r.store.UpsertUser(ctx, &store.UpsertUser{
		ID:        userID,
		Handle:    msg.From.UserName,
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
	}); err != nil {
		return err
	}

	muted, err := r.store.IsMuted(ctx, userID)
	if err != nil {
		return err
	}
	if muted {
		return nil
	}

	if isCommandLike(msg.Text) {
		return r.sendWelcome(ctx, msg.Chat.ID)
	}

	content := botapi.ClassifyContent(msg)
	text := msg.Text
	if content != botapi.ContentText {
		text = content.Placeholder()
	}

	binding, err := r.store.GetGroupBinding(ctx, userID)
	if err != nil {
		return err
	}
	hasOpen, err := r.store.HasOpenTicket(ctx, userID)
	if err != nil {
		return err
	}

	forwarded := false
	if binding != nil && hasOpen {
		if ticket, err := r.openForwardedTicket(ctx, userID); err == nil && ticket {
			if _, err := r.bot.CopyMessage(ctx, binding.GroupID, msg.Chat.ID, msg.MessageID); err != nil {
				slog.Warn("ingress: failed to forward message into operator group", "user_id", userID, "error", err)
			} else {
				forwarded = true
			}
		}
	}

	_, err = r.store.AppendUserMessage(ctx, userID, int64(msg.MessageID), text, forwarded)
	return err
}

// openForwardedTicket reports whether the user's currently open ticket has
// already had its messages forwarded (spec.md §4.4: "if the user has an
// open forwarded ticket, forward ... AND append with replied=true").
func (r *Router) openForwardedTicket(ctx context.Context, userID int64) (bool, error) {
	tickets, err := r.store.GetActiveTickets(ctx, &store.TicketFilter{UserID: &userID, OnlyOpen: true})
	if err != nil {
		return false, err
	}
	for _, t := range tickets {
		if t.MessagesForwarded {
			return true, nil
		}
	}
	return false, nil
}

// handleEdit implements spec.md §4.4's "user edit" sub-route.
func (r *Router) handleEdit(ctx context.Context, msg *tgbotapi.Message) error {
	userID := msg.From.ID

	stored, err := r.store.GetMessageByPlatformID(ctx, userID, int64(msg.MessageID))
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}

	if !stored.Replied {
		ok, err := r.store.UpdateEditedMessage(ctx, userID, int64(msg.MessageID), msg.Text)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}

	binding, err := r.store.GetGroupBinding(ctx, userID)
	if err != nil || binding == nil {
		return err
	}
	_, sendErr := r.bot.SendText(ctx, binding.GroupID, "(EDITED MESSAGE)\n"+msg.Text)
	return apperr.NewPlatformError("notify edited message", sendErr)
}

// handleOperatorMessage implements spec.md §4.4's "operator message in a
// user group" sub-route. The user is identified by the group's binding
// row, or failing that by the group's "about" field, set to the user_id at
// creation time (spec.md §4.6 step 2).
func (r *Router) handleOperatorMessage(ctx context.Context, msg *tgbotapi.Message) error {
	userID, err := groupUserID(ctx, r.store, r.bot, msg.Chat.ID)
	if err != nil || userID == 0 {
		return err
	}

	hasOpen, err := r.store.HasOpenTicket(ctx, userID)
	if err != nil {
		return err
	}
	if !hasOpen {
		_, sendErr := r.bot.SendText(ctx, msg.Chat.ID, "This user has no open ticket.")
		return sendErr
	}

	return r.relayToUser(ctx, userID, msg)
}

// relayToUser implements spec.md §4.4's operator sub-route: relay the
// content by type, mirroring the original's full send_content switch
// (middlewares/admin_middleware.py).
func (r *Router) relayToUser(ctx context.Context, userID int64, msg *tgbotapi.Message) error {
	var err error
	switch botapi.ClassifyContent(msg) {
	case botapi.ContentPhoto:
		largest := msg.Photo[len(msg.Photo)-1]
		_, err = r.bot.SendPhoto(ctx, userID, largest.FileID, msg.Caption)
	case botapi.ContentVideo:
		_, err = r.bot.SendVideo(ctx, userID, msg.Video.FileID, msg.Caption)
	case botapi.ContentVoice:
		_, err = r.bot.SendVoice(ctx, userID, msg.Voice.FileID, msg.Caption)
	case botapi.ContentAudio:
		_, err = r.bot.SendAudio(ctx, userID, msg.Audio.FileID, msg.Caption)
	case botapi.ContentDocument:
		_, err = r.bot.SendDocument(ctx, userID, msg.Document.FileID, msg.Caption)
	case botapi.ContentSticker:
		_, err = r.bot.SendSticker(ctx, userID, msg.Sticker.FileID)
	case botapi.ContentAnimation:
		_, err = r.bot.SendAnimation(ctx, userID, msg.Animation.FileID, msg.Caption)
	case botapi.ContentVideoNote:
		_, err = r.bot.SendVideoNote(ctx, userID, msg.VideoNote.FileID, msg.VideoNote.Length)
	default:
		_, err = r.bot.SendText(ctx, userID, msg.Text)
	}
	return err
}

func (r *Router) sendWelcome(ctx context.Context, chatID int64) error {
	settings, err := r.store.GetBotSettings(ctx)
	if err != nil {
		return err
	}
	_, sendErr := r.bot.SendText(ctx, chatID, welcomeText(settings))
	return sendErr
}

func welcomeText(settings *store.BotSettings) string {
	if settings != nil && settings.SupportUsername != "" {
		return "Welcome. If you need human help, our support team is @" + settings.SupportUsername + "."
	}
	return "Welcome."
}

// isCommandLike reports whether text is a slash command or fuzzy-matches
// "start" within Levenshtein ratio >= 0.7 (spec.md §4.4).
func isCommandLike(text string) bool {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "/") {
		return true
	}
	return fuzzyMatchesStart(trimmed)
}
