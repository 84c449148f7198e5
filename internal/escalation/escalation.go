package escalation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
	"github.com/pkg/errors"

	"github.com/narvesen/supportbot/internal/apperr"
	"github.com/narvesen/supportbot/internal/botapi"
	"github.com/narvesen/supportbot/internal/ingress"
	"github.com/narvesen/supportbot/internal/metrics"
	"github.com/narvesen/supportbot/internal/profile"
	"github.com/narvesen/supportbot/internal/workerpool"
	"github.com/narvesen/supportbot/store"
)

// devAdminUsername is the development-only fallback admin identity
// (spec.md §4.6 step 2: "in development, a hard-coded username").
const devAdminUsername = "narvesen_support_dev"

// groupPhotoPath is the fixed local image uploaded as a new operator
// group's photo (spec.md §6's data/ layout). Upload failure is ignored
// per spec.md §4.6 step 2.
const groupPhotoPath = "data/card_payment_1.jpg"

var dossierStatuses = []store.DropStatus{
	store.DropStatusPaid, store.DropStatusLost, store.DropStatusRedrop, store.DropStatusAngryRedrop,
}

// Orchestrator implements spec.md §4.6's 7-step escalation, satisfying
// internal/engine.Escalator.
type Orchestrator struct {
	Store   *store.Store
	Bot     *botapi.Client
	Pool    *workerpool.Pool
	Profile *profile.Profile
	Metrics *metrics.Exporter // may be nil
}

func New(st *store.Store, bot *botapi.Client, pool *workerpool.Pool, prof *profile.Profile, exporter *metrics.Exporter) *Orchestrator {
	return &Orchestrator{Store: st, Bot: bot, Pool: pool, Profile: prof, Metrics: exporter}
}

// Escalate implements the engine.Escalator interface.
func (o *Orchestrator) Escalate(ctx context.Context, userID int64, ticket *store.SupportTicket) (err error) {
	if o.Metrics != nil {
		defer func() { o.Metrics.RecordEscalation(err) }()
	}

	session, err := o.Pool.AcquireForGroupCreation(ctx)
	if err != nil {
		o.notifyOperationalError(ctx, err)
		return err
	}
	defer session.Release()

	binding, err := o.Store.GetGroupBinding(ctx, userID)
	if err != nil {
		return err
	}
	if binding == nil {
		binding, err = o.createGroup(ctx, session, userID)
		if err != nil {
			return errors.Wrap(err, "create operator group")
		}
	}

	if err = o.Store.SetMessagesForwarded(ctx, ticket.ID); err != nil {
		return err
	}
	if reloaded, rerr := o.Store.GetTicket(ctx, ticket.ID); rerr == nil && reloaded != nil {
		ticket = reloaded
	}

	if derr := o.postDossier(ctx, binding.GroupID, userID); derr != nil {
		slog.Warn("escalation: failed to post dossier", "user_id", userID, "error", derr)
	}

	if herr := o.postHeader(ctx, binding.GroupID, ticket); herr != nil {
		slog.Warn("escalation: failed to post ticket header", "ticket_id", ticket.ID, "error", herr)
	}

	o.copyMessages(ctx, binding.GroupID, userID, ticket)
	return nil
}

// createGroup implements spec.md §4.6 step 2.
func (o *Orchestrator) createGroup(ctx context.Context, session *workerpool.Session, userID int64) (*store.OperatorGroupBinding, error) {
	user, err := o.Store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.Errorf("user %d not found", userID)
	}

	adminUsername, err := o.resolveAdminUsername(ctx)
	if err != nil {
		return nil, err
	}

	bot, err := resolveInputUser(ctx, session.API, o.Profile.BotUsername)
	if err != nil {
		return nil, errors.Wrap(err, "resolve bot identity")
	}
	admin, err := resolveInputUser(ctx, session.API, adminUsername)
	if err != nil {
		return nil, errors.Wrap(err, "resolve admin identity")
	}

	title := user.FullName()
	if title == "" {
		title = fmt.Sprintf("User %d", userID)
	}

	updates, err := session.API.MessagesCreateChat(ctx, &tg.MessagesCreateChatRequest{
		Users: []tg.InputUserClass{bot, admin},
		Title: title,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create chat")
	}
	chatID, err := extractChatID(updates)
	if err != nil {
		return nil, err
	}

	if _, err := session.API.MessagesEditChatAdmin(ctx, &tg.MessagesEditChatAdminRequest{
		ChatID: chatID, UserID: admin, IsAdmin: true,
	}); err != nil {
		slog.Warn("escalation: failed to promote admin", "chat_id", chatID, "error", err)
	}

	if _, err := session.API.MessagesEditChatAbout(ctx, &tg.MessagesEditChatAboutRequest{
		Peer:  &tg.InputPeerChat{ChatID: chatID},
		About: fmt.Sprintf("%d", userID),
	}); err != nil {
		slog.Warn("escalation: failed to set group about", "chat_id", chatID, "error", err)
	}

	o.uploadGroupPhoto(ctx, session, chatID)

	groupID := -chatID // negated per platform convention (spec.md §4.6 step 2)
	if err := o.Store.UpsertGroupBinding(ctx, userID, groupID, session.Identity.Name); err != nil {
		return nil, err
	}
	return o.Store.GetGroupBinding(ctx, userID)
}

// uploadGroupPhoto is best-effort; upload failures are ignored (spec.md
// §4.6 step 2).
func (o *Orchestrator) uploadGroupPhoto(ctx context.Context, session *workerpool.Session, chatID int64) {
	u := uploader.NewUploader(session.API)
	file, err := u.FromPath(ctx, groupPhotoPath)
	if err != nil {
		slog.Warn("escalation: failed to upload group photo", "error", err)
		return
	}
	if _, err := session.API.MessagesEditChatPhoto(ctx, &tg.MessagesEditChatPhotoRequest{
		ChatID: chatID,
		Photo:  &tg.InputChatUploadedPhoto{File: file},
	}); err != nil {
		slog.Warn("escalation: failed to set group photo", "chat_id", chatID, "error", err)
	}
}

// resolveAdminUsername returns SUPPORT_ADMIN_USERNAME in development,
// else bot_settings.support_username in production (spec.md §4.6 step 2).
func (o *Orchestrator) resolveAdminUsername(ctx context.Context) (string, error) {
	if o.Profile.Development {
		if o.Profile.SupportAdminUsername != "" {
			return o.Profile.SupportAdminUsername, nil
		}
		return devAdminUsername, nil
	}
	settings, err := o.Store.GetBotSettings(ctx)
	if err != nil {
		return "", err
	}
	return settings.SupportUsername, nil
}

func resolveInputUser(ctx context.Context, api *tg.Client, username string) (tg.InputUserClass, error) {
	resolved, err := api.ContactsResolveUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	for _, u := range resolved.Users {
		if user, ok := u.(*tg.User); ok {
			return &tg.InputUser{UserID: user.ID, AccessHash: user.AccessHash}, nil
		}
	}
	return nil, errors.Errorf("username %q did not resolve to a user", username)
}

func extractChatID(updates tg.UpdatesClass) (int64, error) {
	u, ok := updates.(*tg.Updates)
	if !ok {
		return 0, errors.Errorf("unexpected updates type %T from MessagesCreateChat", updates)
	}
	for _, c := range u.Chats {
		if chat, ok := c.(*tg.Chat); ok {
			return chat.ID, nil
		}
	}
	return 0, errors.New("MessagesCreateChat returned no chat")
}

// postDossier implements spec.md §4.6 step 4.
func (o *Orchestrator) postDossier(ctx context.Context, groupID, userID int64) error {
	data, err := o.Store.GetUserAndDrops(ctx, userID, dossierStatuses, "created_ts DESC")
	if err != nil {
		return err
	}
	for _, part := range renderDossier(data) {
		if _, err := o.Bot.SendText(ctx, groupID, part); err != nil {
			return err
		}
	}
	return nil
}

// postHeader implements spec.md §4.6 step 5.
func (o *Orchestrator) postHeader(ctx context.Context, groupID int64, ticket *store.SupportTicket) error {
	topic := "Unknown"
	if ticket.SupportIssue != nil {
		topic = *ticket.SupportIssue
	}
	text := fmt.Sprintf("Ticket topic: '%s'", topic)
	_, err := o.Bot.SendTextWithKeyboard(ctx, groupID, text, ingress.CloseTicketKeyboard(ticket.ID))
	return err
}

// copyMessages implements spec.md §4.6 step 6, posting ticket messages in
// platform message_id order; a failure on any single message is logged and does
// not abort the rest of the batch (spec.md §7).
func (o *Orchestrator) copyMessages(ctx context.Context, groupID, userID int64, ticket *store.SupportTicket) {
	for _, m := range ticket.Messages {
		if m.IsDeleted {
			if _, err := o.Bot.SendText(ctx, groupID, "(DELETED MESSAGE)\n"+m.UserText); err != nil {
				slog.Warn("escalation: failed to post deleted-message notice", "message_id", m.ID, "error", err)
			}
			continue
		}
		if _, err := o.Bot.CopyMessage(ctx, groupID, userID, int(m.MessageID)); err != nil {
			slog.Warn("escalation: failed to copy message into group", "message_id", m.ID, "error", err)
		}
	}
}

// notifyOperationalError sends a visible notice to the configured support
// handle when no worker identity could be acquired (spec.md §4.2/§7:
// ResourceExhausted).
func (o *Orchestrator) notifyOperationalError(ctx context.Context, cause error) {
	handle := o.Profile.SupportAdminUsername
	if handle == "" {
		return
	}
	text := fmt.Sprintf("⚠️ Escalation failed: %s", apperr.NewResourceExhausted("worker identity").Error())
	if _, err := o.Bot.SendTextToUsername(ctx, handle, text); err != nil {
		slog.Error("escalation: failed to notify support handle", "error", err, "cause", cause)
	}
}
