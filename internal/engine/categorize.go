package engine

import (
	"context"

	"github.com/narvesen/supportbot/internal/classifier"
	"github.com/narvesen/supportbot/internal/ingress"
	"github.com/narvesen/supportbot/store"
)

// categorize is subroutine A (spec.md §4.5), fired when a ticket's
// support_issue is still NULL.
func categorize(ctx context.Context, deps Deps, ticket *store.SupportTicket) error {
	unread, err := probeAndFilterDeleted(ctx, deps, ticket)
	if err != nil {
		return err
	}
	if len(unread) == 0 {
		return nil
	}

	if len(unread) > spamThreshold {
		return spamShield(ctx, deps, ticket)
	}

	kinds := messageKinds(unread)
	switch {
	case allIn(kinds, mediaKinds):
		return categorizeAndEscalate(ctx, deps, ticket, "other", "other")

	case allIn(kinds, voiceKinds):
		return handleVoiceOnly(ctx, deps, ticket)

	case isPlaceholderOnlyBatch(kinds) || isEmojiOnlyBatch(unread, kinds):
		return deps.Store.CloseTicket(ctx, ticket.ID)
	}

	texts := messageTexts(unread)
	raw := deps.Classifier.Classify(ctx, "lang_category", classifier.LangCategoryPrompt(texts))
	lang, category := classifier.ParseLangCategory(raw)

	if suppressible(category) {
		previous, err := deps.Store.GetPreviousCategoryKey(ctx, ticket.UserID)
		if err != nil {
			return err
		}
		if previous != "" && previous == category {
			return deps.Store.CloseTicket(ctx, ticket.ID)
		}
	}

	// Special case (spec.md §4.5 step 7): the proof-gathering category
	// escalates immediately, bypassing its own template handler, when any
	// unread message carries media.
	if category == "cant_find_product_or_drop_or_dead_drop" && anyMedia(unread) {
		return categorizeAndEscalate(ctx, deps, ticket, category, lang)
	}

	if err := deps.Store.SetLangAndCategory(ctx, ticket.ID, category, lang); err != nil {
		return err
	}
	ticket.SupportIssue = &category
	ticket.Lang = &lang

	return dispatch(ctx, deps, ticket, category)
}

// categorizeAndEscalate persists (category, lang) then escalates directly,
// per the "escalate" sentinel rewrite rule (spec.md §9).
func categorizeAndEscalate(ctx context.Context, deps Deps, ticket *store.SupportTicket, category, lang string) error {
	if err := deps.Store.SetLangAndCategory(ctx, ticket.ID, category, lang); err != nil {
		return err
	}
	ticket.SupportIssue = &category
	ticket.Lang = &lang
	return deps.Escalator.Escalate(ctx, ticket.UserID, ticket)
}

// handleVoiceOnly implements spec.md §4.5 step 4's voice/audio shortcut:
// the classifier is never called.
func handleVoiceOnly(ctx context.Context, deps Deps, ticket *store.SupportTicket) error {
	const category = "voice_message"
	const lang = "other"

	if err := deps.Store.SetLangAndCategory(ctx, ticket.ID, category, lang); err != nil {
		return err
	}
	ticket.SupportIssue = stringPtr(category)
	ticket.Lang = stringPtr(lang)

	previous, err := deps.Store.GetPreviousCategoryKey(ctx, ticket.UserID)
	if err != nil {
		return err
	}
	if previous != category {
		if _, err := deps.Bot.SendText(ctx, ticket.UserID, localize(lang, voiceMessageTemplate)); err != nil {
			return err
		}
	}
	return deps.Store.CloseTicket(ctx, ticket.ID)
}

// spamShield implements spec.md §4.5 step 3: a batch over 50 unread
// messages is forwarded-flagged (so the engine stops reacting to it) and
// the sender muted for 24h, with no replies and no escalation.
func spamShield(ctx context.Context, deps Deps, ticket *store.SupportTicket) error {
	if err := deps.Store.SetMessagesForwarded(ctx, ticket.ID); err != nil {
		return err
	}
	return deps.Store.UpsertMute(ctx, ticket.UserID, spamMuteSeconds)
}

// dispatch resolves category via the dispatch table, invoking the
// escalation sentinel directly when the category's action is "escalate"
// (spec.md §9).
func dispatch(ctx context.Context, deps Deps, ticket *store.SupportTicket, category string) error {
	entry, ok := dispatchTable[category]
	if !ok {
		entry = dispatchTable["other"]
	}
	if entry.kind == actionEscalate {
		return deps.Escalator.Escalate(ctx, ticket.UserID, ticket)
	}
	return entry.handler.Handle(ctx, deps, ticket)
}

// probeAndFilterDeleted collects ticket's unread messages, probes each for
// platform deletion (spec.md §4.8), marks deleted ones, and drops them
// from the returned batch.
func probeAndFilterDeleted(ctx context.Context, deps Deps, ticket *store.SupportTicket) ([]*store.SupportMessage, error) {
	var kept []*store.SupportMessage
	for _, m := range unreadMessages(ticket) {
		if ingress.ProbeDeleted(ctx, deps.Bot, ticket.UserID, int(m.MessageID)) {
			if err := deps.Store.MarkMessageDeleted(ctx, m.ID); err != nil {
				return nil, err
			}
			continue
		}
		kept = append(kept, m)
	}
	return kept, nil
}

// unreadMessages returns ticket's messages that were unreplied at load
// time — the batch the engine just marked replied=true in the database
// before spawning this subroutine (spec.md §4.5/§5 ordering guarantee).
func unreadMessages(ticket *store.SupportTicket) []*store.SupportMessage {
	var unread []*store.SupportMessage
	for _, m := range ticket.Messages {
		if !m.Replied {
			unread = append(unread, m)
		}
	}
	return unread
}

func messageTexts(msgs []*store.SupportMessage) []string {
	texts := make([]string, len(msgs))
	for i, m := range msgs {
		texts[i] = m.UserText
	}
	return texts
}

func stringPtr(s string) *string { return &s }
