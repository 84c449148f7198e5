package engine

import (
	"context"
	"time"

	"github.com/narvesen/supportbot/internal/classifier"
	"github.com/narvesen/supportbot/store"
)

// helsinkiLocation resolves Europe/Helsinki once; if the tzdata bundle is
// unavailable, loadHelsinki falls back to a fixed UTC+2 offset rather than
// failing the caller.
var helsinkiLocation = loadHelsinki()

func loadHelsinki() *time.Location {
	loc, err := time.LoadLocation("Europe/Helsinki")
	if err != nil {
		return time.FixedZone("EET", 2*60*60)
	}
	return loc
}

// reengage is subroutine B (spec.md §4.5), fired when a ticket's
// support_issue is already set. Only cant_find_product_or_drop_or_dead_drop
// is handled; every other categorized ticket reaching this point is a
// no-op (it was already closed or is awaiting a human in its group).
func reengage(ctx context.Context, deps Deps, ticket *store.SupportTicket) error {
	if ticket.SupportIssue == nil || *ticket.SupportIssue != "cant_find_product_or_drop_or_dead_drop" {
		return nil
	}

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

	if anyMedia(unread) {
		return courierReplyAndEscalate(ctx, deps, ticket)
	}

	texts := messageTexts(unread)
	verdict := deps.Classifier.Classify(ctx, "complaint_resolved", classifier.ComplaintResolvedPrompt(texts))
	if classifier.IsComplaint(verdict) {
		return courierReplyAndEscalate(ctx, deps, ticket)
	}

	if _, err := deps.Bot.SendText(ctx, ticket.UserID, thumbsUp); err != nil {
		return err
	}
	return deps.Store.CloseTicket(ctx, ticket.ID)
}

// courierReplyAndEscalate sends the "will check with couriers" reply
// (with a late/early-hours caveat when applicable) and escalates, per
// spec.md §4.5 subroutine B steps 2-3.
func courierReplyAndEscalate(ctx context.Context, deps Deps, ticket *store.SupportTicket) error {
	text := localize(lang(ticket), courierCheckTemplate)
	if isLateOrEarlyHelsinki(time.Now()) {
		text += "\n\n" + localize(lang(ticket), lateHoursCaveat)
	}
	if _, err := deps.Bot.SendText(ctx, ticket.UserID, text); err != nil {
		return err
	}
	return deps.Escalator.Escalate(ctx, ticket.UserID, ticket)
}

// isLateOrEarlyHelsinki reports whether t, converted to Europe/Helsinki
// local time, falls in [22:00,24:00) ∪ [00:00,07:00) (spec.md §4.5
// subroutine B step 2).
func isLateOrEarlyHelsinki(t time.Time) bool {
	hour := t.In(helsinkiLocation).Hour()
	return hour >= 22 || hour < 7
}
