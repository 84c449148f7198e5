package engine

import (
	"context"

	"github.com/narvesen/supportbot/store"
)

// Handler is the typed registry entry spec.md §9 asks for in place of
// "dynamic dispatch via callables stored in a map": pure data plus one
// method, conforming to a common interface.
type Handler interface {
	Handle(ctx context.Context, deps Deps, ticket *store.SupportTicket) error
}

// actionKind distinguishes a template reply from the single "escalate"
// sentinel the engine resolves directly (spec.md §9's cyclic-dependency
// rewrite rule: handlers never call escalation themselves).
type actionKind int

const (
	actionTemplate actionKind = iota
	actionEscalate
)

type dispatchEntry struct {
	handler Handler
	kind    actionKind
}

// dispatchTable is the single declarative map[category]action built once
// at startup from spec.md §4.5's table, validated by validateDispatchTable
// so a missing category fails fast instead of silently falling through.
var dispatchTable = map[string]dispatchEntry{
	"cant_find_product_or_drop_or_dead_drop":  {kind: actionTemplate, handler: gatherInfoHandler{}},
	"dont_know_how_to_pay":                    {kind: actionTemplate, handler: templateHandler{category: "dont_know_how_to_pay"}},
	"restock_request_for_product_or_location": {kind: actionTemplate, handler: templateHandler{category: "restock_request_for_product_or_location"}},
	"is_product_still_available":              {kind: actionTemplate, handler: templateHandler{category: "is_product_still_available"}},
	"what_is_usual_product_arrival_time":      {kind: actionTemplate, handler: templateHandler{category: "what_is_usual_product_arrival_time"}},
	"user_says_thanks":                        {kind: actionTemplate, handler: thanksHandler{}},
	"issue_resolved_by_user":                  {kind: actionTemplate, handler: thanksHandler{}},
	"ok":                                      {kind: actionTemplate, handler: thanksHandler{}},
	"wrong_drop_info":                         {kind: actionEscalate},
	"payment_sent_but_no_drop":                {kind: actionEscalate},
	"less_product_received":                   {kind: actionEscalate},
	"kladmen_or_packaging_complaint":           {kind: actionEscalate},
	"bot_banned_or_deleted":                   {kind: actionEscalate},
	"opinion_or_info_question":                {kind: actionEscalate},
	"closest_drop_to_x":                       {kind: actionEscalate},
	"other":                                   {kind: actionEscalate},
}

// suppressible reports whether category is subject to the anti-loop
// suppression rule (spec.md §4.5 step 6): template-only categories, i.e.
// not an escalation category and not the proof-gathering category which
// stays open for subroutine B.
func suppressible(category string) bool {
	entry, ok := dispatchTable[category]
	if !ok || entry.kind != actionTemplate {
		return false
	}
	return category != "cant_find_product_or_drop_or_dead_drop"
}

func init() {
	validateDispatchTable()
}

// knownCategories lists every category spec.md §4.5's table names, used to
// validate the dispatch table is complete at startup.
var knownCategories = []string{
	"cant_find_product_or_drop_or_dead_drop",
	"dont_know_how_to_pay",
	"restock_request_for_product_or_location",
	"is_product_still_available",
	"what_is_usual_product_arrival_time",
	"user_says_thanks",
	"issue_resolved_by_user",
	"ok",
	"wrong_drop_info",
	"payment_sent_but_no_drop",
	"less_product_received",
	"kladmen_or_packaging_complaint",
	"bot_banned_or_deleted",
	"opinion_or_info_question",
	"closest_drop_to_x",
	"other",
}

// validateDispatchTable panics at startup if any known category from
// spec.md §4.5 has no dispatch entry (spec.md §9: "a single declarative
// configuration, validated at startup").
func validateDispatchTable() {
	for _, c := range knownCategories {
		if _, ok := dispatchTable[c]; !ok {
			panic("engine: dispatch table missing entry for category " + c)
		}
	}
}

// templateHandler sends a single localized reply and closes the ticket —
// the default "T" shape from spec.md §4.5's dispatch table intro.
type templateHandler struct {
	category string
}

func (h templateHandler) Handle(ctx context.Context, deps Deps, ticket *store.SupportTicket) error {
	text := localize(lang(ticket), templateReplies[h.category])
	if _, err := deps.Bot.SendText(ctx, ticket.UserID, text); err != nil {
		return err
	}
	return deps.Store.CloseTicket(ctx, ticket.ID)
}

// thanksHandler handles user_says_thanks/issue_resolved_by_user/ok: send a
// thumbs-up and close (spec.md §4.5 dispatch table).
type thanksHandler struct{}

func (thanksHandler) Handle(ctx context.Context, deps Deps, ticket *store.SupportTicket) error {
	if _, err := deps.Bot.SendText(ctx, ticket.UserID, thumbsUp); err != nil {
		return err
	}
	return deps.Store.CloseTicket(ctx, ticket.ID)
}

// gatherInfoHandler sends the 3-message scripted template for
// cant_find_product_or_drop_or_dead_drop and leaves the ticket open so a
// later media message can trigger subroutine B's re-engage path (spec.md
// §8 scenario 1/2).
type gatherInfoHandler struct{}

func (gatherInfoHandler) Handle(ctx context.Context, deps Deps, ticket *store.SupportTicket) error {
	messages := gatherInfoTemplate[lang(ticket)]
	if messages == [3]string{} {
		messages = gatherInfoTemplate["eng"]
	}
	for _, text := range messages {
		if _, err := deps.Bot.SendText(ctx, ticket.UserID, text); err != nil {
			return err
		}
	}
	return nil
}

func lang(ticket *store.SupportTicket) string {
	if ticket.Lang == nil {
		return "other"
	}
	return *ticket.Lang
}
