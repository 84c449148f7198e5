package store

import "context"

// SupportTicket is a conversation episode for one user, per spec.md §3.
type SupportTicket struct {
	SupportIssue      *string `db:"support_issue"` // category tag, set together with Lang
	Lang              *string `db:"lang"`           // 2-3 char language code
	Messages          []*SupportMessage `db:"-"`
	ID                int64 `db:"id"`
	UserID            int64 `db:"user_id"`
	CreatedTs         int64 `db:"created_ts"`
	Closed            bool  `db:"closed"`
	MessagesForwarded bool  `db:"messages_forwarded"`
}

// Categorized reports whether the engine has already classified this ticket
// (spec.md §4.5: support_issue IS NULL selects subroutine A, else B).
func (t *SupportTicket) Categorized() bool {
	return t.SupportIssue != nil
}

// LatestMessage returns the ticket's newest message ordered by platform
// message_id, or nil if the ticket has no messages.
func (t *SupportTicket) LatestMessage() *SupportMessage {
	if len(t.Messages) == 0 {
		return nil
	}
	return t.Messages[len(t.Messages)-1]
}

// TicketFilter selects tickets for GetActiveTickets (spec.md §4.1).
type TicketFilter struct {
	UserID          *int64
	UnforwardedOnly bool
	OnlyOpen        bool
}

func (s *Store) GetActiveTickets(ctx context.Context, filter *TicketFilter) ([]*SupportTicket, error) {
	tickets, err := s.driver.GetActiveTickets(ctx, filter)
	return tickets, wrapStorageErr("GetActiveTickets", err)
}

func (s *Store) GetTicket(ctx context.Context, ticketID int64) (*SupportTicket, error) {
	t, err := s.driver.GetTicket(ctx, ticketID)
	return t, wrapStorageErr("GetTicket", err)
}

// SetLangAndCategory persists (support_issue, lang) exactly once per ticket
// (spec.md invariant: NULL -> validated pair, never again).
func (s *Store) SetLangAndCategory(ctx context.Context, ticketID int64, category, lang string) error {
	return wrapStorageErr("SetLangAndCategory", s.driver.SetLangAndCategory(ctx, ticketID, category, lang))
}

func (s *Store) MarkMessagesReplied(ctx context.Context, ticketID int64) error {
	return wrapStorageErr("MarkMessagesReplied", s.driver.MarkMessagesReplied(ctx, ticketID))
}

func (s *Store) CloseTicket(ctx context.Context, ticketID int64) error {
	return wrapStorageErr("CloseTicket", s.driver.CloseTicket(ctx, ticketID))
}

// SetMessagesForwarded is monotonic: once true it must never transition
// back to false (spec.md §8 invariant).
func (s *Store) SetMessagesForwarded(ctx context.Context, ticketID int64) error {
	return wrapStorageErr("SetMessagesForwarded", s.driver.SetMessagesForwarded(ctx, ticketID))
}

// GetPreviousCategoryKey returns the category of the user's second-most-recent
// ticket, used by the anti-loop suppression rule (spec.md §4.5 step 6).
func (s *Store) GetPreviousCategoryKey(ctx context.Context, userID int64) (string, error) {
	cat, err := s.driver.GetPreviousCategoryKey(ctx, userID)
	return cat, wrapStorageErr("GetPreviousCategoryKey", err)
}
