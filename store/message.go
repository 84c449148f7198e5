package store

import "context"

// SupportMessage is one user utterance within a SupportTicket, per spec.md §3.
type SupportMessage struct {
	UserText  string `db:"user_text"` // raw text, or a bracketed placeholder like "(photo)"
	ID        int64  `db:"id"`
	TicketID  int64  `db:"ticket_id"`
	UserID    int64  `db:"user_id"`
	MessageID int64  `db:"message_id"` // platform-assigned message id
	CreatedTs int64  `db:"created_ts"`
	Replied   bool   `db:"replied"`
	IsDeleted bool   `db:"is_deleted"`
}

// AppendUserMessage atomically finds-or-creates the user's open ticket and
// inserts a SupportMessage into it (spec.md §4.1, §8 invariant: the newest
// message's ticket_id equals the unique open ticket's id).
func (s *Store) AppendUserMessage(ctx context.Context, userID int64, messageID int64, text string, replied bool) (*SupportMessage, error) {
	msg, err := s.driver.AppendUserMessage(ctx, userID, messageID, text, replied)
	return msg, wrapStorageErr("AppendUserMessage", err)
}

func (s *Store) MarkMessageDeleted(ctx context.Context, id int64) error {
	return wrapStorageErr("MarkMessageDeleted", s.driver.MarkMessageDeleted(ctx, id))
}

// UpdateEditedMessage succeeds only while the target message has
// replied=false (spec.md §8 invariant); otherwise it is a no-op and the
// caller is expected to send an "(EDITED MESSAGE)" notice instead.
func (s *Store) UpdateEditedMessage(ctx context.Context, userID, messageID int64, newText string) (bool, error) {
	ok, err := s.driver.UpdateEditedMessage(ctx, userID, messageID, newText)
	return ok, wrapStorageErr("UpdateEditedMessage", err)
}

// GetMessageByPlatformID looks up a stored message by the user and the
// platform's message id, used by the ingress middleware to locate the row
// an edit or operator reply refers to.
func (s *Store) GetMessageByPlatformID(ctx context.Context, userID, messageID int64) (*SupportMessage, error) {
	msg, err := s.driver.GetMessageByPlatformID(ctx, userID, messageID)
	return msg, wrapStorageErr("GetMessageByPlatformID", err)
}
