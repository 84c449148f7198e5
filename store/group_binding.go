package store

import "context"

// OperatorGroupBinding maps a user to the persistent operator group created
// on their behalf, per spec.md §3.
type OperatorGroupBinding struct {
	CreatedBy string `db:"created_by"` // worker identity name
	UserID    int64  `db:"user_id"`
	GroupID   int64  `db:"group_id"` // negated per platform convention
	CreatedTs int64  `db:"created_ts"`
}

func (s *Store) UpsertGroupBinding(ctx context.Context, userID, groupID int64, createdBy string) error {
	return wrapStorageErr("UpsertGroupBinding", s.driver.UpsertGroupBinding(ctx, userID, groupID, createdBy))
}

func (s *Store) GetGroupBinding(ctx context.Context, userID int64) (*OperatorGroupBinding, error) {
	b, err := s.driver.GetGroupBinding(ctx, userID)
	return b, wrapStorageErr("GetGroupBinding", err)
}

func (s *Store) DeleteGroupBinding(ctx context.Context, userID int64) error {
	return wrapStorageErr("DeleteGroupBinding", s.driver.DeleteGroupBinding(ctx, userID))
}

// CountGroupsCreatedBy is an advisory (best-effort) count used for
// per-identity capacity planning, not a hard invariant (spec.md §5).
func (s *Store) CountGroupsCreatedBy(ctx context.Context, workerIdentity string) (int, error) {
	n, err := s.driver.CountGroupsCreatedBy(ctx, workerIdentity)
	return n, wrapStorageErr("CountGroupsCreatedBy", err)
}

// GetAllGroupBindings is used by the janitor's daily sweep (spec.md §4.7).
func (s *Store) GetAllGroupBindings(ctx context.Context) ([]*OperatorGroupBinding, error) {
	bindings, err := s.driver.GetAllGroupBindings(ctx)
	return bindings, wrapStorageErr("GetAllGroupBindings", err)
}

// GetLatestTicketCreatedTs returns the creation timestamp of the user's most
// recent ticket (any status), or zero if the user has none, for the
// janitor's 5-day idle check.
func (s *Store) GetLatestTicketCreatedTs(ctx context.Context, userID int64) (int64, bool, error) {
	ts, ok, err := s.driver.GetLatestTicketCreatedTs(ctx, userID)
	return ts, ok, wrapStorageErr("GetLatestTicketCreatedTs", err)
}

// HasOpenTicket reports whether the user currently has a closed=false ticket.
func (s *Store) HasOpenTicket(ctx context.Context, userID int64) (bool, error) {
	ok, err := s.driver.HasOpenTicket(ctx, userID)
	return ok, wrapStorageErr("HasOpenTicket", err)
}
