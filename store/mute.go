package store

import "context"

// MuteRecord suppresses engine reactions for a user until MutedUntil,
// per spec.md §3.
type MuteRecord struct {
	UserID     int64 `db:"user_id"`
	MutedTs    int64 `db:"muted_ts"`    // unix seconds
	MutedUntil int64 `db:"muted_until"` // unix seconds
}

// UpsertMute creates or refreshes a mute window for userID lasting duration
// seconds from now.
func (s *Store) UpsertMute(ctx context.Context, userID int64, durationSeconds int64) error {
	return wrapStorageErr("UpsertMute", s.driver.UpsertMute(ctx, userID, durationSeconds))
}

// IsMuted reports whether userID is currently muted. A mute row read after
// expiry both returns false and deletes the row (spec.md §8).
func (s *Store) IsMuted(ctx context.Context, userID int64) (bool, error) {
	muted, err := s.driver.IsMuted(ctx, userID)
	return muted, wrapStorageErr("IsMuted", err)
}
