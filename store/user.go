package store

import "context"

// User is an end-user identity known to the support bot.
type User struct {
	Handle    string   `db:"handle"` // platform @username, may be empty
	FirstName string   `db:"first_name"`
	LastName  string   `db:"last_name"`
	Roles     []string `db:"-"`
	ID        int64    `db:"id"` // platform user_id
	CreatedTs int64    `db:"created_ts"`
	UpdatedTs int64    `db:"updated_ts"`
}

// FullName joins first and last name the way the dossier renders it.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}

// FindUser selects a single user by platform id.
type FindUser struct {
	ID *int64
}

// UpsertUser creates the user row if absent, otherwise updates its display
// fields and bumps UpdatedTs.
type UpsertUser struct {
	ID        int64
	Handle    string
	FirstName string
	LastName  string
}

func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	u, err := s.driver.GetUser(ctx, id)
	return u, wrapStorageErr("GetUser", err)
}

func (s *Store) UpsertUser(ctx context.Context, upsert *UpsertUser) (*User, error) {
	u, err := s.driver.UpsertUser(ctx, upsert)
	return u, wrapStorageErr("UpsertUser", err)
}
