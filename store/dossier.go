package store

import "context"

// DropStatus is the status of a drop record consulted for the dossier
// (spec.md §4.6.1); these tables (drops, cities, products, redrop_reason)
// are read-only from this system's point of view.
type DropStatus string

const (
	DropStatusPaid        DropStatus = "paid"
	DropStatusLost        DropStatus = "lost"
	DropStatusRedrop      DropStatus = "redrop"
	DropStatusAngryRedrop DropStatus = "angry_redrop"
)

// Drop is one row of the dossier's drop-summary table.
type Drop struct {
	Area        string     `db:"area"`    // city name, joined from cities
	ProductName string     `db:"product"` // joined from products, feeds the "P" emoji column
	Amount      string     `db:"amount"`
	Status      DropStatus `db:"status"`
	ID          int64      `db:"id"`
	CreatedTs   int64      `db:"created_ts"`
	Lost        bool       `db:"lost"`
}

// UserDossierData bundles everything GetUserAndDrops needs to render
// spec.md §4.6.1: user handle/name/roles/first-last interaction
// timestamps, plus the filtered drop rows.
type UserDossierData struct {
	User        *User
	Drops       []*Drop
	FirstSeenTs int64
	LastSeenTs  int64
}

// GetUserAndDrops resolves the business records used to render the
// escalation dossier, filtered to the requested statuses and ordered per
// orderBy (spec.md §4.1).
func (s *Store) GetUserAndDrops(ctx context.Context, userID int64, statuses []DropStatus, orderBy string) (*UserDossierData, error) {
	data, err := s.driver.GetUserAndDrops(ctx, userID, statuses, orderBy)
	return data, wrapStorageErr("GetUserAndDrops", err)
}
