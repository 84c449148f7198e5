package store

// Role is a label attachable to users (roles / user_roles many-to-many,
// spec.md §3), rendered in the dossier's "list of roles" field.
type Role struct {
	Name string
	ID   int64
}
