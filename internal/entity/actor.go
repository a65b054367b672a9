package entity

import "github.com/google/uuid"

// Actor is the authenticated caller of a core operation.
type Actor struct {
	UserID      uuid.UUID
	Role        string
	IsSuperuser bool
}

// IsAdmin is the single capability check used by moderation and admin routes.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin || a.IsSuperuser
}

func (a Actor) IsDesigner() bool {
	return a.Role == RoleDesigner
}

func (a Actor) IsCustomer() bool {
	return a.Role == RoleCustomer
}
