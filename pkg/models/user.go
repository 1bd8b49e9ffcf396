package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user's fixed role. Permissions derive solely from it.
type Role string

const (
	RoleAdmin          Role = "Admin"
	RoleProjectManager Role = "Project Manager"
	RoleTeamMember     Role = "Team Member"
)

// ValidRoles contains all valid role values.
var ValidRoles = []Role{RoleAdmin, RoleProjectManager, RoleTeamMember}

// IsValidRole checks if the given role is valid.
func IsValidRole(role Role) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User is an account in the system. PasswordHash and RefreshToken are never
// serialized; encoding a User is already the sanitized view.
type User struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"` // stored lowercase, unique
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
