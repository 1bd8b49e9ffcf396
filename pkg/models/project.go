package models

import (
	"time"

	"github.com/google/uuid"
)

// Project groups tasks under a manager and a set of team members.
// Title is normalized to uppercase at write time; EndDate must be after
// StartDate (enforced by the project service, never coerced).
type Project struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	StartDate      time.Time   `json:"startDate"`
	EndDate        time.Time   `json:"endDate"`
	Status         Status      `json:"status"`
	ProjectManager uuid.UUID   `json:"projectManager"`
	TeamMembers    []uuid.UUID `json:"teamMembers"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// HasMember reports whether the given user is one of the team members.
func (p *Project) HasMember(userID uuid.UUID) bool {
	for _, m := range p.TeamMembers {
		if m == userID {
			return true
		}
	}
	return false
}
