package models

import (
	"time"

	"github.com/google/uuid"
)

// Task is a unit of work assigned to a user, optionally under a project.
// Title is normalized to uppercase and must be unique at creation.
type Task struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       Status     `json:"status"`
	AssignedTo   uuid.UUID  `json:"assignedTo"`
	AssignedDate time.Time  `json:"assignedDate"`
	DueTime      time.Time  `json:"dueTime"`
	Project      *uuid.UUID `json:"project,omitempty"`
	StartTime    *time.Time `json:"startTime,omitempty"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	CreatedBy    uuid.UUID  `json:"createdBy"`
	ChangesBy    *uuid.UUID `json:"changesBy,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
