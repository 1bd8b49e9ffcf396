package models

import (
	"time"

	"github.com/google/uuid"
)

// PendingTask is a derived marker referencing a task that is still open.
// Created lazily when listing today's tasks, never directly by users.
type PendingTask struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task"`
	CreatedAt time.Time `json:"createdAt"`
}

// CompletedTask is a derived marker recording a completion event.
// One record is appended per complete() call.
type CompletedTask struct {
	ID          uuid.UUID `json:"id"`
	TaskID      uuid.UUID `json:"task"`
	CompletedBy uuid.UUID `json:"completedBy"`
	CompletedAt time.Time `json:"completedDate"`
}
