package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/taskhive-inc/taskhive/pkg/models"
)

// Task lifecycle transitions are pure functions: they compute the new
// status and any derived marker records, and the task service persists
// both. Keeping them side-effect free makes the transition rules
// testable without a database.

// CompletionResult is the outcome of completing a task: the status to
// store and the completion record to append.
type CompletionResult struct {
	Status models.Status
	Marker *models.CompletedTask
}

// StartTask returns the status a task moves to when started. Starting is
// idempotent on status: repeat calls keep the task In Progress and never
// produce markers.
func StartTask() models.Status {
	return models.StatusInProgress
}

// CompleteTask returns the Completed status together with a completion
// record stamped with the actor and time. Every call yields a fresh
// record, including calls on an already-completed task; the history is
// append-only and duplicates are meaningful completion events.
func CompleteTask(taskID, actorID uuid.UUID, now time.Time) CompletionResult {
	return CompletionResult{
		Status: models.StatusCompleted,
		Marker: &models.CompletedTask{
			ID:          uuid.New(),
			TaskID:      taskID,
			CompletedBy: actorID,
			CompletedAt: now,
		},
	}
}

// PendingMarkerNeeded reports whether a task in the given status should
// carry a pending marker. Only open work (N/A or In Progress) is pending;
// On Hold and Completed tasks are not.
func PendingMarkerNeeded(status models.Status) bool {
	return status == models.StatusNA || status == models.StatusInProgress
}
