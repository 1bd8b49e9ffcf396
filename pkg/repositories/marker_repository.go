package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive-inc/taskhive/pkg/database"
	"github.com/taskhive-inc/taskhive/pkg/models"
)

// MarkerRepository persists the derived pending/completed task markers.
// Markers are only ever written as side effects of task lifecycle
// transitions; no user-facing operation creates them directly.
type MarkerRepository interface {
	CreatePending(ctx context.Context, taskID uuid.UUID) error
	PendingExists(ctx context.Context, taskID uuid.UUID) (bool, error)
	ListPendingByTaskIDs(ctx context.Context, taskIDs []uuid.UUID) ([]*models.PendingTask, error)
	CreateCompleted(ctx context.Context, marker *models.CompletedTask) error
	ListCompletedByTaskIDs(ctx context.Context, taskIDs []uuid.UUID) ([]*models.CompletedTask, error)
}

type markerRepository struct {
	db *database.DB
}

// NewMarkerRepository creates a new marker repository.
func NewMarkerRepository(db *database.DB) MarkerRepository {
	return &markerRepository{db: db}
}

// CreatePending inserts a pending marker for the task.
func (r *markerRepository) CreatePending(ctx context.Context, taskID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO pending_tasks (id, task_id, created_at) VALUES ($1, $2, $3)`,
		uuid.New(), taskID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to create pending marker: %w", err)
	}
	return nil
}

// PendingExists reports whether the task already has a pending marker.
func (r *markerRepository) PendingExists(ctx context.Context, taskID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM pending_tasks WHERE task_id = $1)`, taskID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending marker: %w", err)
	}
	return exists, nil
}

// ListPendingByTaskIDs returns pending markers for any of the given tasks.
func (r *markerRepository) ListPendingByTaskIDs(ctx context.Context, taskIDs []uuid.UUID) ([]*models.PendingTask, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, task_id, created_at FROM pending_tasks WHERE task_id = ANY($1) ORDER BY created_at`,
		taskIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending markers: %w", err)
	}
	defer rows.Close()

	var markers []*models.PendingTask
	for rows.Next() {
		var m models.PendingTask
		if err := rows.Scan(&m.ID, &m.TaskID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending marker: %w", err)
		}
		markers = append(markers, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending markers: %w", err)
	}
	return markers, nil
}

// CreateCompleted appends a completion marker. No de-duplication: each
// complete() call records its own event.
func (r *markerRepository) CreateCompleted(ctx context.Context, marker *models.CompletedTask) error {
	if marker.ID == uuid.Nil {
		marker.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO completed_tasks (id, task_id, completed_by, completed_at) VALUES ($1, $2, $3, $4)`,
		marker.ID, marker.TaskID, marker.CompletedBy, marker.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to create completed marker: %w", err)
	}
	return nil
}

// ListCompletedByTaskIDs returns completion markers for any of the given tasks.
func (r *markerRepository) ListCompletedByTaskIDs(ctx context.Context, taskIDs []uuid.UUID) ([]*models.CompletedTask, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, task_id, completed_by, completed_at FROM completed_tasks
		 WHERE task_id = ANY($1) ORDER BY completed_at`,
		taskIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed markers: %w", err)
	}
	defer rows.Close()

	var markers []*models.CompletedTask
	for rows.Next() {
		var m models.CompletedTask
		if err := rows.Scan(&m.ID, &m.TaskID, &m.CompletedBy, &m.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan completed marker: %w", err)
		}
		markers = append(markers, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completed markers: %w", err)
	}
	return markers, nil
}

// Ensure markerRepository implements MarkerRepository at compile time.
var _ MarkerRepository = (*markerRepository)(nil)
