package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/taskhive-inc/taskhive/pkg/apperrors"
	"github.com/taskhive-inc/taskhive/pkg/database"
	"github.com/taskhive-inc/taskhive/pkg/models"
)

// TaskRepository defines the interface for task data access.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	GetByTitle(ctx context.Context, title string) (*models.Task, error)
	ListAll(ctx context.Context) ([]*models.Task, error)
	// ListByAssigneeAndDate returns the user's tasks assigned on a calendar day.
	ListByAssigneeAndDate(ctx context.Context, userID uuid.UUID, day time.Time) ([]*models.Task, error)
	ListByProjectIDs(ctx context.Context, projectIDs []uuid.UUID) ([]*models.Task, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	CountByAssignee(ctx context.Context, userID uuid.UUID) (int, error)
	// IDsByAssignee returns ids of tasks assigned to the user.
	IDsByAssignee(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type taskRepository struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *database.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, title, description, status, assigned_to, assigned_date, due_time,
	project_id, start_time, end_time, created_by, changes_by, created_at, updated_at`

func scanTask(row pgx.Row) (*models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.AssignedTo,
		&t.AssignedDate,
		&t.DueTime,
		&t.Project,
		&t.StartTime,
		&t.EndTime,
		&t.CreatedBy,
		&t.ChangesBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}
	return &t, nil
}

// Create inserts a new task. A duplicate title yields apperrors.ErrConflict.
func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	query := `
		INSERT INTO tasks (id, title, description, status, assigned_to, assigned_date, due_time,
			project_id, start_time, end_time, created_by, changes_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.AssignedTo,
		task.AssignedDate,
		task.DueTime,
		task.Project,
		task.StartTime,
		task.EndTime,
		task.CreatedBy,
		task.ChangesBy,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetByID retrieves a task by id.
func (r *taskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.db.QueryRow(ctx, query, id))
}

// GetByTitle retrieves a task by its (uppercase) title.
func (r *taskRepository) GetByTitle(ctx context.Context, title string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE title = $1`
	return scanTask(r.db.QueryRow(ctx, query, title))
}

// ListAll retrieves every task.
func (r *taskRepository) ListAll(ctx context.Context) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at`
	return r.queryTasks(ctx, query)
}

// ListByAssigneeAndDate returns the user's tasks assigned on a calendar day.
// The day is reduced to its date components in the caller's zone before
// binding; letting the DB session zone convert a timestamp would shift
// queries near midnight onto the neighboring day.
func (r *taskRepository) ListByAssigneeAndDate(ctx context.Context, userID uuid.UUID, day time.Time) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE assigned_to = $1 AND assigned_date = $2
		ORDER BY due_time`
	return r.queryTasks(ctx, query, userID, day.Format("2006-01-02"))
}

// ListByProjectIDs returns tasks belonging to any of the given projects.
func (r *taskRepository) ListByProjectIDs(ctx context.Context, projectIDs []uuid.UUID) ([]*models.Task, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ANY($1) ORDER BY created_at`
	return r.queryTasks(ctx, query, projectIDs)
}

// ListByCreator returns tasks created by the user.
func (r *taskRepository) ListByCreator(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE created_by = $1 ORDER BY created_at`
	return r.queryTasks(ctx, query, userID)
}

func (r *taskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]*models.Task, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

// Update replaces the mutable fields of a task.
func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, assigned_to = $4,
		    assigned_date = $5, due_time = $6, project_id = $7,
		    start_time = $8, end_time = $9, changes_by = $10, updated_at = $11
		WHERE id = $12`

	result, err := r.db.Exec(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.AssignedTo,
		task.AssignedDate,
		task.DueTime,
		task.Project,
		task.StartTime,
		task.EndTime,
		task.ChangesBy,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes a task by id.
func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Count returns the total number of tasks.
func (r *taskRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// CountByAssignee returns the number of tasks assigned to the user.
func (r *taskRepository) CountByAssignee(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE assigned_to = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count assigned tasks: %w", err)
	}
	return count, nil
}

// IDsByAssignee returns ids of tasks assigned to the user.
func (r *taskRepository) IDsByAssignee(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM tasks WHERE assigned_to = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan task id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task ids: %w", err)
	}
	return ids, nil
}

// Ensure taskRepository implements TaskRepository at compile time.
var _ TaskRepository = (*taskRepository)(nil)
