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

// ProjectRepository defines the interface for project data access.
// Team membership rows live alongside the project and are written
// atomically with it.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListAll(ctx context.Context) ([]*models.Project, error)
	// ListForUser returns projects where the user is the manager or a member.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	// CountByMember returns the number of projects the user is a member of.
	CountByMember(ctx context.Context, userID uuid.UUID) (int, error)
	// MemberProjectIDs returns ids of projects the user is a member of.
	MemberProjectIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type projectRepository struct {
	db *database.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *database.DB) ProjectRepository {
	return &projectRepository{db: db}
}

const projectSelect = `
	SELECT p.id, p.title, p.description, p.start_date, p.end_date, p.status,
	       p.project_manager, p.created_at, p.updated_at,
	       COALESCE(array_agg(pm.user_id) FILTER (WHERE pm.user_id IS NOT NULL), '{}')
	FROM projects p
	LEFT JOIN project_members pm ON pm.project_id = p.id`

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.StartDate,
		&p.EndDate,
		&p.Status,
		&p.ProjectManager,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.TeamMembers,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	return &p, nil
}

// Create inserts a project and its membership rows in one transaction.
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO projects (id, title, description, start_date, end_date, status, project_manager, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		project.ID,
		project.Title,
		project.Description,
		project.StartDate,
		project.EndDate,
		project.Status,
		project.ProjectManager,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	for _, memberID := range project.TeamMembers {
		if _, err := tx.Exec(ctx, `
			INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`,
			project.ID, memberID,
		); err != nil {
			return fmt.Errorf("failed to add project member: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a project with its member list.
func (r *projectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := projectSelect + ` WHERE p.id = $1 GROUP BY p.id`
	return scanProject(r.db.QueryRow(ctx, query, id))
}

// ListAll retrieves every project.
func (r *projectRepository) ListAll(ctx context.Context) ([]*models.Project, error) {
	query := projectSelect + ` GROUP BY p.id ORDER BY p.created_at`
	return r.queryProjects(ctx, query)
}

// ListForUser retrieves projects managed by or including the user.
func (r *projectRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Project, error) {
	query := projectSelect + `
		WHERE p.project_manager = $1
		   OR p.id IN (SELECT project_id FROM project_members WHERE user_id = $1)
		GROUP BY p.id ORDER BY p.created_at`
	return r.queryProjects(ctx, query, userID)
}

func (r *projectRepository) queryProjects(ctx context.Context, query string, args ...interface{}) ([]*models.Project, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, nil
}

// Update replaces the project row and rewrites its membership set.
func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	result, err := tx.Exec(ctx, `
		UPDATE projects
		SET title = $1, description = $2, start_date = $3, end_date = $4,
		    status = $5, project_manager = $6, updated_at = $7
		WHERE id = $8`,
		project.Title,
		project.Description,
		project.StartDate,
		project.EndDate,
		project.Status,
		project.ProjectManager,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM project_members WHERE project_id = $1`, project.ID); err != nil {
		return fmt.Errorf("failed to clear project members: %w", err)
	}
	for _, memberID := range project.TeamMembers {
		if _, err := tx.Exec(ctx, `
			INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`,
			project.ID, memberID,
		); err != nil {
			return fmt.Errorf("failed to add project member: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes a project by id. Membership rows cascade.
func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Count returns the total number of projects.
func (r *projectRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}

// CountByMember returns the number of projects the user is a member of.
func (r *projectRepository) CountByMember(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM project_members WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count member projects: %w", err)
	}
	return count, nil
}

// MemberProjectIDs returns ids of projects the user is a member of.
func (r *projectRepository) MemberProjectIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT project_id FROM project_members WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list member projects: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan project id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project ids: %w", err)
	}
	return ids, nil
}

// Ensure projectRepository implements ProjectRepository at compile time.
var _ ProjectRepository = (*projectRepository)(nil)
