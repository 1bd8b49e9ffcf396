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

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListAll(ctx context.Context) ([]*models.Comment, error)
	ListByAuthor(ctx context.Context, userID uuid.UUID) ([]*models.Comment, error)
	ListByTaskIDs(ctx context.Context, taskIDs []uuid.UUID) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByAuthor(ctx context.Context, userID uuid.UUID) (int, error)
}

type commentRepository struct {
	db *database.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *database.DB) CommentRepository {
	return &commentRepository{db: db}
}

const commentColumns = `id, content, task_id, comment_by, created_at, updated_at`

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.Content, &c.TaskID, &c.CommentBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan comment: %w", err)
	}
	return &c, nil
}

// Create inserts a new comment.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO comments (id, content, task_id, comment_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		comment.ID,
		comment.Content,
		comment.TaskID,
		comment.CommentBy,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by id.
func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	return scanComment(r.db.QueryRow(ctx, query, id))
}

// ListAll retrieves every comment.
func (r *commentRepository) ListAll(ctx context.Context) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments ORDER BY created_at`
	return r.queryComments(ctx, query)
}

// ListByAuthor retrieves comments written by the user.
func (r *commentRepository) ListByAuthor(ctx context.Context, userID uuid.UUID) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE comment_by = $1 ORDER BY created_at`
	return r.queryComments(ctx, query, userID)
}

// ListByTaskIDs retrieves comments on any of the given tasks.
func (r *commentRepository) ListByTaskIDs(ctx context.Context, taskIDs []uuid.UUID) ([]*models.Comment, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + commentColumns + ` FROM comments WHERE task_id = ANY($1) ORDER BY created_at`
	return r.queryComments(ctx, query, taskIDs)
}

func (r *commentRepository) queryComments(ctx context.Context, query string, args ...interface{}) ([]*models.Comment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}

// Update replaces a comment's content and task reference.
func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	comment.UpdatedAt = time.Now()

	result, err := r.db.Exec(ctx, `
		UPDATE comments SET content = $1, task_id = $2, updated_at = $3 WHERE id = $4`,
		comment.Content,
		comment.TaskID,
		comment.UpdatedAt,
		comment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes a comment by id. Replies cascade.
func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountByAuthor returns the number of comments written by the user.
func (r *commentRepository) CountByAuthor(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM comments WHERE comment_by = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}

// Ensure commentRepository implements CommentRepository at compile time.
var _ CommentRepository = (*commentRepository)(nil)
