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

// ReplyRepository defines the interface for reply data access.
// Replies live in their own collection and may nest via ParentReplyID.
type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Reply, error)
	ListByComment(ctx context.Context, commentID uuid.UUID) ([]*models.Reply, error)
}

type replyRepository struct {
	db *database.DB
}

// NewReplyRepository creates a new reply repository.
func NewReplyRepository(db *database.DB) ReplyRepository {
	return &replyRepository{db: db}
}

// Create inserts a new reply.
func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	if reply.ID == uuid.Nil {
		reply.ID = uuid.New()
	}
	reply.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, `
		INSERT INTO replies (id, reply, reply_by, comment_id, parent_reply_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		reply.ID,
		reply.Reply,
		reply.ReplyBy,
		reply.CommentID,
		reply.ParentReplyID,
		reply.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reply: %w", err)
	}
	return nil
}

// GetByID retrieves a reply by id.
func (r *replyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Reply, error) {
	var reply models.Reply
	err := r.db.QueryRow(ctx, `
		SELECT id, reply, reply_by, comment_id, parent_reply_id, created_at
		FROM replies WHERE id = $1`, id,
	).Scan(&reply.ID, &reply.Reply, &reply.ReplyBy, &reply.CommentID, &reply.ParentReplyID, &reply.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reply: %w", err)
	}
	return &reply, nil
}

// ListByComment retrieves all replies to a comment in creation order.
func (r *replyRepository) ListByComment(ctx context.Context, commentID uuid.UUID) ([]*models.Reply, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, reply, reply_by, comment_id, parent_reply_id, created_at
		FROM replies WHERE comment_id = $1 ORDER BY created_at`, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	defer rows.Close()

	var replies []*models.Reply
	for rows.Next() {
		var reply models.Reply
		if err := rows.Scan(&reply.ID, &reply.Reply, &reply.ReplyBy, &reply.CommentID, &reply.ParentReplyID, &reply.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reply: %w", err)
		}
		replies = append(replies, &reply)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating replies: %w", err)
	}
	return replies, nil
}

// Ensure replyRepository implements ReplyRepository at compile time.
var _ ReplyRepository = (*replyRepository)(nil)
