package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-inc/taskhive/pkg/apperrors"
	"github.com/taskhive-inc/taskhive/pkg/authz"
	"github.com/taskhive-inc/taskhive/pkg/models"
	"github.com/taskhive-inc/taskhive/pkg/repositories"
)

// CreateReplyInput carries the fields for a reply. ParentReplyID is set
// when replying to another reply instead of the comment itself.
type CreateReplyInput struct {
	Reply         string
	CommentID     uuid.UUID
	ParentReplyID *uuid.UUID
}

// ReplyService defines the interface for reply operations.
type ReplyService interface {
	Create(ctx context.Context, actor *models.User, input CreateReplyInput) (*models.Reply, error)
	ListByComment(ctx context.Context, actor *models.User, commentID uuid.UUID) ([]*models.Reply, error)
}

type replyService struct {
	replyRepo   repositories.ReplyRepository
	commentRepo repositories.CommentRepository
	logger      *zap.Logger
}

// NewReplyService creates a new reply service with dependencies.
func NewReplyService(replyRepo repositories.ReplyRepository, commentRepo repositories.CommentRepository, logger *zap.Logger) ReplyService {
	return &replyService{
		replyRepo:   replyRepo,
		commentRepo: commentRepo,
		logger:      logger,
	}
}

// Create adds a reply under a comment. A parent reply, when given, must
// exist, belong to the same comment, and not be the reply itself.
func (s *replyService) Create(ctx context.Context, actor *models.User, input CreateReplyInput) (*models.Reply, error) {
	if !authz.Can(actor.Role, authz.ActionReplyCreate) {
		return nil, apperrors.ErrForbidden
	}

	input.Reply = strings.TrimSpace(input.Reply)
	if input.Reply == "" {
		return nil, fmt.Errorf("%w: reply is required", apperrors.ErrValidation)
	}
	if _, err := s.commentRepo.GetByID(ctx, input.CommentID); err != nil {
		return nil, fmt.Errorf("%w: comment does not exist", apperrors.ErrValidation)
	}

	reply := &models.Reply{
		ID:            uuid.New(),
		Reply:         input.Reply,
		ReplyBy:       actor.ID,
		CommentID:     input.CommentID,
		ParentReplyID: input.ParentReplyID,
	}

	if input.ParentReplyID != nil {
		if *input.ParentReplyID == reply.ID {
			return nil, fmt.Errorf("%w: a reply cannot reference itself", apperrors.ErrValidation)
		}
		parent, err := s.replyRepo.GetByID(ctx, *input.ParentReplyID)
		if err != nil {
			return nil, fmt.Errorf("%w: parent reply does not exist", apperrors.ErrValidation)
		}
		if parent.CommentID != input.CommentID {
			return nil, fmt.Errorf("%w: parent reply belongs to a different comment", apperrors.ErrValidation)
		}
	}

	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, err
	}

	s.logger.Info("reply created",
		zap.String("reply_id", reply.ID.String()),
		zap.String("comment_id", input.CommentID.String()))
	return reply, nil
}

// ListByComment returns all replies under a comment.
func (s *replyService) ListByComment(ctx context.Context, actor *models.User, commentID uuid.UUID) ([]*models.Reply, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, err
	}

	replies, err := s.replyRepo.ListByComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if len(replies) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return replies, nil
}

// Ensure replyService implements ReplyService at compile time.
var _ ReplyService = (*replyService)(nil)
