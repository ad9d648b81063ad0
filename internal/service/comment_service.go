package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"quill/internal/models"
	"quill/internal/repository"
)

const maxCommentLen = 10000

// CommentService validates and persists comment creation.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// AddCommentInput is the raw form payload for the add-comment flow.
type AddCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

// NewCommentService creates a new comment service.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// Add attaches a new comment to an existing post. The post must resolve;
// empty text creates nothing.
func (s *CommentService) Add(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewFieldValidationError(map[string]string{"text": "Text is required"})
	}
	if len(text) > maxCommentLen {
		return nil, models.NewFieldValidationError(map[string]string{"text": "Comment too long (max 10000 characters)"})
	}

	comment := &models.Comment{
		Text:    text,
		UserID:  in.UserID,
		PostID:  in.PostID,
		Created: time.Now().UTC(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// asAppError is a small errors.As wrapper shared by the services.
func asAppError(err error, target **models.AppError) bool {
	return errors.As(err, target)
}
