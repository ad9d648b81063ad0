package service

import (
	"context"
	"strings"
	"time"

	"quill/internal/models"
	"quill/internal/repository"
)

const maxPostLen = 10000

// ErrNotOwner is returned when someone other than the author submits an edit.
// Handlers map it to a redirect to the post's detail page, not an error page.
var ErrNotOwner = models.NewForbiddenError("only the author may edit a post")

// PostService validates and persists post creation and editing.
type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
}

// CreatePostInput is the raw form payload for the create flow.
type CreatePostInput struct {
	UserID  uint
	Text    string
	GroupID *uint
	Image   string
}

// EditPostInput is the raw form payload for the edit flow. Text, GroupID, and
// Image carry the full new state of the mutable fields.
type EditPostInput struct {
	UserID  uint
	PostID  uint
	Text    string
	GroupID *uint
	Image   string
}

// NewPostService creates a new post service.
func NewPostService(postRepo repository.PostRepository, groupRepo repository.GroupRepository) *PostService {
	return &PostService{postRepo: postRepo, groupRepo: groupRepo}
}

// Create validates the input and persists a new post owned by the caller.
// Nothing is written when validation fails.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	text, err := s.validate(ctx, in.Text, in.GroupID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:    text,
		PubDate: time.Now().UTC(),
		UserID:  in.UserID,
		GroupID: in.GroupID,
		Image:   in.Image,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// Edit applies new text/group/image to an existing post. Only the author may
// edit; the author and publication date never change. Replaying the same
// valid submission leaves the stored state unchanged.
func (s *PostService) Edit(ctx context.Context, in EditPostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if post.UserID != in.UserID {
		return nil, ErrNotOwner
	}

	text, err := s.validate(ctx, in.Text, in.GroupID)
	if err != nil {
		return nil, err
	}

	post.Text = text
	post.GroupID = in.GroupID
	post.Group = nil
	post.Image = in.Image

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// validate checks the shared field constraints of create and edit, returning
// the normalized text or a field-level validation failure.
func (s *PostService) validate(ctx context.Context, text string, groupID *uint) (string, error) {
	fields := map[string]string{}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		fields["text"] = "Text is required"
	} else if len(trimmed) > maxPostLen {
		fields["text"] = "Text too long (max 10000 characters)"
	}

	if groupID != nil {
		if _, err := s.groupRepo.GetByID(ctx, *groupID); err != nil {
			var appErr *models.AppError
			if asAppError(err, &appErr) && appErr.Code == models.CodeNotFound {
				fields["group"] = "Unknown group"
			} else {
				return "", err
			}
		}
	}

	if len(fields) > 0 {
		return "", models.NewFieldValidationError(fields)
	}
	return trimmed, nil
}
