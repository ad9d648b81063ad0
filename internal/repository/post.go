package repository

import (
	"context"

	"quill/internal/models"

	"gorm.io/gorm"
)

// feedOrder is the default read order across all feeds. The id tiebreak keeps
// pagination deterministic for posts sharing a publication timestamp.
const feedOrder = "pub_date DESC, id DESC"

// PostRepository defines the interface for post data operations. Eager loading
// of author and group is explicit at each call site; nothing here traverses
// relationships lazily.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	CountAll(ctx context.Context) (int64, error)
	ListByGroupID(ctx context.Context, groupID uint, limit, offset int) ([]*models.Post, error)
	CountByGroupID(ctx context.Context, groupID uint) (int64, error)
	ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
	Update(ctx context.Context, post *models.Post) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Group").
		First(&post, id).Error
	if err != nil {
		return nil, translate(err, "post", id, "")
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Group").
		Order(feedOrder).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error
	return count, err
}

func (r *postRepository) ListByGroupID(ctx context.Context, groupID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Group").
		Where("group_id = ?", groupID).
		Order(feedOrder).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountByGroupID(ctx context.Context, groupID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count, err
}

func (r *postRepository) ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Group").
		Where("user_id = ?", userID).
		Order(feedOrder).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Update persists all fields of the post. Callers are responsible for only
// changing the mutable ones (text, group, image).
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}
