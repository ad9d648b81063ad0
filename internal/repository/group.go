package repository

import (
	"context"

	"quill/internal/models"

	"gorm.io/gorm"
)

// GroupRepository defines the interface for group data operations. Groups have
// no user-facing write flow; Create and Delete exist for seeding and admin
// tooling.
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uint) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	List(ctx context.Context) ([]*models.Group, error)
	Delete(ctx context.Context, id uint) error
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	err := r.db.WithContext(ctx).Create(group).Error
	return translate(err, "group", group.Slug, "slug")
}

func (r *groupRepository) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, translate(err, "group", id, "")
	}
	return &group, nil
}

func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error
	if err != nil {
		return nil, translate(err, "group", slug, "")
	}
	return &group, nil
}

func (r *groupRepository) List(ctx context.Context) ([]*models.Group, error) {
	var groups []*models.Group
	err := r.db.WithContext(ctx).Order("title").Find(&groups).Error
	return groups, err
}

// Delete removes a group and detaches its posts in one transaction. Posts
// survive with group_id cleared; the detach is explicit so the invariant does
// not depend on driver-level foreign key enforcement.
func (r *groupRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("group_id = ?", id).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Group{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("group", id)
		}
		return nil
	})
}
