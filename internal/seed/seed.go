// Package seed provides database seeding utilities for development and
// demos. Groups only come into being here (or via admin tooling); there is no
// user-facing create flow for them.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"quill/internal/auth"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// DefaultGroups are the topical groups every fresh database starts with.
var DefaultGroups = []models.Group{
	{Title: "Technology", Slug: "technology", Description: "Hardware, software, and everything between."},
	{Title: "Books", Slug: "books", Description: "What we are reading."},
	{Title: "Travel", Slug: "travel", Description: "Places worth writing home about."},
	{Title: "Food", Slug: "food", Description: "Recipes, restaurants, and kitchen failures."},
	{Title: "Music", Slug: "music", Description: "New releases and old favorites."},
}

// Run populates the database with groups, users, posts, and comments.
func Run(ctx context.Context, db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 10
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 50
	}

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return fmt.Errorf("cleaning database: %w", err)
		}
	}

	groupRepo := repository.NewGroupRepository(db)
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	groups, err := seedGroups(ctx, groupRepo)
	if err != nil {
		return err
	}

	users, err := seedUsers(ctx, userRepo, opts.NumUsers)
	if err != nil {
		return err
	}

	posts, err := seedPosts(ctx, postRepo, users, groups, opts.NumPosts)
	if err != nil {
		return err
	}

	if err := seedComments(ctx, commentRepo, users, posts); err != nil {
		return err
	}

	middleware.Logger.Info("Seeding complete",
		slog.Int("groups", len(groups)),
		slog.Int("users", len(users)),
		slog.Int("posts", len(posts)),
	)
	return nil
}

func clean(db *gorm.DB) error {
	// Children before parents.
	for _, table := range []string{"comments", "posts", "groups", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedGroups inserts the default groups. A duplicate slug means the group is
// already there from an earlier run; it is skipped, not treated as fatal.
func seedGroups(ctx context.Context, repo repository.GroupRepository) ([]*models.Group, error) {
	var groups []*models.Group
	for _, g := range DefaultGroups {
		group := g
		if err := repo.Create(ctx, &group); err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == models.CodeUniqueViolation {
				existing, lookupErr := repo.GetBySlug(ctx, group.Slug)
				if lookupErr != nil {
					return nil, lookupErr
				}
				groups = append(groups, existing)
				continue
			}
			return nil, fmt.Errorf("creating group %q: %w", group.Slug, err)
		}
		groups = append(groups, &group)
	}
	return groups, nil
}

func seedUsers(ctx context.Context, repo repository.UserRepository, n int) ([]*models.User, error) {
	hashed, err := auth.HashPassword("password123")
	if err != nil {
		return nil, err
	}

	var users []*models.User
	for i := 0; i < n; i++ {
		user := &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("user%d@%s", i, gofakeit.DomainName()),
			Password: hashed,
		}
		if err := repo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("creating user %q: %w", user.Username, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func seedPosts(ctx context.Context, repo repository.PostRepository, users []*models.User, groups []*models.Group, n int) ([]*models.Post, error) {
	var posts []*models.Post
	now := time.Now().UTC()
	for i := 0; i < n; i++ {
		post := &models.Post{
			Text:    gofakeit.Paragraph(1, 3, 12, " "),
			PubDate: now.Add(-time.Duration(n-i) * time.Hour),
			UserID:  users[rand.Intn(len(users))].ID,
		}
		// Roughly a third of posts go without a group.
		if rand.Intn(3) != 0 {
			post.GroupID = &groups[rand.Intn(len(groups))].ID
		}
		if err := repo.Create(ctx, post); err != nil {
			return nil, fmt.Errorf("creating post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func seedComments(ctx context.Context, repo repository.CommentRepository, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		for i := 0; i < rand.Intn(4); i++ {
			comment := &models.Comment{
				Text:    gofakeit.Sentence(10),
				UserID:  users[rand.Intn(len(users))].ID,
				PostID:  post.ID,
				Created: post.PubDate.Add(time.Duration(i+1) * time.Minute),
			}
			if err := repo.Create(ctx, comment); err != nil {
				return fmt.Errorf("creating comment: %w", err)
			}
		}
	}
	return nil
}
