package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/repository"
)

// FeedService builds the ordered, paginated result sets for the four read
// surfaces. Every call re-derives the slice from current state; there is no
// caching.
type FeedService struct {
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	userRepo    repository.UserRepository
	commentRepo repository.CommentRepository
}

// GroupFeed is a group page: the resolved group plus its posts.
type GroupFeed struct {
	Group *models.Group
	Page  *PostPage
}

// ProfileFeed is a profile page: the resolved author, their total post count,
// and their posts.
type ProfileFeed struct {
	Author    *models.User
	PostCount int64
	Page      *PostPage
}

// PostDetail is a single post with all of its comments, oldest first.
type PostDetail struct {
	Post     *models.Post
	Comments []*models.Comment
}

// NewFeedService creates a new feed service.
func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
) *FeedService {
	return &FeedService{
		postRepo:    postRepo,
		groupRepo:   groupRepo,
		userRepo:    userRepo,
		commentRepo: commentRepo,
	}
}

// Global returns one page of the global feed, newest first.
func (s *FeedService) Global(ctx context.Context, page int) (*PostPage, error) {
	count, err := s.postRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, page, count, func(limit, offset int) ([]*models.Post, error) {
		return s.postRepo.List(ctx, limit, offset)
	})
}

// Group resolves a group by slug and returns one page of its posts.
func (s *FeedService) Group(ctx context.Context, slug string, page int) (*GroupFeed, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	count, err := s.postRepo.CountByGroupID(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	pp, err := s.page(ctx, page, count, func(limit, offset int) ([]*models.Post, error) {
		return s.postRepo.ListByGroupID(ctx, group.ID, limit, offset)
	})
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: group, Page: pp}, nil
}

// Profile resolves an author by username and returns one page of their posts
// together with their total post count.
func (s *FeedService) Profile(ctx context.Context, username string, page int) (*ProfileFeed, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	count, err := s.postRepo.CountByUserID(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	pp, err := s.page(ctx, page, count, func(limit, offset int) ([]*models.Post, error) {
		return s.postRepo.ListByUserID(ctx, author.ID, limit, offset)
	})
	if err != nil {
		return nil, err
	}
	return &ProfileFeed{Author: author, PostCount: count, Page: pp}, nil
}

// Post returns a single post with its comments.
func (s *FeedService) Post(ctx context.Context, id uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments}, nil
}

func (s *FeedService) page(ctx context.Context, requested int, count int64, fetch func(limit, offset int) ([]*models.Post, error)) (*PostPage, error) {
	total := totalPages(count)
	number := clampPage(requested, total)

	posts, err := fetch(PageSize, (number-1)*PageSize)
	if err != nil {
		return nil, err
	}

	return &PostPage{
		Posts:      posts,
		Number:     number,
		TotalPages: total,
		TotalCount: count,
	}, nil
}
