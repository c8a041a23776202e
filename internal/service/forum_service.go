package service

import (
	"context"
	"fmt"
	"strings"

	"gurukul/internal/model"
	"gurukul/internal/repository"
)

type ForumService interface {
	ListPosts(ctx context.Context, category string, page, size int) ([]model.ForumPost, error)
	CreatePost(ctx context.Context, p *model.ForumPost) (*model.ForumPost, error)
	// GetPost returns the post with its replies oldest first
	GetPost(ctx context.Context, id string) (*model.ForumPost, error)
	Reply(ctx context.Context, r *model.ForumReply) (*model.ForumReply, error)
	Like(ctx context.Context, postID string) error
}

type forumService struct {
	repo repository.ForumRepository
}

func NewForumService(repo repository.ForumRepository) ForumService {
	return &forumService{repo: repo}
}

func (s *forumService) ListPosts(ctx context.Context, category string, page, size int) ([]model.ForumPost, error) {
	if size <= 0 {
		size = DefaultPageSize * 2
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	page = clampPage(page, size)
	return s.repo.ListPosts(ctx, strings.TrimSpace(category), size, page*size)
}

func (s *forumService) CreatePost(ctx context.Context, p *model.ForumPost) (*model.ForumPost, error) {
	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return p, nil
}

func (s *forumService) GetPost(ctx context.Context, id string) (*model.ForumPost, error) {
	p, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	replies, err := s.repo.GetReplies(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load replies: %w", err)
	}
	p.Replies = replies
	return p, nil
}

func (s *forumService) Reply(ctx context.Context, r *model.ForumReply) (*model.ForumReply, error) {
	p, err := s.repo.GetPostByID(ctx, r.PostID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	if err := s.repo.CreateReply(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}
	return r, nil
}

func (s *forumService) Like(ctx context.Context, postID string) error {
	ok, err := s.repo.LikePost(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to like post: %w", err)
	}
	if !ok {
		return ErrPostNotFound
	}
	return nil
}
