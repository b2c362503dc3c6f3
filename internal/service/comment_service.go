package service

import (
	"context"
	"fmt"
	"strings"

	"linkup/internal/cache"
	"linkup/internal/models"
	"linkup/internal/repository"
)

// CommentService provides comment business logic.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// NewCommentService returns a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// AddComment validates and stores a new comment on a post.
func (s *CommentService) AddComment(ctx context.Context, userID, postID uint, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(text) > models.MaxCommentTextLen {
		return nil, models.NewValidationError(fmt.Sprintf("Comment text must not exceed %d characters", models.MaxCommentTextLen))
	}

	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:   text,
		UserID: userID,
		PostID: postID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.FeedKey(userID))
	return comment, nil
}

// GetComments returns the comments on a post, oldest first.
func (s *CommentService) GetComments(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.commentRepo.ListByPost(ctx, postID, limit, offset)
}
