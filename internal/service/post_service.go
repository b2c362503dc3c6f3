package service

import (
	"context"
	"fmt"
	"strings"

	"linkup/internal/cache"
	"linkup/internal/models"
	"linkup/internal/repository"
)

// FeedLimit caps the number of posts returned by a single feed request.
const FeedLimit = 50

// PostService provides post, feed, and like business logic.
type PostService struct {
	postRepo   repository.PostRepository
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, friendRepo repository.FriendRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{
		postRepo:   postRepo,
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// CreatePost validates and stores a new post for the user.
func (s *PostService) CreatePost(ctx context.Context, userID uint, text, imageURL string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Post text is required")
	}
	if len(text) > models.MaxPostTextLen {
		return nil, models.NewValidationError(fmt.Sprintf("Post text must not exceed %d characters", models.MaxPostTextLen))
	}

	post := &models.Post{
		Text:     text,
		ImageURL: imageURL,
		UserID:   userID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	cache.Invalidate(ctx, cache.FeedKey(userID))

	return s.postRepo.GetByID(ctx, post.ID, userID)
}

// GetFeed composes the user's feed: their own posts plus their friends'
// posts, newest first, capped at FeedLimit. The composed feed is cached
// under cache.FeedKey for FeedTTL; the short TTL bounds staleness from
// friends' writes, while the user's own writes invalidate the key directly.
func (s *PostService) GetFeed(ctx context.Context, userID uint) ([]*models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	posts := make([]*models.Post, 0, FeedLimit)
	err := cache.Aside(ctx, cache.FeedKey(userID), &posts, cache.FeedTTL, func() error {
		friendIDs, err := s.friendRepo.GetFriendIDs(ctx, userID)
		if err != nil {
			return err
		}
		fetched, err := s.postRepo.GetFeed(ctx, append(friendIDs, userID), FeedLimit, userID)
		if err != nil {
			return err
		}
		posts = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetUserPosts returns posts authored by targetUserID, newest first.
func (s *PostService) GetUserPosts(ctx context.Context, targetUserID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > FeedLimit {
		limit = FeedLimit
	}
	return s.postRepo.GetByUserID(ctx, targetUserID, limit, offset, currentUserID)
}

// GetPost returns a single post with counts and liked status for the viewer.
func (s *PostService) GetPost(ctx context.Context, postID, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID, currentUserID)
}

// DeletePost deletes a post; only its author may do so.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.FeedKey(userID))
	return nil
}

// ToggleLike flips the user's like on a post and returns the new liked state
// and the resulting like count.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (bool, int64, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return false, 0, err
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return false, 0, err
	}

	if liked {
		err = s.postRepo.Unlike(ctx, userID, postID)
	} else {
		err = s.postRepo.Like(ctx, userID, postID)
	}
	if err != nil {
		return false, 0, err
	}

	count, err := s.postRepo.CountLikes(ctx, postID)
	if err != nil {
		return false, 0, err
	}
	cache.Invalidate(ctx, cache.FeedKey(userID))
	return !liked, count, nil
}
