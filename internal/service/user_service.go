package service

import (
	"context"
	"fmt"
	"strings"

	"linkup/internal/models"
	"linkup/internal/repository"
)

// SearchLimit caps the number of users returned by a search.
const SearchLimit = 10

// MaxBioLen is the maximum length of a profile bio.
const MaxBioLen = 500

// UserService provides profile and user-search business logic.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetUserByID fetches a single user.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfileInput holds the updatable profile fields. Nil fields are
// left unchanged.
type UpdateProfileInput struct {
	Bio    *string
	Avatar *string
}

// UpdateProfile updates the profile of targetUserID. Users may only update
// their own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID, targetUserID uint, input UpdateProfileInput) (*models.User, error) {
	if userID != targetUserID {
		return nil, models.NewForbiddenError("You can only update your own profile")
	}

	user, err := s.userRepo.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	if input.Bio != nil {
		bio := strings.TrimSpace(*input.Bio)
		if len(bio) > MaxBioLen {
			return nil, models.NewValidationError(fmt.Sprintf("Bio must not exceed %d characters", MaxBioLen))
		}
		user.Bio = bio
	}
	if input.Avatar != nil {
		user.Avatar = strings.TrimSpace(*input.Avatar)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SearchUsers finds users by username substring, excluding the searching
// user, capped at SearchLimit.
func (s *UserService) SearchUsers(ctx context.Context, userID uint, query string) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.userRepo.Search(ctx, query, userID, SearchLimit)
}
