package service

import (
	"context"
	"strings"
	"testing"

	"linkup/internal/models"
)

func TestUserServiceUpdateProfileNotOwn(t *testing.T) {
	svc := NewUserService(noopUserRepo())
	_, err := svc.UpdateProfile(context.Background(), 1, 2, UpdateProfileInput{})
	assertAppErrCode(t, err, models.CodeForbidden)
}

func TestUserServiceUpdateProfileFields(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.User, error) {
		return &models.User{ID: 1, Bio: "old", Avatar: "old.png"}, nil
	}
	var saved *models.User
	repo.updateFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}

	svc := NewUserService(repo)
	bio := "  new bio  "
	user, err := svc.UpdateProfile(context.Background(), 1, 1, UpdateProfileInput{Bio: &bio})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Bio != "new bio" {
		t.Fatalf("expected trimmed bio, got %q", user.Bio)
	}
	// Avatar untouched when not provided.
	if saved == nil || saved.Avatar != "old.png" {
		t.Fatalf("expected avatar preserved, got %+v", saved)
	}
}

func TestUserServiceUpdateProfileBioTooLong(t *testing.T) {
	svc := NewUserService(noopUserRepo())
	bio := strings.Repeat("b", MaxBioLen+1)
	_, err := svc.UpdateProfile(context.Background(), 1, 1, UpdateProfileInput{Bio: &bio})
	assertAppErrCode(t, err, models.CodeValidation)
}

func TestUserServiceSearchUsersEmptyQuery(t *testing.T) {
	svc := NewUserService(noopUserRepo())
	_, err := svc.SearchUsers(context.Background(), 1, "   ")
	assertAppErrCode(t, err, models.CodeValidation)
}

func TestUserServiceSearchUsersExcludesSelfAndCaps(t *testing.T) {
	repo := noopUserRepo()
	var gotExclude uint
	var gotLimit int
	repo.searchFn = func(_ context.Context, _ string, excludeUserID uint, limit int) ([]models.User, error) {
		gotExclude = excludeUserID
		gotLimit = limit
		return nil, nil
	}

	svc := NewUserService(repo)
	if _, err := svc.SearchUsers(context.Background(), 7, "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotExclude != 7 {
		t.Fatalf("expected self exclusion for user 7, got %d", gotExclude)
	}
	if gotLimit != SearchLimit {
		t.Fatalf("expected limit %d, got %d", SearchLimit, gotLimit)
	}
}
