// Package service contains the business logic for the application.
package service

import (
	"context"

	"linkup/internal/models"
	"linkup/internal/repository"
)

// Outcome values returned by RequestOrAccept.
const (
	OutcomeRequested = "requested"
	OutcomeAccepted  = "accepted"
)

// FriendService provides friend-request and friendship business logic.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
}

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// SendFriendRequest creates a pending friendship edge from userID to targetUserID.
func (s *FriendService) SendFriendRequest(ctx context.Context, userID, targetUserID uint) (*models.Friendship, error) {
	if userID == targetUserID {
		return nil, models.NewInvalidOperationError("Cannot send a friend request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return nil, err
	}

	existing, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.FriendshipStatusAccepted:
			return nil, models.NewAlreadyFriendsError()
		case models.FriendshipStatusPending:
			if existing.RequesterID == userID {
				return nil, models.NewAlreadyRequestedError()
			}
			return nil, models.NewInvalidOperationError("You already have a pending friend request from this user")
		}
	}

	friendship := &models.Friendship{
		RequesterID: userID,
		AddresseeID: targetUserID,
		Status:      models.FriendshipStatusPending,
	}
	if err := s.friendRepo.Create(ctx, friendship); err != nil {
		return nil, err
	}

	return s.friendRepo.GetByID(ctx, friendship.ID)
}

// AcceptFriendRequest accepts the pending request sent by requesterID to
// userID. The edge must exist, be pending, and be directed at userID.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, userID, requesterID uint) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, requesterID)
	if err != nil {
		return nil, err
	}
	if friendship == nil {
		return nil, models.NewNotFoundError("Friend request", requesterID)
	}

	if friendship.Status != models.FriendshipStatusPending {
		return nil, models.NewInvalidOperationError("Friend request is not pending")
	}
	// The request must be directed at the accepting user.
	if friendship.AddresseeID != userID {
		return nil, models.NewInvalidOperationError("You can only accept friend requests sent to you")
	}

	if err := s.friendRepo.UpdateStatus(ctx, friendship.ID, models.FriendshipStatusAccepted); err != nil {
		return nil, err
	}

	return s.friendRepo.GetByID(ctx, friendship.ID)
}

// RequestOrAccept implements the overloaded friend action: if targetUserID has
// a pending request directed at userID it is accepted, otherwise a new request
// is sent. Returns the resulting edge and which branch was taken.
func (s *FriendService) RequestOrAccept(ctx context.Context, userID, targetUserID uint) (*models.Friendship, string, error) {
	if userID == targetUserID {
		return nil, "", models.NewInvalidOperationError("Cannot send a friend request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return nil, "", err
	}

	existing, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, "", err
	}

	if existing == nil {
		friendship, err := s.SendFriendRequest(ctx, userID, targetUserID)
		if err != nil {
			return nil, "", err
		}
		return friendship, OutcomeRequested, nil
	}

	switch existing.Status {
	case models.FriendshipStatusAccepted:
		return nil, "", models.NewAlreadyFriendsError()
	case models.FriendshipStatusPending:
		if existing.RequesterID == userID {
			return nil, "", models.NewAlreadyRequestedError()
		}
		friendship, err := s.AcceptFriendRequest(ctx, userID, targetUserID)
		if err != nil {
			return nil, "", err
		}
		return friendship, OutcomeAccepted, nil
	}

	return nil, "", models.NewInternalError(nil)
}

// RejectFriendRequest rejects or cancels a pending request between the two users.
func (s *FriendService) RejectFriendRequest(ctx context.Context, userID, otherUserID uint) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}
	if friendship == nil {
		return nil, models.NewNotFoundError("Friend request", otherUserID)
	}

	if friendship.Status != models.FriendshipStatusPending {
		return nil, models.NewInvalidOperationError("Friend request is not pending")
	}

	if err := s.friendRepo.Delete(ctx, friendship.ID); err != nil {
		return nil, err
	}

	return friendship, nil
}

// RemoveFriend removes an accepted friendship between two users.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, targetUserID uint) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	if friendship == nil || friendship.Status != models.FriendshipStatusAccepted {
		return nil, models.NewNotFoundError("Friendship", targetUserID)
	}

	if err := s.friendRepo.RemoveFriendship(ctx, userID, targetUserID); err != nil {
		return nil, err
	}
	return friendship, nil
}

// GetFriends returns the list of friends for the user.
func (s *FriendService) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.friendRepo.GetFriends(ctx, userID)
}

// GetPendingRequests returns pending friend requests directed at the user.
func (s *FriendService) GetPendingRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendRepo.GetPendingRequests(ctx, userID)
}

// GetSentRequests returns pending friend requests sent by the user.
func (s *FriendService) GetSentRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendRepo.GetSentRequests(ctx, userID)
}

// RelationshipTo describes how viewerID relates to targetUserID, for
// decorating profile responses.
func (s *FriendService) RelationshipTo(ctx context.Context, viewerID, targetUserID uint) (models.Relationship, error) {
	rel := models.Relationship{}
	if viewerID == targetUserID {
		rel.IsOwn = true
		return rel, nil
	}

	friendship, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, viewerID, targetUserID)
	if err != nil {
		return rel, err
	}
	if friendship == nil {
		return rel, nil
	}

	switch friendship.Status {
	case models.FriendshipStatusAccepted:
		rel.IsFriend = true
	case models.FriendshipStatusPending:
		if friendship.RequesterID == viewerID {
			rel.HasPendingRequest = true
		} else {
			rel.HasReceivedRequest = true
		}
	}
	return rel, nil
}
