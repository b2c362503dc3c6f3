// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"linkup/internal/models"
	"linkup/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user": user,
	})
}

// GetUserProfile handles GET /api/users/:id
// The response carries the profile plus how the viewer relates to it.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID := currentUserID(c)

	user, err := s.userService.GetUserByID(c.Context(), targetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	relationship, err := s.friendService.RelationshipTo(c.Context(), viewerID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":         user,
		"relationship": relationship,
	})
}

// UpdateProfile handles PUT /api/users/:id
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req struct {
		Bio    *string `json:"bio"`
		Avatar *string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), userID, targetID, service.UpdateProfileInput{
		Bio:    req.Bio,
		Avatar: req.Avatar,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// SearchUsers handles GET /api/users/search/:query
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	query := c.Params("query")
	userID := currentUserID(c)

	users, err := s.userService.SearchUsers(c.Context(), userID, query)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"users": users,
	})
}

// GetFriendsList handles GET /api/users/:id/friends
func (s *Server) GetFriendsList(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	friends, err := s.friendService.GetFriends(c.Context(), targetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	summaries := make([]models.UserSummary, 0, len(friends))
	for i := range friends {
		summaries = append(summaries, friends[i].Summary())
	}

	return c.JSON(fiber.Map{
		"friends": summaries,
	})
}

// GetMyFriendRequests handles GET /api/users/me/friend-requests
func (s *Server) GetMyFriendRequests(c *fiber.Ctx) error {
	userID := currentUserID(c)

	requests, err := s.friendService.GetPendingRequests(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	out := make([]fiber.Map, 0, len(requests))
	for i := range requests {
		out = append(out, fiber.Map{
			"id":         requests[i].ID,
			"user":       requests[i].Requester.Summary(),
			"created_at": requests[i].CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"friend_requests": out,
	})
}

// GetMySentRequests handles GET /api/users/me/friend-requests/sent
func (s *Server) GetMySentRequests(c *fiber.Ctx) error {
	userID := currentUserID(c)

	requests, err := s.friendService.GetSentRequests(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	out := make([]fiber.Map, 0, len(requests))
	for i := range requests {
		out = append(out, fiber.Map{
			"id":         requests[i].ID,
			"user":       requests[i].Addressee.Summary(),
			"created_at": requests[i].CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"sent_requests": out,
	})
}

// SendOrAcceptFriendRequest handles POST /api/users/:id/friends.
// If the target already sent the caller a pending request, it is accepted;
// otherwise a new request is sent.
func (s *Server) SendOrAcceptFriendRequest(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	_, outcome, err := s.friendService.RequestOrAccept(c.Context(), userID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	message := "Friend request sent"
	if outcome == service.OutcomeAccepted {
		message = "Friend request accepted"
	}

	return c.JSON(fiber.Map{
		"message": message,
	})
}

// RemoveFriend handles DELETE /api/users/:id/friends
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if _, err := s.friendService.RemoveFriend(c.Context(), userID, targetID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Friend removed",
	})
}
