package models

import (
	"time"
)

// FriendshipStatus represents the status of a friendship edge.
type FriendshipStatus string

const (
	// FriendshipStatusPending indicates a sent but not yet accepted request.
	FriendshipStatusPending FriendshipStatus = "pending"
	// FriendshipStatusAccepted indicates an established friendship.
	FriendshipStatusAccepted FriendshipStatus = "accepted"
)

// Friendship is the single edge record between two users. Direction
// (requester vs addressee) distinguishes sent from received pending
// requests; once accepted the edge serves both directions, so the
// symmetry invariant holds structurally and acceptance is a single
// row update.
type Friendship struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RequesterID uint             `gorm:"not null;uniqueIndex:idx_friendship_users" json:"requester_id"`
	AddresseeID uint             `gorm:"not null;uniqueIndex:idx_friendship_users" json:"addressee_id"`
	Status      FriendshipStatus `gorm:"type:varchar(20);default:'pending';index:idx_friendships_status" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Relationships
	Requester User `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Addressee User `gorm:"foreignKey:AddresseeID" json:"addressee,omitempty"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// Relationship describes how the requesting user relates to a profile.
type Relationship struct {
	IsFriend           bool `json:"is_friend"`
	HasPendingRequest  bool `json:"has_pending_request"`
	HasReceivedRequest bool `json:"has_received_request"`
	IsOwn              bool `json:"is_own"`
}
