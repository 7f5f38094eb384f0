// Package domain contains core concepts of the messaging system.
// This file defines Message events and conversation projections.
// Messages are immutable once created.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable direct message between two users.
// Invariant: From and To always name two distinct existing users.
type Message struct {
	ID        uuid.UUID
	From      string
	To        string
	Content   string
	CreatedAt time.Time
}

// Conversation pairs another user with the most recent message exchanged
// with the current one. LatestMessage is nil when no message exists yet.
type Conversation struct {
	User          User
	LatestMessage *Message
}
