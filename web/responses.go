package web

import (
	"time"

	"dm-lab/domain"

	"github.com/samber/lo"
)

// Timestamps are formatted at this boundary only; services and repositories
// traffic in time.Time.

type UserResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

type LoginResponse struct {
	UserResponse
	Token string `json:"token"`
}

type MessageResponse struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

type ConversationResponse struct {
	UserResponse
	LatestMessage *MessageResponse `json:"latestMessage,omitempty"`
}

func toUserResponse(user domain.User) UserResponse {
	return UserResponse{
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func toMessageResponse(message domain.Message) MessageResponse {
	return MessageResponse{
		ID:        message.ID.String(),
		From:      message.From,
		To:        message.To,
		Content:   message.Content,
		CreatedAt: message.CreatedAt.Format(time.RFC3339),
	}
}

func toConversationResponses(conversations []domain.Conversation) []ConversationResponse {
	return lo.Map(conversations, func(c domain.Conversation, _ int) ConversationResponse {
		response := ConversationResponse{UserResponse: toUserResponse(c.User)}
		if c.LatestMessage != nil {
			response.LatestMessage = lo.ToPtr(toMessageResponse(*c.LatestMessage))
		}
		return response
	})
}
