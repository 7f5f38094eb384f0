package services

import (
	"fmt"
	"strings"

	"dm-lab/domain"
	"dm-lab/errors"
	"dm-lab/repositories"

	"github.com/samber/lo"
)

type IMessageService interface {
	SendMessage(sender *domain.Identity, to, content string) (domain.Message, error)
	ListConversations(sender *domain.Identity) ([]domain.Conversation, error)
}

type MessageService struct {
	userRepository    repositories.IUserRepository
	messageRepository repositories.IMessageRepository
}

func NewMessageService(users repositories.IUserRepository, messages repositories.IMessageRepository) IMessageService {
	return &MessageService{userRepository: users, messageRepository: messages}
}

// SendMessage persists a direct message from the authenticated sender.
// The recipient must exist, must differ from the sender, and the content
// must not be blank. Duplicate sends from client-side retries are not
// deduplicated.
func (s *MessageService) SendMessage(sender *domain.Identity, to, content string) (domain.Message, error) {
	if sender == nil {
		return domain.Message{}, errors.ErrUnauthenticated
	}

	recipient, found, err := s.userRepository.GetUserByUsername(to)
	if err != nil {
		return domain.Message{}, fmt.Errorf("recipient lookup failed: %w", err)
	}
	if !found {
		// Unknown recipient is reported as bad input, not as a distinct
		// "not found" kind, to avoid user enumeration.
		return domain.Message{}, errors.FieldErrors{"to": "User not found"}
	}
	if recipient.Username == sender.Username {
		return domain.Message{}, errors.FieldErrors{"to": "Can't send a message to yourself"}
	}
	if strings.TrimSpace(content) == "" {
		return domain.Message{}, errors.FieldErrors{"content": "Message is empty"}
	}

	return s.messageRepository.CreateMessage(sender.Username, to, content)
}

// ListConversations returns every other user, each annotated with the most
// recent message exchanged with the caller. The store hands messages back
// newest first, so the first match per counterpart wins.
func (s *MessageService) ListConversations(sender *domain.Identity) ([]domain.Conversation, error) {
	if sender == nil {
		return nil, errors.ErrUnauthenticated
	}

	others, err := s.userRepository.GetUsersExcluding(sender.Username)
	if err != nil {
		return nil, fmt.Errorf("user listing failed: %w", err)
	}

	messages, err := s.messageRepository.GetMessagesInvolving(sender.Username)
	if err != nil {
		return nil, fmt.Errorf("message listing failed: %w", err)
	}

	conversations := lo.Map(others, func(other repositories.User, _ int) domain.Conversation {
		conversation := domain.Conversation{User: other.ToDomain()}
		latest, found := lo.Find(messages, func(m domain.Message) bool {
			return m.From == other.Username || m.To == other.Username
		})
		if found {
			conversation.LatestMessage = &latest
		}
		return conversation
	})

	return conversations, nil
}
