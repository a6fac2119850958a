package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/princinho/dealsbackend/apperror"
	"github.com/princinho/dealsbackend/auth"
	"github.com/princinho/dealsbackend/models"
	"github.com/princinho/dealsbackend/repositories"
)

const maxMessageLen = 5000

type MessageService struct {
	messages repositories.MessageRepository
	users    repositories.UserRepository
	now      func() time.Time
}

func NewMessageService(messages repositories.MessageRepository, users repositories.UserRepository) *MessageService {
	return &MessageService{messages: messages, users: users, now: time.Now}
}

// Send stores a message from the caller to receiverID.
func (s *MessageService) Send(ctx context.Context, sender *auth.Identity, receiverID uint, content string) (*models.Message, error) {
	if sender == nil {
		return nil, apperror.Unauthenticated("authentication required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.BadRequest("message content is required")
	}
	if len(content) > maxMessageLen {
		return nil, apperror.BadRequest("message content is too long")
	}
	if _, err := s.users.FindByID(ctx, receiverID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("receiver not found")
		}
		return nil, err
	}

	m := &models.Message{
		Content:    content,
		SenderID:   sender.ID,
		ReceiverID: receiverID,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Conversation is visible to its two participants and to admins.
func (s *MessageService) Conversation(ctx context.Context, requester *auth.Identity, user1, user2 uint) ([]models.Message, error) {
	if requester == nil {
		return nil, apperror.Unauthenticated("authentication required")
	}
	if requester.ID != user1 && requester.ID != user2 && !requester.IsAdmin() {
		return nil, apperror.Forbidden("not a participant of this conversation")
	}
	return s.messages.Conversation(ctx, user1, user2)
}

// All returns the caller's messages, or every message for an admin.
func (s *MessageService) All(ctx context.Context, requester *auth.Identity) ([]models.Message, error) {
	if requester == nil {
		return nil, apperror.Unauthenticated("authentication required")
	}
	if requester.IsAdmin() {
		return s.messages.ListAll(ctx)
	}
	return s.messages.ListForUser(ctx, requester.ID)
}
