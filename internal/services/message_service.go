package services

import (
	"context"

	"rentalsBack/internal/models"
	"rentalsBack/internal/notify"
	"rentalsBack/internal/repositories"
)

// Notifier pushes live events to a connected owner.
type Notifier interface {
	Push(ownerID int, payload interface{})
}

type MessageService struct {
	MessageRepo *repositories.MessageRepository
	Notifier    Notifier
}

// Contact stores a visitor's message about property and notifies its owner.
func (s *MessageService) Contact(ctx context.Context, property models.Property, msg models.Message) (models.Message, error) {
	msg.PropertyID = property.ID
	created, err := s.MessageRepo.CreateMessage(ctx, msg)
	if err != nil {
		return models.Message{}, err
	}
	created.PropertyTitle = property.Title
	if s.Notifier != nil {
		s.Notifier.Push(property.OwnerID, notify.NewMessageEvent(created))
	}
	return created, nil
}

// Inbox returns the owner's messages, newest first, and how many are unread.
func (s *MessageService) Inbox(ctx context.Context, ownerID int) ([]models.Message, int, error) {
	messages, err := s.MessageRepo.GetMessagesByOwner(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}
	unread := 0
	for _, m := range messages {
		if !m.IsRead {
			unread++
		}
	}
	return messages, unread, nil
}

func (s *MessageService) MarkRead(ctx context.Context, id, ownerID int) error {
	return s.MessageRepo.MarkRead(ctx, id, ownerID)
}

func (s *MessageService) UnreadCount(ctx context.Context, ownerID int) (int, error) {
	return s.MessageRepo.CountUnread(ctx, ownerID)
}
