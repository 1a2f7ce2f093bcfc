package service

import (
	"context"
	"log/slog"
	"strings"

	"alumnet/internal/models"
	"alumnet/internal/repository"
)

const maxMessageLen = 5000

// MessageService handles poll-based direct messaging.
type MessageService struct {
	msgRepo  repository.MessageRepository
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// NewMessageService returns a new MessageService.
func NewMessageService(msgRepo repository.MessageRepository, userRepo repository.UserRepository, logger *slog.Logger) *MessageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MessageService{msgRepo: msgRepo, userRepo: userRepo, logger: logger}
}

// Send stores a message from senderID to receiverID.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID uint, content string) (*models.Message, error) {
	if senderID == receiverID {
		return nil, models.NewValidationError("You cannot send a message to yourself")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Message content is required")
	}
	if len(content) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 5000 characters)")
	}

	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}

	msg := &models.Message{SenderID: senderID, ReceiverID: receiverID, Content: content}
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Conversations lists one entry per counterpart, most recent first.
func (s *MessageService) Conversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	return s.msgRepo.Conversations(ctx, userID)
}

// Thread returns a page of the history with otherID, oldest first within the
// page, and marks the caller's received messages in it as read.
func (s *MessageService) Thread(ctx context.Context, userID, otherID uint, page Page) ([]models.Message, int64, error) {
	if _, err := s.userRepo.GetByID(ctx, otherID); err != nil {
		return nil, 0, err
	}

	msgs, total, err := s.msgRepo.Thread(ctx, userID, otherID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}

	marked, err := s.msgRepo.MarkRead(ctx, userID, otherID)
	if err != nil {
		return nil, 0, err
	}
	if marked > 0 {
		s.logger.DebugContext(ctx, "messages marked read",
			slog.Uint64("user_id", uint64(userID)),
			slog.Uint64("sender_id", uint64(otherID)),
			slog.Int64("count", marked))
	}
	return msgs, total, nil
}
