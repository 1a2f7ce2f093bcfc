package repository

import (
	"context"

	"alumnet/internal/models"
	"alumnet/internal/observability"

	"gorm.io/gorm"
)

// MessageRepository persists direct messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	Conversations(ctx context.Context, userID uint) ([]models.Conversation, error)
	Thread(ctx context.Context, userID, otherID uint, limit, offset int) ([]models.Message, int64, error)
	MarkRead(ctx context.Context, receiverID, senderID uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a new MessageRepository implementation.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Conversations returns one entry per counterpart, most recent first. Only
// the newest message of each pair is loaded.
func (r *messageRepository) Conversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	defer observability.TrackQuery("conversations", "messages")()

	db := r.db.WithContext(ctx)

	latestIDs := db.Raw(`SELECT MAX(id) FROM messages
		WHERE sender_id = ? OR receiver_id = ?
		GROUP BY CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END`,
		userID, userID, userID)

	var msgs []models.Message
	if err := db.Where("id IN (?)", latestIDs).
		Order("created_at DESC").Order("id DESC").
		Find(&msgs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(msgs) == 0 {
		return []models.Conversation{}, nil
	}

	latest := make(map[uint]models.Message, len(msgs))
	order := make([]uint, 0, len(msgs))
	for _, m := range msgs {
		other := m.SenderID
		if other == userID {
			other = m.ReceiverID
		}
		latest[other] = m
		order = append(order, other)
	}

	var unread []struct {
		SenderID uint
		Count    int64
	}
	if err := db.Model(&models.Message{}).
		Select("sender_id, COUNT(*) AS count").
		Where("receiver_id = ? AND is_read = ? AND sender_id IN ?", userID, false, order).
		Group("sender_id").
		Scan(&unread).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	unreadBy := make(map[uint]int64, len(unread))
	for _, u := range unread {
		unreadBy[u.SenderID] = u.Count
	}

	var users []models.User
	if err := db.Where("id IN ?", order).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	usersByID := make(map[uint]*models.User, len(users))
	for i := range users {
		usersByID[users[i].ID] = &users[i]
	}

	convs := make([]models.Conversation, 0, len(order))
	for _, other := range order {
		u, ok := usersByID[other]
		if !ok {
			continue
		}
		m := latest[other]
		convs = append(convs, models.Conversation{
			User:          u.Summary(),
			LastMessage:   m.Content,
			LastMessageAt: m.CreatedAt,
			UnreadCount:   unreadBy[other],
		})
	}
	return convs, nil
}

// Thread pages the history between two users newest first. Callers reverse
// the page for display.
func (r *messageRepository) Thread(ctx context.Context, userID, otherID uint, limit, offset int) ([]models.Message, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var msgs []models.Message
	if err := paginate(q.Order("created_at DESC").Order("id DESC"), limit, offset).
		Find(&msgs).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return msgs, total, nil
}

// MarkRead flags every unread message from senderID to receiverID as read.
func (r *messageRepository) MarkRead(ctx context.Context, receiverID, senderID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", receiverID, senderID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}
