package models

import "time"

// Message is a direct message between two identities. Delivery is poll based.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index:idx_messages_pair" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index:idx_messages_pair;index" json:"receiver_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsRead     bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// Conversation summarizes the message history with one other identity.
type Conversation struct {
	User          UserSummary `json:"user"`
	LastMessage   string      `json:"last_message"`
	LastMessageAt time.Time   `json:"last_message_at"`
	UnreadCount   int64       `json:"unread_count"`
}
