package models

import (
	"time"

	"gorm.io/gorm"
)

// ConnectionStatus represents the status of a connection request.
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "PENDING"
	ConnectionAccepted ConnectionStatus = "ACCEPTED"
	ConnectionRejected ConnectionStatus = "REJECTED"
)

// Connection is a request between two identities. PairLow/PairHigh hold the
// normalized unordered pair so the unique index covers both directions.
type Connection struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	InitiatorID uint             `gorm:"not null;index" json:"initiator_id"`
	ReceiverID  uint             `gorm:"not null;index:idx_connections_receiver_status" json:"receiver_id"`
	PairLow     uint             `gorm:"not null;uniqueIndex:idx_connection_pair" json:"-"`
	PairHigh    uint             `gorm:"not null;uniqueIndex:idx_connection_pair" json:"-"`
	Status      ConnectionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_connections_receiver_status" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	Initiator User `gorm:"foreignKey:InitiatorID" json:"-"`
	Receiver  User `gorm:"foreignKey:ReceiverID" json:"-"`
}

// TableName specifies the table name for GORM
func (Connection) TableName() string {
	return "connections"
}

// NormalizePair orders two identity ids so (a,b) and (b,a) map to the same key.
func NormalizePair(a, b uint) (uint, uint) {
	if a < b {
		return a, b
	}
	return b, a
}

// BeforeCreate fills the normalized pair columns.
func (c *Connection) BeforeCreate(_ *gorm.DB) error {
	c.PairLow, c.PairHigh = NormalizePair(c.InitiatorID, c.ReceiverID)
	return nil
}

// OtherParty returns the identity on the far side of the connection from userID.
func (c *Connection) OtherParty(userID uint) *User {
	if c.InitiatorID == userID {
		return &c.Receiver
	}
	return &c.Initiator
}

// ConnectionView is a connection as seen by one of its parties.
type ConnectionView struct {
	ID             uint        `json:"id"`
	User           UserProfile `json:"user"`
	ConnectedSince time.Time   `json:"connected_since"`
}

// PendingConnectionView is an incoming request awaiting the caller's answer.
type PendingConnectionView struct {
	ID        uint             `json:"id"`
	Status    ConnectionStatus `json:"status"`
	Initiator UserProfile      `json:"initiator"`
	CreatedAt time.Time        `json:"created_at"`
}
