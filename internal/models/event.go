package models

import (
	"time"

	"gorm.io/gorm"
)

// RSVPStatus is an attendee's answer to an event.
type RSVPStatus string

const (
	RSVPGoing    RSVPStatus = "GOING"
	RSVPMaybe    RSVPStatus = "MAYBE"
	RSVPNotGoing RSVPStatus = "NOT_GOING"
)

// Valid reports whether s is a known RSVP status.
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPGoing, RSVPMaybe, RSVPNotGoing:
		return true
	}
	return false
}

// Event is a scheduled gathering, physical or virtual.
type Event struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	Date         time.Time      `gorm:"not null;index" json:"date"`
	Location     string         `gorm:"size:200" json:"location"`
	IsVirtual    bool           `gorm:"not null;default:false" json:"is_virtual"`
	MeetingLink  string         `json:"meeting_link,omitempty"`
	Image        string         `json:"image,omitempty"`
	MaxAttendees *int           `json:"max_attendees,omitempty"`
	Branch       string         `gorm:"size:100;index" json:"branch,omitempty"`
	CreatorID    uint           `gorm:"not null;index" json:"creator_id"`
	Creator      User           `gorm:"foreignKey:CreatorID" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasStarted reports whether the event date is before now.
func (e *Event) HasStarted(now time.Time) bool {
	return e.Date.Before(now)
}

// EventRSVP is one identity's answer to one event.
type EventRSVP struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	EventID   uint       `gorm:"not null;uniqueIndex:idx_event_rsvp" json:"event_id"`
	UserID    uint       `gorm:"not null;uniqueIndex:idx_event_rsvp;index" json:"user_id"`
	Status    RSVPStatus `gorm:"type:varchar(20);not null" json:"status"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (EventRSVP) TableName() string {
	return "event_rsvps"
}

// EventView is an event annotated for the requesting identity.
type EventView struct {
	Event
	CreatorSummary UserSummary `json:"creator"`
	GoingCount     int64       `json:"going_count"`
	UserRSVPStatus *RSVPStatus `json:"user_rsvp_status,omitempty"`
}
