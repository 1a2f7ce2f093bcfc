package models

import "time"

// VerificationRequest is the review ticket created for a restricted-role
// registration. Each identity has at most one.
type VerificationRequest struct {
	ID               uint               `gorm:"primaryKey" json:"id"`
	UserID           uint               `gorm:"not null;uniqueIndex" json:"user_id"`
	User             *User              `gorm:"foreignKey:UserID" json:"-"`
	Status           VerificationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ReviewedByUserID *uint              `json:"reviewed_by_user_id,omitempty"`
	ReviewNotes      *string            `gorm:"type:text" json:"review_notes,omitempty"`
	ReviewedAt       *time.Time         `json:"reviewed_at,omitempty"`
	CreatedAt        time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// IsPending reports whether the request still awaits a decision.
func (r *VerificationRequest) IsPending() bool {
	return r.Status == VerificationPending
}

// VerificationRequestView is a queue entry with the applicant's profile.
type VerificationRequestView struct {
	ID          uint               `json:"id"`
	Status      VerificationStatus `json:"status"`
	ReviewNotes *string            `json:"review_notes,omitempty"`
	ReviewedAt  *time.Time         `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	User        *UserProfile       `json:"user,omitempty"`
}

// View projects the request for API responses.
func (r *VerificationRequest) View() VerificationRequestView {
	v := VerificationRequestView{
		ID:          r.ID,
		Status:      r.Status,
		ReviewNotes: r.ReviewNotes,
		ReviewedAt:  r.ReviewedAt,
		CreatedAt:   r.CreatedAt,
	}
	if r.User != nil {
		p := r.User.Profile()
		v.User = &p
	}
	return v
}

// VerificationStats counts requests per status.
type VerificationStats struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}
