package models

import "time"

// DonationStatus is the capture state of a donation.
type DonationStatus string

const (
	DonationPending   DonationStatus = "PENDING"
	DonationCompleted DonationStatus = "COMPLETED"
	DonationFailed    DonationStatus = "FAILED"
)

// Donation is a contribution to the alumni fund. Amounts are in minor units.
type Donation struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	DonorID       uint           `gorm:"not null;index" json:"donor_id"`
	Amount        int64          `gorm:"not null" json:"amount"`
	PaymentMethod string         `gorm:"size:50;not null" json:"payment_method"`
	Note          string         `gorm:"type:text" json:"note,omitempty"`
	Status        DonationStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
}

// FundID is the primary key of the only fund row.
const FundID uint = 1

// Fund is the single ledger row tracking totals. Its ID is always FundID.
type Fund struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	TotalDonations   int64     `gorm:"not null;default:0" json:"total_donations"`
	TotalExpenses    int64     `gorm:"not null;default:0" json:"total_expenses"`
	AvailableBalance int64     `gorm:"not null;default:0" json:"available_balance"`
	LastUpdated      time.Time `json:"last_updated"`
}

// Expense is money spent out of the fund.
type Expense struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description,omitempty"`
	Amount       int64     `gorm:"not null" json:"amount"`
	RecordedByID uint      `gorm:"not null;index" json:"recorded_by_id"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

// FundSummary is the fund totals with the latest expenses.
type FundSummary struct {
	Fund           Fund      `json:"fund"`
	RecentExpenses []Expense `json:"recent_expenses"`
}
