package repository

import (
	"context"
	"errors"
	"time"

	"alumnet/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const recentExpenseLimit = 10

// DonationRepository persists donations and the fund ledger.
type DonationRepository interface {
	Donate(ctx context.Context, donation *models.Donation) (*models.Fund, error)
	ListByDonor(ctx context.Context, donorID uint, limit, offset int) ([]models.Donation, int64, error)
	FundSummary(ctx context.Context) (*models.FundSummary, error)
	RecordExpense(ctx context.Context, expense *models.Expense) (*models.Fund, error)
}

type donationRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDonationRepository returns a new DonationRepository implementation.
func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db, now: time.Now}
}

// loadFund returns the fund row locked for the rest of tx. The row is keyed
// by models.FundID, so concurrent first writers collide on the primary key
// and the loser's insert is a no-op instead of a second ledger.
func loadFund(tx *gorm.DB) (*models.Fund, error) {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Fund{ID: models.FundID}).Error; err != nil {
		return nil, err
	}

	var fund models.Fund
	if err := lockForUpdate(tx).First(&fund, models.FundID).Error; err != nil {
		return nil, err
	}
	return &fund, nil
}

// Donate stores a completed donation and credits the fund in one transaction.
func (r *donationRepository) Donate(ctx context.Context, donation *models.Donation) (*models.Fund, error) {
	var fund *models.Fund
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(donation).Error; err != nil {
			return models.NewInternalError(err)
		}

		f, err := loadFund(tx)
		if err != nil {
			return models.NewInternalError(err)
		}
		f.TotalDonations += donation.Amount
		f.AvailableBalance += donation.Amount
		f.LastUpdated = r.now()
		if err := tx.Save(f).Error; err != nil {
			return models.NewInternalError(err)
		}
		fund = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fund, nil
}

func (r *donationRepository) ListByDonor(ctx context.Context, donorID uint, limit, offset int) ([]models.Donation, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Donation{}).
		Where("donor_id = ?", donorID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var donations []models.Donation
	if err := paginate(q.Order("created_at DESC").Order("id DESC"), limit, offset).
		Find(&donations).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return donations, total, nil
}

// FundSummary returns the ledger totals with the latest expenses. A fund that
// has never been touched reports zeros.
func (r *donationRepository) FundSummary(ctx context.Context) (*models.FundSummary, error) {
	db := r.db.WithContext(ctx)

	summary := &models.FundSummary{RecentExpenses: []models.Expense{}}
	err := db.First(&summary.Fund, models.FundID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	if err := db.Order("created_at DESC").Order("id DESC").
		Limit(recentExpenseLimit).
		Find(&summary.RecentExpenses).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return summary, nil
}

// RecordExpense debits the fund. Spending more than the available balance is
// refused with InvalidState.
func (r *donationRepository) RecordExpense(ctx context.Context, expense *models.Expense) (*models.Fund, error) {
	var fund *models.Fund
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f, err := loadFund(tx)
		if err != nil {
			return models.NewInternalError(err)
		}
		if expense.Amount > f.AvailableBalance {
			return models.NewInvalidStateError("Insufficient funds for this expense")
		}

		if err := tx.Create(expense).Error; err != nil {
			return models.NewInternalError(err)
		}
		f.TotalExpenses += expense.Amount
		f.AvailableBalance -= expense.Amount
		f.LastUpdated = r.now()
		if err := tx.Save(f).Error; err != nil {
			return models.NewInternalError(err)
		}
		fund = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fund, nil
}
