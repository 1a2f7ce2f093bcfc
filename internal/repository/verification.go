package repository

import (
	"context"
	"time"

	"alumnet/internal/models"
	"alumnet/internal/observability"

	"gorm.io/gorm"
)

// VerificationRepository persists the verification review queue.
type VerificationRepository interface {
	ListPending(ctx context.Context, limit, offset int) ([]models.VerificationRequest, int64, error)
	GetByID(ctx context.Context, id uint) (*models.VerificationRequest, error)
	Decide(ctx context.Context, id, reviewerID uint, decision models.VerificationStatus, notes *string) (*models.VerificationRequest, error)
	Stats(ctx context.Context) (*models.VerificationStats, error)
}

type verificationRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewVerificationRepository returns a new VerificationRepository implementation.
func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db, now: time.Now}
}

// ListPending returns the oldest pending requests first.
func (r *verificationRepository) ListPending(ctx context.Context, limit, offset int) ([]models.VerificationRequest, int64, error) {
	defer observability.TrackQuery("list_pending", "verification_requests")()

	q := r.db.WithContext(ctx).Model(&models.VerificationRequest{}).
		Where("status = ?", models.VerificationPending).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var requests []models.VerificationRequest
	if err := paginate(q.Preload("User.Skills").Order("created_at ASC").Order("id ASC"), limit, offset).
		Find(&requests).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return requests, total, nil
}

func (r *verificationRepository) GetByID(ctx context.Context, id uint) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	if err := r.db.WithContext(ctx).Preload("User").First(&req, id).Error; err != nil {
		return nil, notFoundOr(err, "Verification request", id)
	}
	return &req, nil
}

// Decide records a reviewer decision. The request and the identity are
// updated in one transaction; an approval also activates the identity.
func (r *verificationRepository) Decide(ctx context.Context, id, reviewerID uint, decision models.VerificationStatus, notes *string) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&req, id).Error; err != nil {
			return notFoundOr(err, "Verification request", id)
		}
		if !req.IsPending() {
			return models.NewInvalidStateError("Verification request has already been reviewed")
		}

		reviewedAt := r.now()
		res := tx.Model(&models.VerificationRequest{}).
			Where("id = ? AND status = ?", id, models.VerificationPending).
			Updates(map[string]interface{}{
				"status":              decision,
				"reviewed_by_user_id": reviewerID,
				"review_notes":        notes,
				"reviewed_at":         reviewedAt,
			})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewInvalidStateError("Verification request has already been reviewed")
		}

		// The user row mirrors the decision either way; only approval activates.
		userUpdates := map[string]interface{}{"verification_status": decision}
		if decision == models.VerificationApproved {
			userUpdates["is_active"] = true
		}
		if err := tx.Model(&models.User{}).Where("id = ?", req.UserID).Updates(userUpdates).Error; err != nil {
			return models.NewInternalError(err)
		}

		req.Status = decision
		req.ReviewedByUserID = &reviewerID
		req.ReviewNotes = notes
		req.ReviewedAt = &reviewedAt

		var user models.User
		if err := tx.First(&user, req.UserID).Error; err != nil {
			return notFoundOr(err, "User", req.UserID)
		}
		req.User = &user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *verificationRepository) Stats(ctx context.Context) (*models.VerificationStats, error) {
	var rows []struct {
		Status models.VerificationStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.VerificationRequest{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	stats := &models.VerificationStats{}
	for _, row := range rows {
		switch row.Status {
		case models.VerificationPending:
			stats.Pending = row.Count
		case models.VerificationApproved:
			stats.Approved = row.Count
		case models.VerificationRejected:
			stats.Rejected = row.Count
		}
	}
	stats.Total = stats.Pending + stats.Approved + stats.Rejected
	return stats, nil
}
