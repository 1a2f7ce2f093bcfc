package repository

import (
	"context"
	"errors"
	"strings"

	"alumnet/internal/models"
	"alumnet/internal/observability"

	"gorm.io/gorm"
)

// ConnectionRepository defines the interface for connection data operations
type ConnectionRepository interface {
	Create(ctx context.Context, conn *models.Connection) error
	GetByID(ctx context.Context, id uint) (*models.Connection, error)
	GetBetween(ctx context.Context, userID1, userID2 uint) (*models.Connection, error)
	Respond(ctx context.Context, id uint, status models.ConnectionStatus) error
	ListAccepted(ctx context.Context, userID uint) ([]models.Connection, error)
	ListPending(ctx context.Context, receiverID uint) ([]models.Connection, error)
	Suggest(ctx context.Context, user *models.User, limit int) ([]models.User, error)
}

type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

// Create inserts a pending connection. The unique index on the normalized
// pair makes a concurrent duplicate in either direction fail with Conflict.
func (r *connectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	if err := r.db.WithContext(ctx).Create(conn).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("Connection already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *connectionRepository) GetByID(ctx context.Context, id uint) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.WithContext(ctx).
		Preload("Initiator.Skills").
		Preload("Receiver.Skills").
		First(&conn, id).Error; err != nil {
		return nil, notFoundOr(err, "Connection", id)
	}
	return &conn, nil
}

// GetBetween returns the connection linking the unordered pair, or nil.
func (r *connectionRepository) GetBetween(ctx context.Context, userID1, userID2 uint) (*models.Connection, error) {
	low, high := models.NormalizePair(userID1, userID2)

	var conn models.Connection
	if err := r.db.WithContext(ctx).
		Where("pair_low = ? AND pair_high = ?", low, high).
		First(&conn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &conn, nil
}

// Respond moves a pending connection to status. A connection that is no
// longer pending is left alone and reported as InvalidState.
func (r *connectionRepository) Respond(ctx context.Context, id uint, status models.ConnectionStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where("id = ? AND status = ?", id, models.ConnectionPending).
		Update("status", status)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewInvalidStateError("Connection request has already been answered")
	}
	return nil
}

func (r *connectionRepository) ListAccepted(ctx context.Context, userID uint) ([]models.Connection, error) {
	var conns []models.Connection
	if err := r.db.WithContext(ctx).
		Where("(initiator_id = ? OR receiver_id = ?) AND status = ?", userID, userID, models.ConnectionAccepted).
		Preload("Initiator.Skills").
		Preload("Receiver.Skills").
		Order("updated_at DESC").
		Find(&conns).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return conns, nil
}

// ListPending returns requests awaiting receiverID's answer, newest first.
func (r *connectionRepository) ListPending(ctx context.Context, receiverID uint) ([]models.Connection, error) {
	var conns []models.Connection
	if err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", receiverID, models.ConnectionPending).
		Preload("Initiator.Skills").
		Order("created_at DESC").Order("id DESC").
		Find(&conns).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return conns, nil
}

// Suggest finds active, approved users sharing any of branch, graduation
// year, company or a skill with user, excluding anyone already linked to user
// in any direction or status.
func (r *connectionRepository) Suggest(ctx context.Context, user *models.User, limit int) ([]models.User, error) {
	defer observability.TrackQuery("suggest", "users")()

	var conds []string
	var args []interface{}

	if user.Branch != "" {
		conds = append(conds, "users.branch = ?")
		args = append(args, user.Branch)
	}
	if user.GraduationYear != nil {
		conds = append(conds, "users.graduation_year = ?")
		args = append(args, *user.GraduationYear)
	}
	if user.CurrentCompany != "" {
		conds = append(conds, "LOWER(users.current_company) = ?")
		args = append(args, strings.ToLower(user.CurrentCompany))
	}
	if skills := user.SkillNames(); len(skills) > 0 {
		lowered := make([]string, 0, len(skills))
		for _, s := range skills {
			lowered = append(lowered, strings.ToLower(s))
		}
		conds = append(conds, "EXISTS (SELECT 1 FROM user_skills us WHERE us.user_id = users.id AND LOWER(us.skill) IN ?)")
		args = append(args, lowered)
	}
	if len(conds) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("users.id <> ? AND users.is_active = ? AND users.verification_status = ?",
			user.ID, true, models.VerificationApproved).
		Where("NOT EXISTS (SELECT 1 FROM connections c WHERE (c.initiator_id = ? AND c.receiver_id = users.id) OR (c.receiver_id = ? AND c.initiator_id = users.id))",
			user.ID, user.ID).
		Where("("+strings.Join(conds, " OR ")+")", args...).
		Preload("Skills").
		Order("users.created_at DESC").Order("users.id DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
