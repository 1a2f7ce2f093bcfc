// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"alumnet/internal/models"
	"alumnet/internal/observability"

	"gorm.io/gorm"
)

// UserFilter narrows a user directory listing.
type UserFilter struct {
	Role   models.Role
	Branch string
	Search string
	// IncludeUnverified lists inactive and unapproved accounts too.
	IncludeUnverified bool
	Limit             int
	Offset            int
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByCollegeEmail(ctx context.Context, collegeEmail string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	CreateWithVerificationRequest(ctx context.Context, user *models.User) (*models.VerificationRequest, error)
	UpdateProfile(ctx context.Context, user *models.User, skills []string) error
	List(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Skills").First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no user has the email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// GetByCollegeEmail returns nil, nil when no user has the college email.
func (r *userRepository) GetByCollegeEmail(ctx context.Context, collegeEmail string) (*models.User, error) {
	return r.findOne(ctx, "college_email = ?", collegeEmail)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Skills").Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// CreateWithVerificationRequest stores a restricted-role user together with its
// pending verification request. Either both rows exist or neither does.
func (r *userRepository) CreateWithVerificationRequest(ctx context.Context, user *models.User) (*models.VerificationRequest, error) {
	var req *models.VerificationRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if isUniqueViolation(err) {
				return models.NewConflictError("User already exists")
			}
			return models.NewInternalError(err)
		}

		req = &models.VerificationRequest{
			UserID: user.ID,
			Status: models.VerificationPending,
		}
		if err := tx.Create(req).Error; err != nil {
			if isUniqueViolation(err) {
				return models.NewConflictError("Verification request already exists")
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// UpdateProfile saves the editable profile columns. A nil skills slice leaves
// skills untouched; an empty one clears them.
func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User, skills []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Select(
			"FirstName", "LastName", "Bio", "CurrentJob", "CurrentCompany",
			"GraduationYear", "Branch", "Avatar", "IsMentor",
		).Updates(user).Error; err != nil {
			return err
		}

		if skills == nil {
			return nil
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserSkill{}).Error; err != nil {
			return err
		}
		user.Skills = make([]models.UserSkill, 0, len(skills))
		for _, s := range skills {
			user.Skills = append(user.Skills, models.UserSkill{UserID: user.ID, Skill: s})
		}
		if len(user.Skills) == 0 {
			return nil
		}
		return tx.Create(&user.Skills).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	defer observability.TrackQuery("list", "users")()

	q := r.db.WithContext(ctx).Model(&models.User{})
	if !filter.IncludeUnverified {
		q = q.Where("is_active = ? AND verification_status = ?", true, models.VerificationApproved)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Branch != "" {
		q = q.Where("branch = ?", filter.Branch)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(current_company) LIKE ?", p, p, p, p)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var users []models.User
	if err := paginate(q.Preload("Skills").Order("created_at DESC").Order("id DESC"), filter.Limit, filter.Offset).
		Find(&users).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return users, total, nil
}
