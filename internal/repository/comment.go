package repository

import (
	"context"

	"alumnet/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).First(&comment.Author, comment.AuthorID).Error; err != nil {
		return notFoundOr(err, "User", comment.AuthorID)
	}
	return nil
}

// ListByPost returns comments oldest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var comments []models.Comment
	if err := paginate(q.Preload("Author").Order("created_at ASC").Order("id ASC"), limit, offset).
		Find(&comments).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return comments, total, nil
}
