package repository

import (
	"context"
	"errors"

	"alumnet/internal/models"

	"gorm.io/gorm"
)

// PostFilter narrows a post listing.
type PostFilter struct {
	Category   string
	AuthorID   uint
	PublicOnly bool
	Limit      int
	Offset     int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter) ([]models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, userID, postID uint) (bool, error)
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := withCounts(r.db.WithContext(ctx).Model(&models.Post{})).
		Preload("Author").
		First(&post, id).Error; err != nil {
		return nil, notFoundOr(err, "Post", id)
	}
	return &post, nil
}

// List returns posts newest first with like and comment counts.
func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]models.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if filter.PublicOnly {
		q = q.Where("posts.is_public = ?", true)
	}
	if filter.AuthorID != 0 {
		q = q.Where("posts.author_id = ?", filter.AuthorID)
	}
	if filter.Category != "" {
		q = q.Where("posts.category = ?", filter.Category)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []models.Post
	if err := paginate(withCounts(q).Preload("Author").
		Order("posts.created_at DESC").Order("posts.id DESC"), filter.Limit, filter.Offset).
		Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

// withCounts adds subqueries for the like and comment totals.
func withCounts(db *gorm.DB) *gorm.DB {
	return db.Select("posts.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) AS comments_count")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Model(post).
		Select("Title", "Content", "Image", "IsPublic", "Category").
		Updates(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ToggleLike flips userID's like on postID and reports the new state.
// Unliking removes the row.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}

		if err := tx.Create(&models.Like{UserID: userID, PostID: postID}).Error; err != nil {
			if isUniqueViolation(err) {
				return models.NewConflictError("Post is already liked")
			}
			return models.NewInternalError(err)
		}
		liked = true
		return nil
	})
	return liked, err
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var like models.Like
	err := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return true, nil
}
