package repository

import (
	"context"
	"time"

	"alumnet/internal/models"
	"alumnet/internal/observability"

	"gorm.io/gorm"
)

// JobFilter narrows the job board.
type JobFilter struct {
	Category       models.JobCategory
	EmploymentType models.EmploymentType
	Search         string
	// Now hides postings whose expiry date has passed.
	Now    time.Time
	Limit  int
	Offset int
}

// JobRepository persists job postings.
type JobRepository interface {
	Create(ctx context.Context, job *models.JobPosting) error
	GetByID(ctx context.Context, id uint) (*models.JobPosting, error)
	Update(ctx context.Context, job *models.JobPosting) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter JobFilter) ([]models.JobPosting, int64, error)
	CategoryCounts(ctx context.Context, now time.Time) ([]models.JobCategoryCount, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository returns a new JobRepository implementation.
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *models.JobPosting) error {
	if err := r.db.WithContext(ctx).Omit("Poster").Create(job).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, id uint) (*models.JobPosting, error) {
	var job models.JobPosting
	if err := r.db.WithContext(ctx).Preload("Poster").First(&job, id).Error; err != nil {
		return nil, notFoundOr(err, "Job posting", id)
	}
	return &job, nil
}

func (r *jobRepository) Update(ctx context.Context, job *models.JobPosting) error {
	if err := r.db.WithContext(ctx).Model(job).Select(
		"Title", "Description", "Company", "Location", "IsRemote", "EmploymentType",
		"SalaryRange", "ApplyLink", "ExpiryDate", "JobCategory", "IsActive",
	).Updates(job).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *jobRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.JobPosting{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func openJobs(db *gorm.DB, now time.Time) *gorm.DB {
	return db.Where("is_active = ? AND (expiry_date IS NULL OR expiry_date >= ?)", true, now)
}

// List returns open postings newest first.
func (r *jobRepository) List(ctx context.Context, filter JobFilter) ([]models.JobPosting, int64, error) {
	defer observability.TrackQuery("list", "job_postings")()

	q := openJobs(r.db.WithContext(ctx).Model(&models.JobPosting{}), filter.Now)
	if filter.Category != "" {
		q = q.Where("job_category = ?", filter.Category)
	}
	if filter.EmploymentType != "" {
		q = q.Where("employment_type = ?", filter.EmploymentType)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("LOWER(title) LIKE ? OR LOWER(company) LIKE ? OR LOWER(description) LIKE ?", p, p, p)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var jobs []models.JobPosting
	if err := paginate(q.Preload("Poster").Order("created_at DESC").Order("id DESC"), filter.Limit, filter.Offset).
		Find(&jobs).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return jobs, total, nil
}

// CategoryCounts returns every category with its number of open postings.
func (r *jobRepository) CategoryCounts(ctx context.Context, now time.Time) ([]models.JobCategoryCount, error) {
	var rows []models.JobCategoryCount
	if err := openJobs(r.db.WithContext(ctx).Model(&models.JobPosting{}), now).
		Select("job_category AS category, COUNT(*) AS count").
		Group("job_category").
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	byCategory := make(map[models.JobCategory]int64, len(rows))
	for _, row := range rows {
		byCategory[row.Category] = row.Count
	}
	counts := make([]models.JobCategoryCount, 0, len(models.JobCategories))
	for _, c := range models.JobCategories {
		counts = append(counts, models.JobCategoryCount{Category: c, Count: byCategory[c]})
	}
	return counts, nil
}

// DeactivateExpired closes active postings whose expiry date is before now.
func (r *jobRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.JobPosting{}).
		Where("is_active = ? AND expiry_date IS NOT NULL AND expiry_date < ?", true, now).
		Update("is_active", false)
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}
