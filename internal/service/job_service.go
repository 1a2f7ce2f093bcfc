package service

import (
	"context"
	"strings"
	"time"

	"alumnet/internal/models"
	"alumnet/internal/observability"
	"alumnet/internal/repository"
)

// JobService manages the job board.
type JobService struct {
	jobRepo repository.JobRepository
	now     func() time.Time
}

// NewJobService returns a new JobService.
func NewJobService(jobRepo repository.JobRepository) *JobService {
	return &JobService{jobRepo: jobRepo, now: time.Now}
}

// JobInput is the writable part of a posting. Nil fields are left unchanged
// on update.
type JobInput struct {
	Title          *string
	Description    *string
	Company        *string
	Location       *string
	IsRemote       *bool
	EmploymentType *string
	SalaryRange    *string
	ApplyLink      *string
	ExpiryDate     *time.Time
	JobCategory    *string
	IsActive       *bool
}

// JobListInput filters the job board.
type JobListInput struct {
	Category       string
	EmploymentType string
	Search         string
	Page           Page
}

// ParseEmploymentType accepts a known employment type in any case.
func ParseEmploymentType(s string) (models.EmploymentType, bool) {
	switch v := models.EmploymentType(strings.ToUpper(strings.TrimSpace(s))); v {
	case models.EmploymentFullTime, models.EmploymentPartTime, models.EmploymentContract, models.EmploymentInternship:
		return v, true
	}
	return "", false
}

// ParseJobCategory accepts a known job category in any case.
func ParseJobCategory(s string) (models.JobCategory, bool) {
	v := models.JobCategory(strings.ToUpper(strings.TrimSpace(s)))
	for _, c := range models.JobCategories {
		if c == v {
			return v, true
		}
	}
	return "", false
}

func (in JobInput) apply(j *models.JobPosting) error {
	if in.Title != nil {
		j.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		j.Description = strings.TrimSpace(*in.Description)
	}
	if in.Company != nil {
		j.Company = strings.TrimSpace(*in.Company)
	}
	if in.Location != nil {
		j.Location = strings.TrimSpace(*in.Location)
	}
	if in.IsRemote != nil {
		j.IsRemote = *in.IsRemote
	}
	if in.EmploymentType != nil {
		et, ok := ParseEmploymentType(*in.EmploymentType)
		if !ok {
			return models.NewValidationError("Employment type must be one of FULL_TIME, PART_TIME, CONTRACT, INTERNSHIP")
		}
		j.EmploymentType = et
	}
	if in.SalaryRange != nil {
		j.SalaryRange = strings.TrimSpace(*in.SalaryRange)
	}
	if in.ApplyLink != nil {
		j.ApplyLink = strings.TrimSpace(*in.ApplyLink)
	}
	if in.ExpiryDate != nil {
		d := *in.ExpiryDate
		j.ExpiryDate = &d
	}
	if in.JobCategory != nil {
		c, ok := ParseJobCategory(*in.JobCategory)
		if !ok {
			return models.NewValidationError("Unknown job category")
		}
		j.JobCategory = c
	}
	if in.IsActive != nil {
		j.IsActive = *in.IsActive
	}

	if j.Title == "" || j.Description == "" || j.Company == "" {
		return models.NewValidationError("Title, description and company are required")
	}
	if j.EmploymentType == "" {
		return models.NewValidationError("Employment type is required")
	}
	if j.JobCategory == "" {
		j.JobCategory = models.JobCategoryOther
	}
	return nil
}

// Create posts a new opening.
func (s *JobService) Create(ctx context.Context, posterID uint, in JobInput) (*models.JobPosting, error) {
	job := &models.JobPosting{PosterID: posterID, IsActive: true}
	if err := in.apply(job); err != nil {
		return nil, err
	}
	if job.ExpiryDate != nil && job.ExpiryDate.Before(s.now()) {
		return nil, models.NewValidationError("Expiry date must be in the future")
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	return s.jobRepo.GetByID(ctx, job.ID)
}

// List returns open postings newest first.
func (s *JobService) List(ctx context.Context, in JobListInput) ([]models.JobPosting, int64, error) {
	filter := repository.JobFilter{
		Search: strings.TrimSpace(in.Search),
		Now:    s.now(),
		Limit:  in.Page.Size,
		Offset: in.Page.Offset(),
	}
	if in.Category != "" {
		c, ok := ParseJobCategory(in.Category)
		if !ok {
			return nil, 0, models.NewValidationError("Unknown job category")
		}
		filter.Category = c
	}
	if in.EmploymentType != "" {
		et, ok := ParseEmploymentType(in.EmploymentType)
		if !ok {
			return nil, 0, models.NewValidationError("Unknown employment type")
		}
		filter.EmploymentType = et
	}
	return s.jobRepo.List(ctx, filter)
}

// Categories counts open postings per category.
func (s *JobService) Categories(ctx context.Context) ([]models.JobCategoryCount, error) {
	return s.jobRepo.CategoryCounts(ctx, s.now())
}

func (s *JobService) Get(ctx context.Context, id uint) (*models.JobPosting, error) {
	return s.jobRepo.GetByID(ctx, id)
}

// Update edits a posting. Only its poster or an admin may do so.
func (s *JobService) Update(ctx context.Context, actor Actor, id uint, in JobInput) (*models.JobPosting, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(job.PosterID) {
		return nil, models.NewForbiddenError("You can only update your own job postings")
	}
	if err := in.apply(job); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Delete removes a posting.
func (s *JobService) Delete(ctx context.Context, actor Actor, id uint) error {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanModify(job.PosterID) {
		return models.NewForbiddenError("You can only delete your own job postings")
	}
	return s.jobRepo.Delete(ctx, id)
}

// ExpireStale deactivates postings past their expiry date.
func (s *JobService) ExpireStale(ctx context.Context) (int64, error) {
	n, err := s.jobRepo.DeactivateExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	observability.ExpiredJobs.Add(float64(n))
	return n, nil
}
