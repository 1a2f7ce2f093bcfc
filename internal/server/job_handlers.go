package server

import (
	"time"

	"alumnet/internal/middleware"
	"alumnet/internal/models"
	"alumnet/internal/service"

	"github.com/gofiber/fiber/v2"
)

// JobRequest is the body of POST /jobs and PUT /jobs/:id.
type JobRequest struct {
	Title          *string    `json:"title" validate:"omitempty,max=200"`
	Description    *string    `json:"description"`
	Company        *string    `json:"company" validate:"omitempty,max=150"`
	Location       *string    `json:"location" validate:"omitempty,max=200"`
	IsRemote       *bool      `json:"is_remote"`
	EmploymentType *string    `json:"employment_type"`
	SalaryRange    *string    `json:"salary_range" validate:"omitempty,max=100"`
	ApplyLink      *string    `json:"apply_link" validate:"omitempty,url"`
	ExpiryDate     *time.Time `json:"expiry_date"`
	JobCategory    *string    `json:"job_category" validate:"omitempty,jobcat"`
	IsActive       *bool      `json:"is_active"`
}

func (r JobRequest) input() service.JobInput {
	return service.JobInput{
		Title:          r.Title,
		Description:    r.Description,
		Company:        r.Company,
		Location:       r.Location,
		IsRemote:       r.IsRemote,
		EmploymentType: r.EmploymentType,
		SalaryRange:    r.SalaryRange,
		ApplyLink:      r.ApplyLink,
		ExpiryDate:     r.ExpiryDate,
		JobCategory:    r.JobCategory,
		IsActive:       r.IsActive,
	}
}

// CreateJob handles POST /api/jobs
// @Summary Post a job
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body JobRequest true "Job posting"
// @Success 201 {object} models.Envelope{data=models.JobView}
// @Failure 400 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Router /jobs [post]
func (s *Server) CreateJob(c *fiber.Ctx) error {
	var req JobRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	job, err := s.jobService.Create(c.UserContext(), middleware.CurrentUserID(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Job posted", job.View())
}

// GetJobs handles GET /api/jobs
// @Summary Browse open jobs
// @Description Active, unexpired postings, newest first.
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param category query string false "Job category"
// @Param employment_type query string false "Employment type"
// @Param search query string false "Matches title, company or description"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} models.Envelope
// @Router /jobs [get]
func (s *Server) GetJobs(c *fiber.Ctx) error {
	in := service.JobListInput{
		Category:       c.Query("category"),
		EmploymentType: c.Query("employment_type"),
		Search:         c.Query("search"),
		Page:           parsePage(c, service.DefaultPageSize),
	}

	jobs, total, err := s.jobService.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]models.JobView, 0, len(jobs))
	for i := range jobs {
		views = append(views, jobs[i].View())
	}
	return models.Respond(c, fiber.StatusOK, "Jobs retrieved", newPage(views, in.Page, total))
}

// GetJobCategories handles GET /api/jobs/categories
// @Summary Open jobs per category
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope{data=[]models.JobCategoryCount}
// @Router /jobs/categories [get]
func (s *Server) GetJobCategories(c *fiber.Ctx) error {
	counts, err := s.jobService.Categories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if counts == nil {
		counts = []models.JobCategoryCount{}
	}
	return models.Respond(c, fiber.StatusOK, "Job categories retrieved", counts)
}

// GetJob handles GET /api/jobs/:id
// @Summary Get a job posting
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} models.Envelope{data=models.JobView}
// @Failure 404 {object} models.Envelope
// @Router /jobs/{id} [get]
func (s *Server) GetJob(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	job, err := s.jobService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Job retrieved", job.View())
}

// UpdateJob handles PUT /api/jobs/:id
// @Summary Update a job posting
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Param request body JobRequest true "Fields to change"
// @Success 200 {object} models.Envelope{data=models.JobView}
// @Failure 403 {object} models.Envelope
// @Router /jobs/{id} [put]
func (s *Server) UpdateJob(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req JobRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	job, err := s.jobService.Update(c.UserContext(), actor(c), id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Job updated", job.View())
}

// DeleteJob handles DELETE /api/jobs/:id
// @Summary Delete a job posting
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Job ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Router /jobs/{id} [delete]
func (s *Server) DeleteJob(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.jobService.Delete(c.UserContext(), actor(c), id); err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Job deleted", nil)
}
