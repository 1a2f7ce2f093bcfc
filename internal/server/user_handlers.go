package server

import (
	"alumnet/internal/models"
	"alumnet/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfileRequest is the body of PUT /users/:id. Omitted fields are left
// unchanged.
type UpdateProfileRequest struct {
	FirstName      *string  `json:"first_name" validate:"omitempty,max=100"`
	LastName       *string  `json:"last_name" validate:"omitempty,max=100"`
	Bio            *string  `json:"bio"`
	CurrentJob     *string  `json:"current_job" validate:"omitempty,max=150"`
	CurrentCompany *string  `json:"current_company" validate:"omitempty,max=150"`
	Skills         []string `json:"skills" validate:"omitempty,max=50,dive,max=60"`
	GraduationYear *int     `json:"graduation_year" validate:"omitempty,min=1900,max=2100"`
	Branch         *string  `json:"branch" validate:"omitempty,max=100"`
	Avatar         *string  `json:"avatar" validate:"omitempty,url"`
	IsMentor       *bool    `json:"is_mentor"`
}

// GetUsers handles GET /api/users
// @Summary Browse the directory
// @Description Lists active, approved users, newest first.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role filter"
// @Param branch query string false "Branch filter"
// @Param search query string false "Matches name, email or company"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} models.Envelope
// @Router /users [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	in := service.UserListInput{
		Branch: c.Query("branch"),
		Search: c.Query("search"),
		Page:   parsePage(c, service.DefaultPageSize),
	}
	if raw := c.Query("role"); raw != "" {
		role, ok := models.ParseRole(raw)
		if !ok {
			return respondError(c, models.NewValidationError("Invalid role"))
		}
		in.Role = role
	}

	users, total, err := s.userService.ListUsers(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Users retrieved", newPage(models.Profiles(users), in.Page, total))
}

// GetUser handles GET /api/users/:id
// @Summary Get a user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.Envelope{data=models.UserProfile}
// @Failure 404 {object} models.Envelope
// @Router /users/{id} [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "User retrieved", user.Profile())
}

// UpdateUser handles PUT /api/users/:id
// @Summary Update a profile
// @Description Only the profile owner or an administrator may update it.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.Envelope{data=models.UserProfile}
// @Failure 403 {object} models.Envelope
// @Router /users/{id} [put]
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), actor(c), id, service.UpdateProfileInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Bio:            req.Bio,
		CurrentJob:     req.CurrentJob,
		CurrentCompany: req.CurrentCompany,
		Skills:         req.Skills,
		GraduationYear: req.GraduationYear,
		Branch:         req.Branch,
		Avatar:         req.Avatar,
		IsMentor:       req.IsMentor,
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Profile updated", user.Profile())
}
