package server

import (
	"alumnet/internal/middleware"
	"alumnet/internal/models"
	"alumnet/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterRequest is the body of POST /auth/register and /auth/admin/register.
type RegisterRequest struct {
	Email          string  `json:"email" validate:"required,email,max=254"`
	Password       string  `json:"password" validate:"required,password"`
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	LastName       string  `json:"last_name" validate:"required,max=100"`
	Role           string  `json:"role" validate:"required,role"`
	CollegeEmail   *string `json:"college_email" validate:"omitempty,email,max=254"`
	Branch         string  `json:"branch" validate:"max=100"`
	GraduationYear *int    `json:"graduation_year" validate:"omitempty,min=1900,max=2100"`
}

func (r RegisterRequest) input() service.RegisterInput {
	role, _ := models.ParseRole(r.Role)
	return service.RegisterInput{
		Email:          r.Email,
		Password:       r.Password,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Role:           role,
		CollegeEmail:   r.CollegeEmail,
		Branch:         r.Branch,
		GraduationYear: r.GraduationYear,
	}
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is the data of a successful register or login.
type AuthResponse struct {
	Token               string                          `json:"token,omitempty"`
	User                models.UserProfile              `json:"user"`
	VerificationRequest *models.VerificationRequestView `json:"verification_request,omitempty"`
}

func authResponse(res *service.AuthResult) AuthResponse {
	out := AuthResponse{Token: res.Token, User: res.User.Profile()}
	if res.VerificationRequest != nil {
		v := res.VerificationRequest.View()
		out.VerificationRequest = &v
	}
	return out
}

// Register handles POST /api/auth/register
// @Summary Register an account
// @Description Creates an account. STUDENT accounts need a college email and stay inactive until an administrator approves them.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration"
// @Success 201 {object} models.Envelope{data=AuthResponse}
// @Failure 400 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	res, err := s.authService.Register(c.UserContext(), req.input())
	if err != nil {
		return respondError(c, err)
	}

	msg := "Registration successful"
	if res.Token == "" {
		msg = "Registration successful. Your account is pending verification."
	}
	return models.Respond(c, fiber.StatusCreated, msg, authResponse(res))
}

// RegisterPrivileged handles POST /api/auth/admin/register
// @Summary Register an ADMIN or STAFF account
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RegisterRequest true "Registration"
// @Success 201 {object} models.Envelope{data=AuthResponse}
// @Failure 400 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Router /auth/admin/register [post]
func (s *Server) RegisterPrivileged(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	res, err := s.authService.RegisterPrivileged(c.UserContext(), req.input())
	if err != nil {
		return respondError(c, err)
	}
	// The admin's own session is untouched; no token for the new account.
	res.Token = ""
	return models.Respond(c, fiber.StatusCreated, "Account created", authResponse(res))
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} models.Envelope{data=AuthResponse}
// @Failure 401 {object} models.Envelope
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	res, err := s.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Login successful", authResponse(res))
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Description Revokes the presented token until it expires.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.authService.Logout(c.UserContext(), middleware.CurrentClaims(c)); err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Logged out", nil)
}

// Me handles GET /api/auth/me
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope{data=models.UserProfile}
// @Failure 401 {object} models.Envelope
// @Router /auth/me [get]
func (s *Server) Me(c *fiber.Ctx) error {
	user, err := s.authService.Me(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Profile retrieved", user.Profile())
}
