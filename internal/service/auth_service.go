package service

import (
	"context"
	"log/slog"
	"strings"

	"alumnet/internal/auth"
	"alumnet/internal/models"
	"alumnet/internal/observability"
	"alumnet/internal/repository"
	"alumnet/internal/validation"
)

// TokenIssuer issues and revokes session tokens.
type TokenIssuer interface {
	Issue(user *models.User) (string, *auth.Claims, error)
	Revoke(ctx context.Context, claims *auth.Claims) error
}

// AuthService handles registration, login and logout.
type AuthService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	tokens   TokenIssuer
	logger   *slog.Logger
}

// NewAuthService returns a new AuthService.
func NewAuthService(userRepo repository.UserRepository, hasher auth.PasswordHasher, tokens TokenIssuer, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{userRepo: userRepo, hasher: hasher, tokens: tokens, logger: logger}
}

// RegisterInput is a self-service or admin registration.
type RegisterInput struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	Role           models.Role
	CollegeEmail   *string
	Branch         string
	GraduationYear *int
}

// AuthResult is a registered or logged-in user. Token is empty when the
// account cannot log in yet.
type AuthResult struct {
	User                *models.User
	Token               string
	VerificationRequest *models.VerificationRequest
}

// Register creates an account. STUDENT accounts start inactive with a pending
// verification request; every other self-registerable role starts active.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Role == models.RoleAdmin {
		return nil, models.NewForbiddenError("Admin registration is not allowed through this route")
	}
	return s.register(ctx, in)
}

// RegisterPrivileged lets an admin create ADMIN or STAFF accounts.
func (s *AuthService) RegisterPrivileged(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Role != models.RoleAdmin && in.Role != models.RoleStaff {
		return nil, models.NewValidationError("Role must be ADMIN or STAFF")
	}
	return s.register(ctx, in)
}

func (s *AuthService) register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	ctx, span := observability.StartSpan(ctx, "auth", "register")
	var err error
	defer func() { span.End(err) }()

	email := normalizeEmail(in.Email)
	if err = validation.ValidateEmail(email); err != nil {
		err = models.NewValidationError(err.Error())
		return nil, err
	}
	if err = validation.ValidatePassword(in.Password); err != nil {
		err = models.NewValidationError(err.Error())
		return nil, err
	}

	var collegeEmail *string
	if in.Role == models.RoleStudent {
		ce := normalizeEmail(trimmed(in.CollegeEmail))
		if ce == "" {
			err = models.NewValidationError("College email is required for students")
			return nil, err
		}
		if err = validation.ValidateEmail(ce); err != nil {
			err = models.NewValidationError("College " + err.Error())
			return nil, err
		}
		collegeEmail = &ce
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		err = models.NewConflictError("User already exists with this email")
		return nil, err
	}
	if collegeEmail != nil {
		existing, err = s.userRepo.GetByCollegeEmail(ctx, *collegeEmail)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			err = models.NewConflictError("College email is already registered")
			return nil, err
		}
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		err = models.NewInternalError(err)
		return nil, err
	}

	user := &models.User{
		Email:          email,
		CollegeEmail:   collegeEmail,
		Password:       digest,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Role:           in.Role,
		Branch:         strings.TrimSpace(in.Branch),
		GraduationYear: in.GraduationYear,
	}

	result := &AuthResult{User: user}
	if in.Role.IsRestricted() {
		user.IsActive = false
		user.VerificationStatus = models.VerificationPending
		result.VerificationRequest, err = s.userRepo.CreateWithVerificationRequest(ctx, user)
		if err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "registration awaiting verification",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.String("role", string(user.Role)))
		return result, nil
	}

	user.IsActive = true
	user.VerificationStatus = models.VerificationApproved
	if err = s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	result.Token, _, err = s.tokens.Issue(user)
	if err != nil {
		err = models.NewInternalError(err)
		return nil, err
	}
	return result, nil
}

// Login checks credentials and issues a token for an active account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthenticatedError("Invalid credentials")
	}

	ok, err := s.hasher.Compare(user.Password, password)
	if err != nil {
		s.logger.WarnContext(ctx, "stored credential could not be compared",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.String("error", err.Error()))
		return nil, models.NewUnauthenticatedError("Invalid credentials")
	}
	if !ok {
		return nil, models.NewUnauthenticatedError("Invalid credentials")
	}

	if !user.IsActive {
		return nil, models.NewUnauthenticatedError("Account is pending verification. Please wait for administrator approval.")
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Logout revokes the presented token.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Me returns the caller's account.
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
