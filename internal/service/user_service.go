package service

import (
	"context"
	"strings"

	"alumnet/internal/models"
	"alumnet/internal/repository"
)

const maxBioLen = 1000

type UserService struct {
	userRepo repository.UserRepository
}

// UpdateProfileInput carries the editable profile fields. Nil fields are left
// unchanged.
type UpdateProfileInput struct {
	FirstName      *string
	LastName       *string
	Bio            *string
	CurrentJob     *string
	CurrentCompany *string
	Skills         []string
	GraduationYear *int
	Branch         *string
	Avatar         *string
	IsMentor       *bool
}

// UserListInput filters the directory.
type UserListInput struct {
	Role   models.Role
	Branch string
	Search string
	Page   Page
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) ListUsers(ctx context.Context, in UserListInput) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, repository.UserFilter{
		Role:   in.Role,
		Branch: strings.TrimSpace(in.Branch),
		Search: strings.TrimSpace(in.Search),
		Limit:  in.Page.Size,
		Offset: in.Page.Offset(),
	})
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile edits a profile. Only the owner or an admin may do so.
func (s *UserService) UpdateProfile(ctx context.Context, actor Actor, id uint, in UpdateProfileInput) (*models.User, error) {
	if !actor.CanModify(id) {
		return nil, models.NewForbiddenError("You can only update your own profile")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		v := strings.TrimSpace(*in.FirstName)
		if v == "" {
			return nil, models.NewValidationError("First name cannot be empty")
		}
		user.FirstName = v
	}
	if in.LastName != nil {
		v := strings.TrimSpace(*in.LastName)
		if v == "" {
			return nil, models.NewValidationError("Last name cannot be empty")
		}
		user.LastName = v
	}
	if in.Bio != nil {
		if len(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 1000 characters)")
		}
		user.Bio = *in.Bio
	}
	if in.CurrentJob != nil {
		user.CurrentJob = strings.TrimSpace(*in.CurrentJob)
	}
	if in.CurrentCompany != nil {
		user.CurrentCompany = strings.TrimSpace(*in.CurrentCompany)
	}
	if in.GraduationYear != nil {
		user.GraduationYear = in.GraduationYear
	}
	if in.Branch != nil {
		user.Branch = strings.TrimSpace(*in.Branch)
	}
	if in.Avatar != nil {
		user.Avatar = strings.TrimSpace(*in.Avatar)
	}
	if in.IsMentor != nil {
		user.IsMentor = *in.IsMentor
	}

	var skills []string
	if in.Skills != nil {
		skills = normalizeSkills(in.Skills)
	}

	if err := s.userRepo.UpdateProfile(ctx, user, skills); err != nil {
		return nil, err
	}
	return user, nil
}

// normalizeSkills trims and de-duplicates case-insensitively, keeping the
// first spelling. The result is never nil.
func normalizeSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
