package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"alumnet/internal/models"
	"alumnet/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	t.Parallel()

	svc := NewUserService(noopUserRepo())
	ctx := context.Background()
	self := Actor{UserID: 1, Role: models.RoleAlumni}

	tests := []struct {
		name  string
		input UpdateProfileInput
	}{
		{name: "blank first name", input: UpdateProfileInput{FirstName: strPtr("   ")}},
		{name: "blank last name", input: UpdateProfileInput{LastName: strPtr("")}},
		{name: "bio too long", input: UpdateProfileInput{Bio: strPtr(strings.Repeat("x", 1001))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.UpdateProfile(ctx, self, 1, tt.input)
			assertValidationError(t, err)
		})
	}
}

func TestUserService_UpdateProfile_Ownership(t *testing.T) {
	t.Parallel()

	svc := NewUserService(noopUserRepo())
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, Actor{UserID: 2, Role: models.RoleTeacher}, 1, UpdateProfileInput{Bio: strPtr("hi")})
	assertCode(t, err, models.CodeForbidden)

	_, err = svc.UpdateProfile(ctx, Actor{UserID: 2, Role: models.RoleAdmin}, 1, UpdateProfileInput{Bio: strPtr("hi")})
	require.NoError(t, err)
}

func TestUserService_UpdateProfile_PartialUpdate(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, FirstName: "Old", LastName: "Name", Bio: "old bio", CurrentCompany: "Initech"}, nil
	}

	var gotSkills []string
	var gotUser *models.User
	repo.updateProfileFn = func(_ context.Context, u *models.User, skills []string) error {
		gotUser = u
		gotSkills = skills
		return nil
	}

	svc := NewUserService(repo)
	user, err := svc.UpdateProfile(context.Background(), Actor{UserID: 1}, 1, UpdateProfileInput{
		FirstName: strPtr(" New "),
		IsMentor:  boolPtr(true),
		Skills:    []string{"Go", " go ", "", "Postgres"},
	})
	require.NoError(t, err)

	assert.Same(t, gotUser, user)
	assert.Equal(t, "New", user.FirstName)
	assert.Equal(t, "Name", user.LastName)
	assert.Equal(t, "old bio", user.Bio)
	assert.Equal(t, "Initech", user.CurrentCompany)
	assert.True(t, user.IsMentor)
	assert.Equal(t, []string{"Go", "Postgres"}, gotSkills)
}

func TestUserService_UpdateProfile_SkillsUntouched(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	called := false
	repo.updateProfileFn = func(_ context.Context, _ *models.User, skills []string) error {
		called = true
		assert.Nil(t, skills)
		return nil
	}

	svc := NewUserService(repo)
	_, err := svc.UpdateProfile(context.Background(), Actor{UserID: 1}, 1, UpdateProfileInput{Branch: strPtr("CSE")})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestUserService_UpdateProfile_RepoError(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.updateProfileFn = func(_ context.Context, _ *models.User, _ []string) error {
		return models.NewInternalError(errors.New("db down"))
	}

	svc := NewUserService(repo)
	_, err := svc.UpdateProfile(context.Background(), Actor{UserID: 1}, 1, UpdateProfileInput{Bio: strPtr("x")})
	assertCode(t, err, models.CodeInternal)
}

func TestUserService_ListUsers(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	var got repository.UserFilter
	repo.listFn = func(_ context.Context, f repository.UserFilter) ([]models.User, int64, error) {
		got = f
		return []models.User{{ID: 1}}, 41, nil
	}

	svc := NewUserService(repo)
	users, total, err := svc.ListUsers(context.Background(), UserListInput{
		Role:   models.RoleAlumni,
		Branch: " CSE ",
		Search: " ada ",
		Page:   NewPage(3, 20, DefaultPageSize),
	})
	require.NoError(t, err)

	assert.Len(t, users, 1)
	assert.Equal(t, int64(41), total)
	assert.Equal(t, repository.UserFilter{Role: models.RoleAlumni, Branch: "CSE", Search: "ada", Limit: 20, Offset: 40}, got)
}

func TestUserService_GetUserByID(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		if id == 404 {
			return nil, models.NewNotFoundError("User", id)
		}
		return &models.User{ID: id}, nil
	}
	svc := NewUserService(repo)

	user, err := svc.GetUserByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint(3), user.ID)

	_, err = svc.GetUserByID(context.Background(), 404)
	assertCode(t, err, models.CodeNotFound)
}

func TestNewPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		number, size int
		want         Page
	}{
		{name: "defaults", number: 0, size: 0, want: Page{Number: 1, Size: DefaultPageSize}},
		{name: "clamped", number: 2, size: 1000, want: Page{Number: 2, Size: MaxPageSize}},
		{name: "negative page", number: -4, size: 5, want: Page{Number: 1, Size: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NewPage(tt.number, tt.size, DefaultPageSize)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, 10, Page{Number: 3, Size: 5}.Offset())
}
