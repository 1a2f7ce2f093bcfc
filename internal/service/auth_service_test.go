package service

import (
	"context"
	"errors"
	"testing"

	"alumnet/internal/auth"
	"alumnet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(noopUserRepo(), hasherStub{}, &tokenIssuerStub{}, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegisterInput
		code  string
	}{
		{
			name:  "admin self-registration",
			input: RegisterInput{Email: "root@example.com", Password: "Passw0rd", Role: models.RoleAdmin},
			code:  models.CodeForbidden,
		},
		{
			name:  "bad email",
			input: RegisterInput{Email: "not-an-email", Password: "Passw0rd", Role: models.RoleAlumni},
			code:  models.CodeInvalidArgument,
		},
		{
			name:  "weak password",
			input: RegisterInput{Email: "a@example.com", Password: "password", Role: models.RoleAlumni},
			code:  models.CodeInvalidArgument,
		},
		{
			name:  "student without college email",
			input: RegisterInput{Email: "s@example.com", Password: "Passw0rd", Role: models.RoleStudent},
			code:  models.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Register(ctx, tt.input)
			assertCode(t, err, tt.code)
		})
	}
}

func TestAuthService_Register_Student(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	var created *models.User
	repo.createWithVerificationRequestFn = func(_ context.Context, u *models.User) (*models.VerificationRequest, error) {
		u.ID = 42
		created = u
		return &models.VerificationRequest{ID: 9, UserID: u.ID, Status: models.VerificationPending}, nil
	}
	repo.createFn = func(_ context.Context, _ *models.User) error {
		t.Fatal("students must be created with a verification request")
		return nil
	}
	tokens := &tokenIssuerStub{}
	svc := NewAuthService(repo, hasherStub{}, tokens, nil)

	res, err := svc.Register(context.Background(), RegisterInput{
		Email:        "  Student@Example.com ",
		Password:     "Passw0rd",
		FirstName:    "Sam",
		LastName:     "Lee",
		Role:         models.RoleStudent,
		CollegeEmail: strPtr("SAM@college.edu"),
	})
	require.NoError(t, err)

	assert.Empty(t, res.Token)
	require.NotNil(t, res.VerificationRequest)
	assert.Equal(t, uint(9), res.VerificationRequest.ID)
	assert.Empty(t, tokens.issued)

	require.NotNil(t, created)
	assert.Equal(t, "student@example.com", created.Email)
	assert.Equal(t, "sam@college.edu", *created.CollegeEmail)
	assert.Equal(t, "hashed:Passw0rd", created.Password)
	assert.False(t, created.IsActive)
	assert.Equal(t, models.VerificationPending, created.VerificationStatus)
}

func TestAuthService_Register_Alumni(t *testing.T) {
	t.Parallel()

	repo := noopUserRepo()
	tokens := &tokenIssuerStub{}
	svc := NewAuthService(repo, hasherStub{}, tokens, nil)

	res, err := svc.Register(context.Background(), RegisterInput{
		Email:     "alum@example.com",
		Password:  "Passw0rd",
		FirstName: "Ada",
		LastName:  "Byron",
		Role:      models.RoleAlumni,
	})
	require.NoError(t, err)

	assert.Equal(t, "token-for-alum@example.com", res.Token)
	assert.Nil(t, res.VerificationRequest)
	assert.True(t, res.User.IsActive)
	assert.Equal(t, models.VerificationApproved, res.User.VerificationStatus)
	assert.Nil(t, res.User.CollegeEmail)
	assert.Equal(t, []uint{1}, tokens.issued)
}

func TestAuthService_Register_Conflicts(t *testing.T) {
	t.Parallel()

	t.Run("email taken", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByEmailFn = func(_ context.Context, _ string) (*models.User, error) {
			return &models.User{ID: 3}, nil
		}
		svc := NewAuthService(repo, hasherStub{}, &tokenIssuerStub{}, nil)

		_, err := svc.Register(context.Background(), RegisterInput{
			Email: "dup@example.com", Password: "Passw0rd", Role: models.RoleTeacher,
		})
		assertCode(t, err, models.CodeConflict)
	})

	t.Run("college email taken", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByCollegeEmailFn = func(_ context.Context, _ string) (*models.User, error) {
			return &models.User{ID: 3}, nil
		}
		svc := NewAuthService(repo, hasherStub{}, &tokenIssuerStub{}, nil)

		_, err := svc.Register(context.Background(), RegisterInput{
			Email: "new@example.com", Password: "Passw0rd", Role: models.RoleStudent,
			CollegeEmail: strPtr("taken@college.edu"),
		})
		assertCode(t, err, models.CodeConflict)
	})
}

func TestAuthService_RegisterPrivileged(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(noopUserRepo(), hasherStub{}, &tokenIssuerStub{}, nil)
	ctx := context.Background()

	res, err := svc.RegisterPrivileged(ctx, RegisterInput{
		Email: "staff@example.com", Password: "Passw0rd", Role: models.RoleStaff,
	})
	require.NoError(t, err)
	assert.True(t, res.User.IsActive)

	_, err = svc.RegisterPrivileged(ctx, RegisterInput{
		Email: "alum@example.com", Password: "Passw0rd", Role: models.RoleAlumni,
	})
	assertValidationError(t, err)
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	active := &models.User{ID: 5, Email: "a@example.com", Password: "hashed:Passw0rd", Role: models.RoleAlumni, IsActive: true}
	pending := &models.User{ID: 6, Email: "p@example.com", Password: "hashed:Passw0rd", Role: models.RoleStudent}

	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		switch email {
		case active.Email:
			return active, nil
		case pending.Email:
			return pending, nil
		}
		return nil, nil
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantMsg  string
	}{
		{name: "unknown email", email: "nobody@example.com", password: "Passw0rd", wantMsg: "Invalid credentials"},
		{name: "wrong password", email: active.Email, password: "Wrong0ne", wantMsg: "Invalid credentials"},
		{name: "wrong password on pending account", email: pending.Email, password: "Wrong0ne", wantMsg: "Invalid credentials"},
		{name: "pending account", email: pending.Email, password: "Passw0rd", wantMsg: "Account is pending verification. Please wait for administrator approval."},
	}

	svc := NewAuthService(repo, hasherStub{}, &tokenIssuerStub{}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Login(context.Background(), tt.email, tt.password)
			assertCode(t, err, models.CodeUnauthenticated)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		tokens := &tokenIssuerStub{}
		svc := NewAuthService(repo, hasherStub{}, tokens, nil)
		res, err := svc.Login(context.Background(), " A@Example.com", "Passw0rd")
		require.NoError(t, err)
		assert.Equal(t, "token-for-a@example.com", res.Token)
		assert.Equal(t, []uint{5}, tokens.issued)
	})

	t.Run("corrupt digest", func(t *testing.T) {
		t.Parallel()
		svc := NewAuthService(repo, hasherStub{compareErr: errors.New("bad digest")}, &tokenIssuerStub{}, nil)
		_, err := svc.Login(context.Background(), active.Email, "Passw0rd")
		assertCode(t, err, models.CodeUnauthenticated)
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Parallel()

	tokens := &tokenIssuerStub{}
	svc := NewAuthService(noopUserRepo(), hasherStub{}, tokens, nil)

	require.NoError(t, svc.Logout(context.Background(), &auth.Claims{UserID: 1, TokenID: "abc"}))
	assert.Equal(t, []string{"abc"}, tokens.revoked)

	tokens.err = errors.New("redis down")
	err := svc.Logout(context.Background(), &auth.Claims{UserID: 1, TokenID: "def"})
	assertCode(t, err, models.CodeInternal)
}
