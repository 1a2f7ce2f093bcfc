package validation

import (
	"testing"

	"alumnet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Role     string `json:"role" validate:"required,role"`
	Year     int    `json:"graduation_year" validate:"omitempty,gte=1950,lte=2100"`
}

func TestStruct(t *testing.T) {
	t.Parallel()
	valid := signupRequest{Email: "a@example.com", Password: "SecurePass12", Role: "alumni"}

	tests := []struct {
		name    string
		mutate  func(r *signupRequest)
		wantMsg string
	}{
		{"valid", func(*signupRequest) {}, ""},
		{"missing email", func(r *signupRequest) { r.Email = "" }, "email is required"},
		{"bad email", func(r *signupRequest) { r.Email = "nope" }, "email must be a valid email address"},
		{"weak password", func(r *signupRequest) { r.Password = "short" }, "password must be at least 8 characters long"},
		{"unknown role", func(r *signupRequest) { r.Role = "WIZARD" }, "role must be one of STUDENT, ALUMNI, TEACHER, ADMIN, STAFF"},
		{"staff alias", func(r *signupRequest) { r.Role = "DPU_STAFF" }, ""},
		{"year range", func(r *signupRequest) { r.Year = 1800 }, "graduation_year must be greater than or equal to 1950"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := Struct(&req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, models.HasCode(err, models.CodeInvalidArgument))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestCustomTags(t *testing.T) {
	t.Parallel()
	type rsvp struct {
		Status   string `json:"status" validate:"required,rsvp"`
		Category string `json:"category" validate:"omitempty,jobcat"`
	}

	assert.NoError(t, Struct(&rsvp{Status: "going", Category: "engineering"}))
	assert.EqualError(t, Struct(&rsvp{Status: "ATTENDING"}), "status must be one of GOING, MAYBE, NOT_GOING")
	assert.EqualError(t, Struct(&rsvp{Status: "MAYBE", Category: "ASTROLOGY"}), "category is not a known job category")
}
