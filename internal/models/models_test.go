package models

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleAllowed(t *testing.T) {
	staff := []Role{RoleAdmin, RoleStaff}

	assert.True(t, RoleAllowed(RoleAdmin, staff))
	assert.True(t, RoleAllowed(RoleStaff, staff))
	assert.False(t, RoleAllowed(RoleStudent, staff))
	assert.False(t, RoleAllowed(RoleAlumni, nil))
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"student", RoleStudent, true},
		{" ALUMNI ", RoleAlumni, true},
		{"dpu_staff", RoleStaff, true},
		{"janitor", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.True(t, RoleStudent.IsRestricted())
	assert.False(t, RoleTeacher.IsRestricted())
}

func TestAppErrorHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewUnauthenticatedError("x"), http.StatusUnauthorized},
		{NewForbiddenError("x"), http.StatusForbidden},
		{NewNotFoundError("User", 1), http.StatusNotFound},
		{NewValidationError("x"), http.StatusBadRequest},
		{NewConflictError("x"), http.StatusBadRequest},
		{NewInvalidStateError("x"), http.StatusBadRequest},
		{NewInternalError(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.HTTPStatus(), tt.err.Code)
	}
}

func TestAsAppErrorWrapsUnknown(t *testing.T) {
	appErr := AsAppError(errors.New("db down"))
	assert.Equal(t, CodeInternal, appErr.Code)
	assert.Equal(t, "Internal server error", appErr.Message)
	assert.True(t, HasCode(NewConflictError("dup"), CodeConflict))
}

func TestConnectionNormalizesPair(t *testing.T) {
	c := &Connection{InitiatorID: 9, ReceiverID: 4}
	assert.NoError(t, c.BeforeCreate(nil))
	assert.Equal(t, uint(4), c.PairLow)
	assert.Equal(t, uint(9), c.PairHigh)

	c.Initiator = User{ID: 9}
	c.Receiver = User{ID: 4}
	assert.Equal(t, uint(4), c.OtherParty(9).ID)
	assert.Equal(t, uint(9), c.OtherParty(4).ID)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 21)
	assert.Equal(t, 3, p.Pages)
	assert.Equal(t, 0, NewPagination(1, 10, 0).Pages)
}
