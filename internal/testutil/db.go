// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"alumnet/internal/config"
	"alumnet/internal/database"
	"alumnet/internal/models"

	"gorm.io/gorm"
)

var userSeq atomic.Uint64

// NewTestDB returns a fresh in-memory SQLite database with the full schema.
// It is closed when the test finishes.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Connect(&config.Config{
		Env:      "test",
		DBDriver: database.DriverSQLite,
		DBPath:   ":memory:",
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// UserOption customizes a user built by CreateUser.
type UserOption func(*models.User)

// WithRole sets the user's role. STUDENT users also get a college email.
func WithRole(role models.Role) UserOption {
	return func(u *models.User) {
		u.Role = role
		if role == models.RoleStudent && u.CollegeEmail == nil {
			ce := strings.Replace(u.Email, "@example.com", "@college.edu", 1)
			u.CollegeEmail = &ce
		}
	}
}

// Inactive marks the user inactive and pending verification.
func Inactive() UserOption {
	return func(u *models.User) {
		u.IsActive = false
		u.VerificationStatus = models.VerificationPending
	}
}

// WithProfile sets the attributes used for connection suggestions.
func WithProfile(branch string, gradYear int, company string, skills ...string) UserOption {
	return func(u *models.User) {
		u.Branch = branch
		if gradYear != 0 {
			y := gradYear
			u.GraduationYear = &y
		}
		u.CurrentCompany = company
		for _, s := range skills {
			u.Skills = append(u.Skills, models.UserSkill{Skill: s})
		}
	}
}

// WithPassword stores digest as the credential hash.
func WithPassword(digest string) UserOption {
	return func(u *models.User) {
		u.Password = digest
	}
}

// WithEmail overrides the generated email.
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// CreateUser inserts an active, approved ALUMNI user with a unique email.
func CreateUser(t testing.TB, db *gorm.DB, opts ...UserOption) *models.User {
	t.Helper()

	n := userSeq.Add(1)
	u := &models.User{
		Email:              fmt.Sprintf("user%d@example.com", n),
		Password:           "not-a-real-hash",
		FirstName:          "Test",
		LastName:           fmt.Sprintf("User%d", n),
		Role:               models.RoleAlumni,
		IsActive:           true,
		VerificationStatus: models.VerificationApproved,
	}
	for _, opt := range opts {
		opt(u)
	}

	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}
