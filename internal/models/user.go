// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// VerificationStatus tracks where an identity is in the verification workflow.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationApproved VerificationStatus = "APPROVED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// User is an alumni-network identity of any role.
type User struct {
	ID                 uint               `gorm:"primaryKey" json:"id"`
	Email              string             `gorm:"uniqueIndex;size:254;not null" json:"email"`
	CollegeEmail       *string            `gorm:"uniqueIndex;size:254" json:"college_email,omitempty"`
	Password           string             `gorm:"not null" json:"-"`
	FirstName          string             `gorm:"size:100;not null" json:"first_name"`
	LastName           string             `gorm:"size:100;not null" json:"last_name"`
	Role               Role               `gorm:"type:varchar(20);not null;index" json:"role"`
	IsActive           bool               `gorm:"not null;default:false" json:"is_active"`
	VerificationStatus VerificationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"verification_status"`
	Branch             string             `gorm:"size:100;index" json:"branch"`
	GraduationYear     *int               `gorm:"index" json:"graduation_year,omitempty"`
	CurrentJob         string             `gorm:"size:150" json:"current_job"`
	CurrentCompany     string             `gorm:"size:150;index" json:"current_company"`
	Bio                string             `gorm:"type:text" json:"bio"`
	Avatar             string             `json:"avatar"`
	IsMentor           bool               `gorm:"not null;default:false" json:"is_mentor"`
	Skills             []UserSkill        `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	DeletedAt          gorm.DeletedAt     `gorm:"index" json:"-"`
}

// UserSkill is one skill tag on a profile. Skills live in their own table so
// overlap can be queried on every supported dialect.
type UserSkill struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	UserID uint   `gorm:"not null;uniqueIndex:idx_user_skill" json:"-"`
	Skill  string `gorm:"size:60;not null;uniqueIndex:idx_user_skill;index" json:"skill"`
}

// SkillNames returns the skill tags as plain strings.
func (u *User) SkillNames() []string {
	names := make([]string, 0, len(u.Skills))
	for _, s := range u.Skills {
		names = append(names, s.Skill)
	}
	return names
}

// UserProfile is the public projection of a User.
type UserProfile struct {
	ID                 uint               `json:"id"`
	Email              string             `json:"email"`
	CollegeEmail       *string            `json:"college_email,omitempty"`
	FirstName          string             `json:"first_name"`
	LastName           string             `json:"last_name"`
	Role               Role               `json:"role"`
	IsActive           bool               `json:"is_active"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	Branch             string             `json:"branch,omitempty"`
	GraduationYear     *int               `json:"graduation_year,omitempty"`
	CurrentJob         string             `json:"current_job,omitempty"`
	CurrentCompany     string             `json:"current_company,omitempty"`
	Bio                string             `json:"bio,omitempty"`
	Avatar             string             `json:"avatar,omitempty"`
	IsMentor           bool               `json:"is_mentor"`
	Skills             []string           `json:"skills"`
	CreatedAt          time.Time          `json:"created_at"`
}

// Profile projects the user into its public shape.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:                 u.ID,
		Email:              u.Email,
		CollegeEmail:       u.CollegeEmail,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Role:               u.Role,
		IsActive:           u.IsActive,
		VerificationStatus: u.VerificationStatus,
		Branch:             u.Branch,
		GraduationYear:     u.GraduationYear,
		CurrentJob:         u.CurrentJob,
		CurrentCompany:     u.CurrentCompany,
		Bio:                u.Bio,
		Avatar:             u.Avatar,
		IsMentor:           u.IsMentor,
		Skills:             u.SkillNames(),
		CreatedAt:          u.CreatedAt,
	}
}

// UserSummary is the compact author/participant shape embedded in other
// resources.
type UserSummary struct {
	ID             uint   `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Role           Role   `json:"role"`
	Avatar         string `json:"avatar,omitempty"`
	CurrentCompany string `json:"current_company,omitempty"`
}

// Summary returns the compact projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           u.Role,
		Avatar:         u.Avatar,
		CurrentCompany: u.CurrentCompany,
	}
}

// Profiles projects a slice of users.
func Profiles(users []User) []UserProfile {
	out := make([]UserProfile, 0, len(users))
	for i := range users {
		out = append(out, users[i].Profile())
	}
	return out
}
