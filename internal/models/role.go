package models

import "strings"

// Role is the closed set of account roles.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleAlumni  Role = "ALUMNI"
	RoleTeacher Role = "TEACHER"
	RoleAdmin   Role = "ADMIN"
	RoleStaff   Role = "STAFF"
)

var allRoles = []Role{RoleStudent, RoleAlumni, RoleTeacher, RoleAdmin, RoleStaff}

// ParseRole normalizes s into a Role. DPU_STAFF is accepted as an alias for STAFF.
func ParseRole(s string) (Role, bool) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "DPU_STAFF" {
		return RoleStaff, true
	}
	for _, r := range allRoles {
		if string(r) == v {
			return r, true
		}
	}
	return "", false
}

// IsRestricted reports whether accounts with this role need administrative
// verification before they can log in.
func (r Role) IsRestricted() bool {
	return r == RoleStudent
}

// RoleAllowed reports whether role is in the allow-list.
func RoleAllowed(role Role, allowed []Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
