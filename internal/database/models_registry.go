package database

import "alumnet/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models,
// parents before children.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserSkill{},
		&models.VerificationRequest{},
		&models.Connection{},
		&models.Event{},
		&models.EventRSVP{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Message{},
		&models.JobPosting{},
		&models.Donation{},
		&models.Fund{},
		&models.Expense{},
	}
}
