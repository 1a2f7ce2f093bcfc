// Package main provides admin management utilities for AlumNet.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"alumnet/internal/config"
	"alumnet/internal/database"
	"alumnet/internal/models"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  admin promote <user_id>          - Make user an active, approved ADMIN")
		fmt.Println("  admin set-role <user_id> <role>  - Change a user's role (STUDENT, ALUMNI, TEACHER, ADMIN, STAFF)")
		fmt.Println("  admin list-admins                - List ADMIN and STAFF accounts")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch os.Args[1] {
	case "promote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin promote <user_id>")
			os.Exit(1)
		}
		setRole(db, os.Args[2], models.RoleAdmin)

	case "set-role":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin set-role <user_id> <role>")
			os.Exit(1)
		}
		role, ok := models.ParseRole(os.Args[3])
		if !ok {
			fmt.Printf("Unknown role: %s\n", os.Args[3])
			os.Exit(1)
		}
		setRole(db, os.Args[2], role)

	case "list-admins":
		listAdmins(db)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

// setRole changes the user's role. Privileged roles are also activated and
// approved, since they never pass through verification.
func setRole(db *gorm.DB, userID string, role models.Role) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User with ID %s not found\n", userID)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}

	if user.Role == role {
		fmt.Printf("User %s (ID: %d) is already %s\n", user.Email, user.ID, role)
		return
	}

	updates := map[string]any{"role": role}
	if role == models.RoleAdmin || role == models.RoleStaff {
		updates["is_active"] = true
		updates["verification_status"] = models.VerificationApproved
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		log.Fatalf("Failed to update role: %v", err)
	}

	fmt.Printf("Updated %s (ID: %d) to %s\n", user.Email, user.ID, role)
}

func listAdmins(db *gorm.DB) {
	var admins []models.User
	if err := db.Where("role IN ?", []models.Role{models.RoleAdmin, models.RoleStaff}).
		Order("role, id").Find(&admins).Error; err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admins found in the system")
		return
	}

	fmt.Println(strings.Repeat("-", 60))
	for _, a := range admins {
		fmt.Printf("ID: %d | %-5s | %s %s <%s> active=%t\n", a.ID, a.Role, a.FirstName, a.LastName, a.Email, a.IsActive)
	}
	fmt.Println(strings.Repeat("-", 60))
}
