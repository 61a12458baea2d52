package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/castellan-dev/castellan/internal/auth"
	"github.com/castellan-dev/castellan/internal/config"
	"github.com/castellan-dev/castellan/internal/db"
	"github.com/castellan-dev/castellan/internal/models"
	"github.com/castellan-dev/castellan/internal/rbac"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: go run scripts/create_admin.go <username> <email> <password>")
		os.Exit(1)
	}

	username := os.Args[1]
	email := os.Args[2]
	password := os.Args[3]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}
	if err := rbac.InitEnforcer(database, slog.Default()); err != nil {
		log.Fatalf("Failed to initialize RBAC: %v", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := database.Create(&user).Error; err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}
	if err := rbac.MakeAdmin(user.ID); err != nil {
		log.Fatalf("Failed to grant admin role: %v", err)
	}

	fmt.Printf("Admin user %q created (%s)\n", username, user.ID)
}
