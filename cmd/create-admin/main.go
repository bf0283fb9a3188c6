package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/medcart/pharmacy-api/internal/config"
	"github.com/medcart/pharmacy-api/internal/domain"
	"github.com/medcart/pharmacy-api/internal/repository/postgres"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run cmd/create-admin/main.go <email> <password> [first-name] [last-name]")
		fmt.Println("Example: go run cmd/create-admin/main.go admin@medcart.io \"s3cret-pass\" Admin User")
		os.Exit(1)
	}

	email := os.Args[1]
	password := os.Args[2]
	firstName := "Admin"
	lastName := "User"
	if len(os.Args) > 3 {
		firstName = os.Args[3]
	}
	if len(os.Args) > 4 {
		lastName = os.Args[4]
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// Hash the password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	// Create repositories
	repos := postgres.NewRepositories(db, logger)

	// Create admin user
	admin := &domain.User{
		Email:        email,
		PasswordHash: string(passwordHash),
		FirstName:    firstName,
		LastName:     lastName,
		Role:         domain.UserRoleAdmin,
		IsActive:     true,
	}

	err = repos.User.Create(context.Background(), admin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create admin: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Admin created successfully!\n\n")
	fmt.Printf("User ID: %s\n", admin.ID.String())
	fmt.Printf("Email: %s\n", admin.Email)
	fmt.Printf("\nLog in via POST /api/auth/login to obtain a token.\n")
}
