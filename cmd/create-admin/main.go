package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/noah-isme/academic-performance-api/internal/models"
	"github.com/noah-isme/academic-performance-api/internal/repository"
	"github.com/noah-isme/academic-performance-api/pkg/config"
	"github.com/noah-isme/academic-performance-api/pkg/database"
	"github.com/noah-isme/academic-performance-api/pkg/logger"
)

const minPasswordLength = 8

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	users := repository.NewUserRepository(db)
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Administrator ===")
	name := prompt(reader, "Full name: ")
	email := strings.ToLower(prompt(reader, "Email: "))
	if name == "" || email == "" {
		fmt.Println("Error: name and email are required")
		os.Exit(1)
	}
	role := models.UserRole(strings.ToUpper(prompt(reader, "Role [ADMIN|TEACHER] (default ADMIN): ")))
	if role == "" {
		role = models.RoleAdmin
	}
	if role != models.RoleAdmin && role != models.RoleTeacher {
		fmt.Println("Error: role must be ADMIN or TEACHER")
		os.Exit(1)
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		logr.Fatal("failed to read password", zap.Error(err))
	}
	if len(password) < minPasswordLength {
		fmt.Printf("Error: password must be at least %d characters\n", minPasswordLength)
		os.Exit(1)
	}

	if _, err := users.FindByEmail(ctx, email); err == nil {
		fmt.Printf("Error: a user with email %s already exists\n", email)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		logr.Fatal("failed to hash password", zap.Error(err))
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     name,
		Role:         role,
		Active:       true,
	}
	if err := users.Create(ctx, user); err != nil {
		logr.Fatal("failed to create user", zap.Error(err))
	}

	logr.Info("administrator created", zap.String("user_id", user.ID), zap.String("email", user.Email), zap.String("role", string(user.Role)))
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	value, _ := reader.ReadString('\n')
	return strings.TrimSpace(value)
}
