// Package users provides database operations for API users.
//
// Tokens are shown once at creation; only their sha256 digest is stored.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, token, err := repo.CreateUser(ctx, "Alice", "alice@example.com")
//	user, err = repo.GetUserByToken(ctx, token)
package users

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/mediashelf/internal/apperr"
	"github.com/mrlokans/mediashelf/internal/database"
	"github.com/mrlokans/mediashelf/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user and returns it with its plaintext API token.
func (r *Repository) CreateUser(ctx context.Context, displayName, email string) (*entities.User, string, error) {
	if displayName == "" {
		return nil, "", apperr.InvalidInput("display name is required")
	}

	token, err := generateToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	user := &entities.User{
		DisplayName: displayName,
		Email:       strings.ToLower(strings.TrimSpace(email)),
		TokenHash:   HashToken(token),
	}

	err = r.db.WithContext(ctx).Create(user).Error
	if database.IsUniqueViolation(err) {
		return nil, "", apperr.Conflict("a user with this email already exists")
	}
	if err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	return user, token, nil
}

// GetUserByToken retrieves a user by their plaintext token.
func (r *Repository) GetUserByToken(ctx context.Context, token string) (*entities.User, error) {
	if token == "" {
		return nil, apperr.NotFound("user")
	}
	var user entities.User
	err := r.db.WithContext(ctx).Where("token_hash = ?", HashToken(token)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("get user by token: %w", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// ListUsers returns every user ordered by id.
func (r *Repository) ListUsers(ctx context.Context) ([]entities.User, error) {
	var users []entities.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// HashToken returns the hex sha256 digest stored for token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
