package repositories

import (
	"context"
	"fmt"
	"time"

	"atelier/internal/apperrors"
	"atelier/internal/models"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
type MemoryUserRepository struct {
	table *memoryTable[models.User]
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	table := newMemoryTable(
		func(u *models.User) *string { return &u.ID },
		func(u *models.User, created, updated time.Time) { u.CreatedAt, u.UpdatedAt = created, updated },
		func(u models.User) time.Time { return u.CreatedAt },
		func(u models.User) models.User { return u },
	)
	table.conflict = func(stored, candidate models.User) error {
		if stored.Username == candidate.Username {
			return fmt.Errorf("user with username %s already exists", candidate.Username)
		}
		if stored.Email == candidate.Email {
			return fmt.Errorf("user with email %s already exists", candidate.Email)
		}
		return nil
	}
	return &MemoryUserRepository{table: table}
}

// Create adds a new user.
func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Store("create user", err)
	}
	return apperrors.Store("create user", r.table.insert(user))
}

// GetByUsername returns a user by their username.
func (r *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(ctx, username, func(u models.User) bool { return u.Username == username })
}

// GetByEmail returns a user by their email.
func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(ctx, email, func(u models.User) bool { return u.Email == email })
}

// GetByID returns a user by their ID.
func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(ctx, id, func(u models.User) bool { return u.ID == id })
}

func (r *MemoryUserRepository) find(ctx context.Context, key string, match func(models.User) bool) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Store("get user", err)
	}
	user, ok := r.table.find(match)
	if !ok {
		return nil, apperrors.NotFound("user", key)
	}
	return &user, nil
}
