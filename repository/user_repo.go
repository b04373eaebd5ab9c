package repository

import (
	"context"

	"rrlogistics/models"
)

// UserRepository is the user directory. Passwords are stored as bcrypt hashes.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.AppUser) error
	GetUserByID(ctx context.Context, id string) (*models.AppUser, error)
	GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error)
	ListUsers(ctx context.Context, skip, limit int64) ([]*models.AppUser, error)
	UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) error
}
