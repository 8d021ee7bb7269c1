// Package users declares the server-side repository for accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/memodo/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills its ID. A taken email yields
	// common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
