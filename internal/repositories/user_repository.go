package repositories

import (
	"context"

	"github.com/prep-ai/interview-service/internal/models"
)

// UserRepository interface for user operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error

	// Validation and checks
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
