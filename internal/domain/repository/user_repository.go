package repository

import (
	"context"

	"github.com/oksasatya/spaceboard/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Create and Update report a duplicate email as an apperror conflict.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}
