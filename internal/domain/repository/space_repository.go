package repository

import (
	"context"

	"github.com/oksasatya/spaceboard/internal/domain/entity"
)

// SpaceRepository persists spaces and their membership.
type SpaceRepository interface {
	// Create inserts the space and its initial members. A taken space key
	// is reported as an apperror conflict.
	Create(ctx context.Context, s *entity.Space) error
	GetByID(ctx context.Context, id string) (*entity.Space, error)
	ListForUser(ctx context.Context, userID string) ([]entity.Space, error)
	IDsForUser(ctx context.Context, userID string) ([]string, error)
	Update(ctx context.Context, s *entity.Space) error
	AddMember(ctx context.Context, spaceID, userID string) error
	RemoveMember(ctx context.Context, spaceID, userID string) error
	// DeleteCascade removes comments, issues, projects and then the space.
	DeleteCascade(ctx context.Context, spaceID string) error
}
