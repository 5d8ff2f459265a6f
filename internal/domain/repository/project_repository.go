package repository

import (
	"context"

	"github.com/oksasatya/spaceboard/internal/domain/entity"
)

// ProjectRepository persists projects and their membership.
type ProjectRepository interface {
	// Create reports a taken issue key as an apperror conflict.
	Create(ctx context.Context, p *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	IssueKeyExists(ctx context.Context, key string) (bool, error)
	// ListForUser returns projects the user owns or belongs to; an empty
	// spaceID lists across all spaces.
	ListForUser(ctx context.Context, userID, spaceID string) ([]entity.Project, error)
	Update(ctx context.Context, p *entity.Project) error
	AddMember(ctx context.Context, projectID, userID string) error
	RemoveMember(ctx context.Context, projectID, userID string) error
	// DeleteCascade removes the project's issues and their comments first.
	DeleteCascade(ctx context.Context, projectID string) error
}
