package repository

import (
	"context"

	"github.com/oksasatya/spaceboard/internal/domain/entity"
)

type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	// ListByIssue returns comments oldest first with their authors populated.
	ListByIssue(ctx context.Context, issueID string) ([]entity.Comment, error)
	Update(ctx context.Context, c *entity.Comment) error
	Delete(ctx context.Context, id string) error
}
