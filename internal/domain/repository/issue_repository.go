package repository

import (
	"context"

	"github.com/oksasatya/spaceboard/internal/domain/entity"
)

// IssueRepository persists issues. Reads return populated references.
type IssueRepository interface {
	// CreateNext bumps the issue counter of i.SpaceID, sets i.IssueID from
	// the post-increment value and inserts i, all in one transaction, so a
	// failed insert never burns a number. Concurrent callers for one space
	// are serialized by the counter.
	CreateNext(ctx context.Context, i *entity.Issue) (spaceKey string, err error)
	GetByID(ctx context.Context, id string) (*entity.Issue, error)
	GetByIssueID(ctx context.Context, issueID string) (*entity.Issue, error)
	List(ctx context.Context, f entity.IssueFilter) ([]entity.Issue, error)
	Update(ctx context.Context, i *entity.Issue) error
	AddAttachment(ctx context.Context, id, path string) error
	// Delete removes the issue together with its comments.
	Delete(ctx context.Context, id string) error
}
