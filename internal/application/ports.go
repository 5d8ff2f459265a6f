package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/spaceboard/internal/domain/entity"
)

// BlobStore uploads an object and returns its public URL.
type BlobStore interface {
	Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// IssueIndex keeps a full-text index of issues.
type IssueIndex interface {
	IndexIssue(ctx context.Context, i *entity.Issue) error
	RemoveIssue(ctx context.Context, id string) error
	SearchIssueIDs(ctx context.Context, keyword string, spaceIDs []string, size int) ([]string, error)
}

// UserIndex keeps a searchable directory of users.
type UserIndex interface {
	IndexUser(ctx context.Context, u *entity.User) error
	SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error)
}

// MemberAdded describes a user joining a space or project.
type MemberAdded struct {
	RecipientName  string
	RecipientEmail string
	AddedBy        string
	TargetKind     string // "space" or "project"
	TargetName     string
}

// IssueAssigned describes an issue handed to a user.
type IssueAssigned struct {
	RecipientName  string
	RecipientEmail string
	AssignedBy     string
	IssueID        string
	Title          string
	SpaceName      string
	Priority       string
	DueDate        *time.Time
}

// Notifier delivers out-of-band notifications. Failures never fail the
// request that triggered them.
type Notifier interface {
	MemberAdded(ctx context.Context, ev MemberAdded) error
	IssueAssigned(ctx context.Context, ev IssueAssigned) error
}

// IssueMetrics counts issue lifecycle events.
type IssueMetrics interface {
	IssueCreated(spaceKey string)
}
