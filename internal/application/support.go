package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/spaceboard/internal/domain/entity"
	repo "github.com/oksasatya/spaceboard/internal/domain/repository"
)

var errBlobStoreMissing = errors.New("blob store not configured")

func warn(logger *logrus.Logger, err error, msg string, fields logrus.Fields) {
	if logger == nil || err == nil {
		return
	}
	logger.WithError(err).WithFields(fields).Warn(msg)
}

// resolveIssue accepts either the internal UUID or the human issue id (ET-001).
func resolveIssue(ctx context.Context, issues repo.IssueRepository, ref string) (*entity.Issue, error) {
	ref = strings.TrimSpace(ref)
	if _, err := uuid.Parse(ref); err == nil {
		return issues.GetByID(ctx, ref)
	}
	return issues.GetByIssueID(ctx, strings.ToUpper(ref))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func displayName(u *entity.User) string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
