// Package access decides whether a user may act on a space, project, issue,
// or comment. Callers load the target first so a missing record is reported
// as not found before any of these checks run.
package access

import (
	"github.com/oksasatya/spaceboard/internal/domain/apperror"
	"github.com/oksasatya/spaceboard/internal/domain/entity"
)

// SpaceRole resolves owner, member, or none for the space.
func SpaceRole(userID string, s *entity.Space) entity.Role {
	if s == nil {
		return entity.RoleNone
	}
	return s.RoleOf(userID)
}

// ProjectRole resolves owner, member, or none for the project.
func ProjectRole(userID string, p *entity.Project) entity.Role {
	if p == nil {
		return entity.RoleNone
	}
	return p.RoleOf(userID)
}

func SpaceMember(userID string, s *entity.Space) error {
	if SpaceRole(userID, s).CanView() {
		return nil
	}
	return apperror.Forbidden("not authorized to access this space")
}

func SpaceOwner(userID string, s *entity.Space) error {
	if SpaceRole(userID, s).CanAdminister() {
		return nil
	}
	return apperror.Forbidden("only the space owner can perform this action")
}

func ProjectMember(userID string, p *entity.Project) error {
	if ProjectRole(userID, p).CanView() {
		return nil
	}
	return apperror.Forbidden("not authorized to access this project")
}

func ProjectOwner(userID string, p *entity.Project) error {
	if ProjectRole(userID, p).CanAdminister() {
		return nil
	}
	return apperror.Forbidden("only the project owner can perform this action")
}

// IssueAccess gates viewing and updating an issue through its parent space.
func IssueAccess(userID string, parent *entity.Space) error {
	if SpaceRole(userID, parent).CanView() {
		return nil
	}
	return apperror.Forbidden("not authorized to access this issue")
}

// IssueDelete is stricter than IssueAccess: only the space owner may delete.
func IssueDelete(userID string, parent *entity.Space) error {
	if SpaceRole(userID, parent).CanAdminister() {
		return nil
	}
	return apperror.Forbidden("not authorized to delete this issue")
}

// CommentEdit allows the comment author or the owner of the issue's project.
func CommentEdit(userID string, c *entity.Comment, project *entity.Project) error {
	if c != nil && userID != "" && c.UserID == userID {
		return nil
	}
	if project != nil && userID != "" && project.OwnerID == userID {
		return nil
	}
	return apperror.Forbidden("not authorized to modify this comment")
}
