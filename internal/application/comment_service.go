package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/spaceboard/internal/domain/access"
	"github.com/oksasatya/spaceboard/internal/domain/apperror"
	"github.com/oksasatya/spaceboard/internal/domain/entity"
	repo "github.com/oksasatya/spaceboard/internal/domain/repository"
)

type CommentService struct {
	Comments repo.CommentRepository
	Issues   repo.IssueRepository
	Spaces   repo.SpaceRepository
	Projects repo.ProjectRepository
	Logger   *logrus.Logger
}

func NewCommentService(comments repo.CommentRepository, issues repo.IssueRepository, spaces repo.SpaceRepository, projects repo.ProjectRepository, logger *logrus.Logger) *CommentService {
	return &CommentService{Comments: comments, Issues: issues, Spaces: spaces, Projects: projects, Logger: logger}
}

// issueFor resolves the issue and checks that the user can see it.
func (s *CommentService) issueFor(ctx context.Context, userID, ref string) (*entity.Issue, error) {
	issue, err := resolveIssue(ctx, s.Issues, ref)
	if err != nil {
		return nil, err
	}
	sp, err := s.Spaces.GetByID(ctx, issue.SpaceID)
	if err != nil {
		return nil, err
	}
	if err := access.IssueAccess(userID, sp); err != nil {
		return nil, err
	}
	return issue, nil
}

func (s *CommentService) Create(ctx context.Context, userID, issueRef, text string) (*entity.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.Validation("comment text is required")
	}
	issue, err := s.issueFor(ctx, userID, issueRef)
	if err != nil {
		return nil, err
	}
	c := &entity.Comment{IssueID: issue.ID, UserID: userID, Text: text}
	if err := s.Comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return s.Comments.GetByID(ctx, c.ID)
}

// List returns the issue's comments, oldest first.
func (s *CommentService) List(ctx context.Context, userID, issueRef string) ([]entity.Comment, error) {
	issue, err := s.issueFor(ctx, userID, issueRef)
	if err != nil {
		return nil, err
	}
	return s.Comments.ListByIssue(ctx, issue.ID)
}

// editable loads a comment for modification. Only its author or the owner
// of the issue's project passes.
func (s *CommentService) editable(ctx context.Context, userID, issueRef, commentID string) (*entity.Comment, error) {
	c, err := s.Comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	issue, err := resolveIssue(ctx, s.Issues, issueRef)
	if err != nil {
		return nil, err
	}
	if c.IssueID != issue.ID {
		return nil, apperror.Validation("comment does not belong to this issue")
	}
	var project *entity.Project
	if issue.ProjectID != "" {
		project, err = s.Projects.GetByID(ctx, issue.ProjectID)
		if err != nil && !apperror.Is(err, apperror.KindNotFound) {
			return nil, err
		}
	}
	if err := access.CommentEdit(userID, c, project); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentService) Update(ctx context.Context, userID, issueRef, commentID, text string) (*entity.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.Validation("comment text is required")
	}
	c, err := s.editable(ctx, userID, issueRef, commentID)
	if err != nil {
		return nil, err
	}
	c.Text = text
	if err := s.Comments.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.Comments.GetByID(ctx, c.ID)
}

func (s *CommentService) Delete(ctx context.Context, userID, issueRef, commentID string) error {
	c, err := s.editable(ctx, userID, issueRef, commentID)
	if err != nil {
		return err
	}
	if err := s.Comments.Delete(ctx, c.ID); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"comment_id": c.ID, "user_id": userID}).Debug("comment deleted")
	}
	return nil
}
