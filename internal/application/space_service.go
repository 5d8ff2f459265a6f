package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/spaceboard/internal/domain/access"
	"github.com/oksasatya/spaceboard/internal/domain/apperror"
	"github.com/oksasatya/spaceboard/internal/domain/entity"
	"github.com/oksasatya/spaceboard/internal/domain/keygen"
	repo "github.com/oksasatya/spaceboard/internal/domain/repository"
)

type SpaceService struct {
	Spaces   repo.SpaceRepository
	Users    repo.UserRepository
	Issues   repo.IssueRepository
	Notifier Notifier
	Logger   *logrus.Logger
}

func NewSpaceService(spaces repo.SpaceRepository, users repo.UserRepository, issues repo.IssueRepository, notifier Notifier, logger *logrus.Logger) *SpaceService {
	return &SpaceService{Spaces: spaces, Users: users, Issues: issues, Notifier: notifier, Logger: logger}
}

type SpaceInput struct {
	Name        string
	Description string
}

// Create derives the space key from the name initials. The creator becomes
// owner and first member. A taken key surfaces as a conflict from the store.
func (s *SpaceService) Create(ctx context.Context, userID string, in SpaceInput) (*entity.Space, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.Validation("please provide a space name")
	}
	key := keygen.SpaceKey(name)
	if key == "" {
		return nil, apperror.Validation("space name must contain at least one letter")
	}
	sp := &entity.Space{
		Name:        name,
		SpaceKey:    key,
		Description: strings.TrimSpace(in.Description),
		OwnerID:     userID,
		MemberIDs:   []string{userID},
	}
	if err := s.Spaces.Create(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *SpaceService) List(ctx context.Context, userID string) ([]entity.Space, error) {
	return s.Spaces.ListForUser(ctx, userID)
}

// Get loads a space for one of its members.
func (s *SpaceService) Get(ctx context.Context, userID, id string) (*entity.Space, error) {
	sp, err := s.Spaces.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.SpaceMember(userID, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *SpaceService) owned(ctx context.Context, userID, id string) (*entity.Space, error) {
	sp, err := s.Spaces.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.SpaceOwner(userID, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

// Update changes name and description. The space key stays as allocated.
func (s *SpaceService) Update(ctx context.Context, userID, id string, in SpaceInput) (*entity.Space, error) {
	sp, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		sp.Name = name
	}
	if desc := strings.TrimSpace(in.Description); desc != "" {
		sp.Description = desc
	}
	if err := s.Spaces.Update(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

// Delete removes the space with every project and issue under it.
func (s *SpaceService) Delete(ctx context.Context, userID, id string) error {
	sp, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.Spaces.DeleteCascade(ctx, sp.ID)
}

func (s *SpaceService) AddMember(ctx context.Context, userID, id, email string) (*entity.Space, error) {
	sp, err := s.Spaces.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := access.SpaceOwner(userID, sp); err != nil {
		return nil, err
	}
	if sp.HasMember(u.ID) {
		return nil, apperror.Conflict("user is already a member of this space")
	}
	if err := s.Spaces.AddMember(ctx, sp.ID, u.ID); err != nil {
		return nil, err
	}
	s.notifyMember(ctx, userID, u, "space", sp.Name)
	return s.Spaces.GetByID(ctx, sp.ID)
}

func (s *SpaceService) RemoveMember(ctx context.Context, userID, id, memberID string) (*entity.Space, error) {
	sp, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if memberID == sp.OwnerID {
		return nil, apperror.Validation("cannot remove the owner from the space")
	}
	if err := s.Spaces.RemoveMember(ctx, sp.ID, memberID); err != nil {
		return nil, err
	}
	return s.Spaces.GetByID(ctx, sp.ID)
}

func (s *SpaceService) Members(ctx context.Context, userID, id string) ([]entity.UserSummary, error) {
	sp, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return sp.Members, nil
}

// ListIssues lists a space's issues, optionally narrowed to one project.
func (s *SpaceService) ListIssues(ctx context.Context, userID, id, projectID string) ([]entity.Issue, error) {
	sp, err := s.Spaces.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.IssueAccess(userID, sp); err != nil {
		return nil, err
	}
	return s.Issues.List(ctx, entity.IssueFilter{SpaceID: sp.ID, ProjectID: projectID})
}

func (s *SpaceService) notifyMember(ctx context.Context, actorID string, u *entity.User, kind, target string) {
	if s.Notifier == nil {
		return
	}
	actor, _ := s.Users.GetByID(ctx, actorID)
	err := s.Notifier.MemberAdded(ctx, MemberAdded{
		RecipientName:  u.Name,
		RecipientEmail: u.Email,
		AddedBy:        displayName(actor),
		TargetKind:     kind,
		TargetName:     target,
	})
	warn(s.Logger, err, "member notification failed", logrus.Fields{"user_id": u.ID, "target": target})
}
