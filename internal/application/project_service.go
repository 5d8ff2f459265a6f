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

var ErrProjectKeyTaken = apperror.Conflict("issue key already exists, please choose a different one")

type ProjectService struct {
	Projects repo.ProjectRepository
	Spaces   repo.SpaceRepository
	Users    repo.UserRepository
	Keys     keygen.ProjectKeyGenerator
	Notifier Notifier
	Logger   *logrus.Logger
}

func NewProjectService(projects repo.ProjectRepository, spaces repo.SpaceRepository, users repo.UserRepository, notifier Notifier, logger *logrus.Logger) *ProjectService {
	return &ProjectService{
		Projects: projects,
		Spaces:   spaces,
		Users:    users,
		Keys:     keygen.NewProjectKeyGenerator(),
		Notifier: notifier,
		Logger:   logger,
	}
}

type ProjectInput struct {
	Name        string
	Description string
	IssueKey    string
	Color       string
	SpaceID     string
}

// Create allocates the issue key and stores the project with the creator
// as owner and first member. The caller must belong to the target space.
func (s *ProjectService) Create(ctx context.Context, userID string, in ProjectInput) (*entity.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.Validation("project name is required")
	}
	if strings.TrimSpace(in.SpaceID) == "" {
		return nil, apperror.Validation("space id is required")
	}
	sp, err := s.Spaces.GetByID(ctx, in.SpaceID)
	if err != nil {
		return nil, err
	}
	if err := access.SpaceMember(userID, sp); err != nil {
		return nil, err
	}

	key, err := s.allocateKey(ctx, name, in.IssueKey)
	if err != nil {
		return nil, err
	}

	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = entity.DefaultProjectColor
	}
	p := &entity.Project{
		Name:           name,
		Description:    strings.TrimSpace(in.Description),
		IssueKey:       key,
		Color:          color,
		SpaceID:        sp.ID,
		OwnerID:        userID,
		MemberIDs:      []string{userID},
		KanbanStatuses: append([]string(nil), entity.DefaultKanbanStatuses...),
	}
	if err := s.Projects.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) allocateKey(ctx context.Context, name, explicit string) (string, error) {
	if key := keygen.NormalizeProjectKey(explicit); key != "" {
		taken, err := s.Projects.IssueKeyExists(ctx, key)
		if err != nil {
			return "", err
		}
		if taken {
			return "", ErrProjectKeyTaken
		}
		return key, nil
	}
	return s.Keys.Generate(ctx, name, s.Projects.IssueKeyExists)
}

func (s *ProjectService) List(ctx context.Context, userID, spaceID string) ([]entity.Project, error) {
	return s.Projects.ListForUser(ctx, userID, spaceID)
}

func (s *ProjectService) Get(ctx context.Context, userID, id string) (*entity.Project, error) {
	p, err := s.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.ProjectMember(userID, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) owned(ctx context.Context, userID, id string) (*entity.Project, error) {
	p, err := s.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.ProjectOwner(userID, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update is owner-only. The project stays in its space; a new explicit
// issue key must be free.
func (s *ProjectService) Update(ctx context.Context, userID, id string, in ProjectInput) (*entity.Project, error) {
	p, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(in.Name); v != "" {
		p.Name = v
	}
	if v := strings.TrimSpace(in.Description); v != "" {
		p.Description = v
	}
	if v := strings.TrimSpace(in.Color); v != "" {
		p.Color = v
	}
	if in.SpaceID != "" && in.SpaceID != p.SpaceID {
		return nil, apperror.Validation("a project cannot be moved to another space")
	}
	if key := keygen.NormalizeProjectKey(in.IssueKey); key != "" && key != p.IssueKey {
		taken, err := s.Projects.IssueKeyExists(ctx, key)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrProjectKeyTaken
		}
		p.IssueKey = key
	}
	if err := s.Projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.Projects.GetByID(ctx, p.ID)
}

// Delete removes the project along with its issues and their comments.
func (s *ProjectService) Delete(ctx context.Context, userID, id string) error {
	p, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.Projects.DeleteCascade(ctx, p.ID)
}

func (s *ProjectService) AddMember(ctx context.Context, userID, id, email string) (*entity.Project, error) {
	p, err := s.Projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.NotFound("user not found with that email")
		}
		return nil, err
	}
	if err := access.ProjectOwner(userID, p); err != nil {
		return nil, err
	}
	if p.HasMember(u.ID) {
		return nil, apperror.Conflict("user is already a member of this project")
	}
	if err := s.Projects.AddMember(ctx, p.ID, u.ID); err != nil {
		return nil, err
	}
	s.notifyMember(ctx, userID, u, p.Name)
	return s.Projects.GetByID(ctx, p.ID)
}

func (s *ProjectService) RemoveMember(ctx context.Context, userID, id, memberID string) (*entity.Project, error) {
	p, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if memberID == p.OwnerID {
		return nil, apperror.Validation("cannot remove the owner from the project")
	}
	if err := s.Projects.RemoveMember(ctx, p.ID, memberID); err != nil {
		return nil, err
	}
	return s.Projects.GetByID(ctx, p.ID)
}

// UpdateKanbanStatuses replaces the board columns; any member may do it.
func (s *ProjectService) UpdateKanbanStatuses(ctx context.Context, userID, id string, statuses []string) (*entity.Project, error) {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	cleaned := make([]string, 0, len(statuses))
	seen := make(map[string]bool, len(statuses))
	for _, st := range statuses {
		st = strings.TrimSpace(st)
		if st == "" || seen[st] {
			continue
		}
		seen[st] = true
		cleaned = append(cleaned, st)
	}
	if len(cleaned) == 0 {
		return nil, apperror.Validation("at least one status is required")
	}
	p.KanbanStatuses = cleaned
	if err := s.Projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.Projects.GetByID(ctx, p.ID)
}

func (s *ProjectService) notifyMember(ctx context.Context, actorID string, u *entity.User, target string) {
	if s.Notifier == nil {
		return
	}
	actor, _ := s.Users.GetByID(ctx, actorID)
	err := s.Notifier.MemberAdded(ctx, MemberAdded{
		RecipientName:  u.Name,
		RecipientEmail: u.Email,
		AddedBy:        displayName(actor),
		TargetKind:     "project",
		TargetName:     target,
	})
	warn(s.Logger, err, "member notification failed", logrus.Fields{"user_id": u.ID, "target": target})
}
