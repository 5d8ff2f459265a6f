package application

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/spaceboard/internal/domain/access"
	"github.com/oksasatya/spaceboard/internal/domain/apperror"
	"github.com/oksasatya/spaceboard/internal/domain/entity"
	repo "github.com/oksasatya/spaceboard/internal/domain/repository"
)

const (
	sidebarLimit     = 3
	suggestionLimit  = 10
	searchIndexLimit = 200
)

var attachmentTypes = map[string]bool{
	"jpeg": true, "jpg": true, "png": true, "gif": true, "pdf": true, "txt": true,
	"doc": true, "docx": true, "xls": true, "xlsx": true, "ppt": true, "pptx": true,
}

type IssueService struct {
	Issues   repo.IssueRepository
	Comments repo.CommentRepository
	Spaces   repo.SpaceRepository
	Projects repo.ProjectRepository
	Users    repo.UserRepository
	Index    IssueIndex
	Blobs    BlobStore
	Notifier Notifier
	Logger   *logrus.Logger
	Metrics  IssueMetrics

	// MaxAttachmentBytes caps uploads; zero disables the check.
	MaxAttachmentBytes int64
}

func NewIssueService(issues repo.IssueRepository, comments repo.CommentRepository, spaces repo.SpaceRepository, projects repo.ProjectRepository, users repo.UserRepository, index IssueIndex, blobs BlobStore, notifier Notifier, logger *logrus.Logger, maxAttachmentBytes int64) *IssueService {
	return &IssueService{
		Issues:             issues,
		Comments:           comments,
		Spaces:             spaces,
		Projects:           projects,
		Users:              users,
		Index:              index,
		Blobs:              blobs,
		Notifier:           notifier,
		Logger:             logger,
		MaxAttachmentBytes: maxAttachmentBytes,
	}
}

type CreateIssueInput struct {
	ProjectID   string
	Title       string
	Description string
	Status      entity.IssueStatus
	Priority    entity.IssuePriority
	AssigneeID  string
	Team        entity.Team
	DueDate     *time.Time
	ReporterID  string
}

// Create allocates the next id of the space and stores the issue. The
// counter bump is a single atomic store operation, so concurrent creators
// in one space always get distinct, gap-free numbers.
func (s *IssueService) Create(ctx context.Context, userID, spaceID string, in CreateIssueInput) (*entity.Issue, error) {
	if strings.TrimSpace(in.ProjectID) == "" {
		return nil, apperror.Validation("project id is required to create an issue")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.Validation("issue title is required")
	}
	if in.Status == "" {
		in.Status = entity.StatusToDo
	}
	if in.Priority == "" {
		in.Priority = entity.PriorityMedium
	}
	if err := validateEnums(in.Status, in.Priority, in.Team); err != nil {
		return nil, err
	}

	sp, err := s.Spaces.GetByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if err := access.IssueAccess(userID, sp); err != nil {
		return nil, err
	}
	project, err := s.Projects.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.SpaceID != sp.ID {
		return nil, apperror.Validation("project does not belong to this space")
	}
	assignee, err := s.lookupUser(ctx, in.AssigneeID, "assignee")
	if err != nil {
		return nil, err
	}
	reporterID := in.ReporterID
	if reporterID == "" {
		reporterID = userID
	} else if _, err := s.lookupUser(ctx, reporterID, "reporter"); err != nil {
		return nil, err
	}

	issue := &entity.Issue{
		SpaceID:     sp.ID,
		ProjectID:   project.ID,
		Title:       title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		AssigneeID:  in.AssigneeID,
		Team:        in.Team,
		DueDate:     in.DueDate,
		CreatedByID: userID,
		ReporterID:  reporterID,
		Attachments: []string{},
	}
	spaceKey, err := s.Issues.CreateNext(ctx, issue)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"issue_id": issue.IssueID, "space_id": sp.ID}).Debug("issue created")
	}
	if s.Metrics != nil {
		s.Metrics.IssueCreated(spaceKey)
	}

	s.index(ctx, issue)
	if assignee != nil && assignee.ID != userID {
		s.notifyAssigned(ctx, userID, assignee, issue, sp.Name)
	}
	return issue, nil
}

func validateEnums(st entity.IssueStatus, pr entity.IssuePriority, team entity.Team) error {
	if st != "" && !st.Valid() {
		return apperror.Validation("status must be one of: To Do, In Progress, Done")
	}
	if pr != "" && !pr.Valid() {
		return apperror.Validation("priority must be one of: Low, Medium, High")
	}
	if !team.Valid() {
		return apperror.Validation("team must be one of: UI/UX, Frontend, Backend, DevOps, QA, Other")
	}
	return nil
}

func (s *IssueService) lookupUser(ctx context.Context, id, role string) (*entity.User, error) {
	if id == "" {
		return nil, nil
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, apperror.Validation(role + " does not exist")
		}
		return nil, err
	}
	return u, nil
}

// load resolves the issue and its parent space, reporting a missing issue
// before any authorization decision.
func (s *IssueService) load(ctx context.Context, ref string) (*entity.Issue, *entity.Space, error) {
	issue, err := resolveIssue(ctx, s.Issues, ref)
	if err != nil {
		return nil, nil, err
	}
	sp, err := s.Spaces.GetByID(ctx, issue.SpaceID)
	if err != nil {
		return nil, nil, err
	}
	return issue, sp, nil
}

// Get returns the populated issue, comments included, for any member of its space.
func (s *IssueService) Get(ctx context.Context, userID, ref string) (*entity.Issue, error) {
	issue, sp, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := access.IssueAccess(userID, sp); err != nil {
		return nil, err
	}
	issue.Comments = []entity.Comment{}
	if s.Comments != nil {
		if issue.Comments, err = s.Comments.ListByIssue(ctx, issue.ID); err != nil {
			return nil, err
		}
	}
	return issue, nil
}

// UpdateIssueInput carries optional changes. Nil fields are left alone; an
// empty AssigneeID clears the assignee.
type UpdateIssueInput struct {
	Title       *string
	Description *string
	Status      *entity.IssueStatus
	Priority    *entity.IssuePriority
	AssigneeID  *string
	Team        *entity.Team
	DueDate     *time.Time
	ReporterID  *string
}

func (s *IssueService) Update(ctx context.Context, userID, ref string, in UpdateIssueInput) (*entity.Issue, error) {
	issue, sp, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := access.IssueAccess(userID, sp); err != nil {
		return nil, err
	}

	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		issue.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil && *in.Description != "" {
		issue.Description = *in.Description
	}
	if in.Status != nil && *in.Status != "" {
		issue.Status = *in.Status
	}
	if in.Priority != nil && *in.Priority != "" {
		issue.Priority = *in.Priority
	}
	if in.Team != nil && *in.Team != "" {
		issue.Team = *in.Team
	}
	if err := validateEnums(issue.Status, issue.Priority, issue.Team); err != nil {
		return nil, err
	}
	if in.DueDate != nil {
		issue.DueDate = in.DueDate
	}
	if in.ReporterID != nil && *in.ReporterID != "" {
		if _, err := s.lookupUser(ctx, *in.ReporterID, "reporter"); err != nil {
			return nil, err
		}
		issue.ReporterID = *in.ReporterID
	}

	var newAssignee *entity.User
	if in.AssigneeID != nil && *in.AssigneeID != issue.AssigneeID {
		if newAssignee, err = s.lookupUser(ctx, *in.AssigneeID, "assignee"); err != nil {
			return nil, err
		}
		issue.AssigneeID = *in.AssigneeID
	}

	if err := s.Issues.Update(ctx, issue); err != nil {
		return nil, err
	}
	updated, err := s.Issues.GetByID(ctx, issue.ID)
	if err != nil {
		return nil, err
	}
	s.index(ctx, updated)
	if newAssignee != nil && newAssignee.ID != userID {
		s.notifyAssigned(ctx, userID, newAssignee, updated, sp.Name)
	}
	return updated, nil
}

// Delete is reserved to the owner of the issue's space.
func (s *IssueService) Delete(ctx context.Context, userID, ref string) error {
	issue, sp, err := s.load(ctx, ref)
	if err != nil {
		return err
	}
	if err := access.IssueDelete(userID, sp); err != nil {
		return err
	}
	if err := s.Issues.Delete(ctx, issue.ID); err != nil {
		return err
	}
	if s.Index != nil {
		warn(s.Logger, s.Index.RemoveIssue(ctx, issue.ID), "issue index removal failed", logrus.Fields{"issue_id": issue.IssueID})
	}
	return nil
}

// ListMine returns the issues of every space the user belongs to. Issues
// the user created or was assigned in a space they have since left are
// not visible.
func (s *IssueService) ListMine(ctx context.Context, userID string) ([]entity.Issue, error) {
	spaceIDs, err := s.Spaces.IDsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Issues.List(ctx, entity.IssueFilter{SpaceIDs: nonNil(spaceIDs)})
}

// Sidebar returns the most recently updated issues assigned to the user,
// limited to spaces they still belong to.
func (s *IssueService) Sidebar(ctx context.Context, userID string) ([]entity.Issue, error) {
	spaceIDs, err := s.Spaces.IDsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Issues.List(ctx, entity.IssueFilter{SpaceIDs: nonNil(spaceIDs), AssigneeID: userID, SortRecent: true, Limit: sidebarLimit})
}

type SearchInput struct {
	Keyword    string
	Status     entity.IssueStatus
	Priority   entity.IssuePriority
	AssigneeID string
	ProjectID  string
}

// Search filters issues within the user's spaces. Keywords go through the
// full-text index when one is configured.
func (s *IssueService) Search(ctx context.Context, userID string, in SearchInput) ([]entity.Issue, error) {
	if err := validateEnums(in.Status, in.Priority, ""); err != nil {
		return nil, err
	}
	spaceIDs, err := s.Spaces.IDsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	f := entity.IssueFilter{
		SpaceIDs:   nonNil(spaceIDs),
		Keyword:    strings.TrimSpace(in.Keyword),
		Status:     in.Status,
		Priority:   in.Priority,
		AssigneeID: in.AssigneeID,
		ProjectID:  in.ProjectID,
	}
	if f.Keyword != "" && s.Index != nil && len(spaceIDs) > 0 {
		ids, err := s.Index.SearchIssueIDs(ctx, f.Keyword, spaceIDs, searchIndexLimit)
		if err == nil {
			f.IDs = nonNil(ids)
			f.Keyword = ""
		} else {
			warn(s.Logger, err, "issue index search failed, falling back to store", nil)
		}
	}
	return s.Issues.List(ctx, f)
}

// Suggestions returns up to ten issues whose id or title contains keyword.
func (s *IssueService) Suggestions(ctx context.Context, userID, keyword string) ([]entity.Issue, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []entity.Issue{}, nil
	}
	spaceIDs, err := s.Spaces.IDsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Issues.List(ctx, entity.IssueFilter{SpaceIDs: nonNil(spaceIDs), Keyword: keyword, Limit: suggestionLimit})
}

type Attachment struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AddAttachment stores an image or office document and appends its path to the issue.
func (s *IssueService) AddAttachment(ctx context.Context, userID, ref string, file Attachment) (string, error) {
	issue, sp, err := s.load(ctx, ref)
	if err != nil {
		return "", err
	}
	if err := access.IssueAccess(userID, sp); err != nil {
		return "", err
	}
	if err := s.checkAttachment(file); err != nil {
		return "", err
	}
	if s.Blobs == nil {
		return "", apperror.Internal("upload attachment", errBlobStoreMissing)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	objectPath := filepath.ToSlash(filepath.Join("attachments", issue.IssueID, "attachment-"+uuid.NewString()+ext))
	url, err := s.Blobs.Put(ctx, objectPath, file.ContentType, file.Body)
	if err != nil {
		return "", apperror.Internal("upload attachment", err)
	}
	if err := s.Issues.AddAttachment(ctx, issue.ID, url); err != nil {
		return "", err
	}
	return url, nil
}

// checkAttachment requires both the extension and the MIME type to name an
// allowed document or image type.
func (s *IssueService) checkAttachment(file Attachment) error {
	if s.MaxAttachmentBytes > 0 && file.Size > s.MaxAttachmentBytes {
		return apperror.Validation("file exceeds the " + humanize.Bytes(uint64(s.MaxAttachmentBytes)) + " upload limit")
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	if !attachmentTypes[ext] || !mimeAllowed(file.ContentType) {
		return apperror.Validation("images and documents only")
	}
	return nil
}

func mimeAllowed(contentType string) bool {
	ct := strings.ToLower(contentType)
	for t := range attachmentTypes {
		if strings.Contains(ct, t) {
			return true
		}
	}
	// Office formats and plain text travel under generic MIME names.
	return strings.HasPrefix(ct, "text/plain") ||
		strings.Contains(ct, "msword") ||
		strings.Contains(ct, "officedocument") ||
		strings.Contains(ct, "ms-excel") ||
		strings.Contains(ct, "ms-powerpoint")
}

func (s *IssueService) index(ctx context.Context, issue *entity.Issue) {
	if s.Index == nil {
		return
	}
	warn(s.Logger, s.Index.IndexIssue(ctx, issue), "issue index failed", logrus.Fields{"issue_id": issue.IssueID})
}

func (s *IssueService) notifyAssigned(ctx context.Context, actorID string, assignee *entity.User, issue *entity.Issue, spaceName string) {
	if s.Notifier == nil {
		return
	}
	actor, _ := s.Users.GetByID(ctx, actorID)
	err := s.Notifier.IssueAssigned(ctx, IssueAssigned{
		RecipientName:  assignee.Name,
		RecipientEmail: assignee.Email,
		AssignedBy:     displayName(actor),
		IssueID:        issue.IssueID,
		Title:          issue.Title,
		SpaceName:      spaceName,
		Priority:       string(issue.Priority),
		DueDate:        issue.DueDate,
	})
	warn(s.Logger, err, "assignment notification failed", logrus.Fields{"issue_id": issue.IssueID})
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
