package application

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/spaceboard/internal/domain/apperror"
	"github.com/oksasatya/spaceboard/internal/domain/entity"
	"github.com/oksasatya/spaceboard/internal/domain/keygen"
	"github.com/oksasatya/spaceboard/pkg/helpers"
)

func TestMain(m *testing.M) {
	helpers.PasswordCost = bcrypt.MinCost
	m.Run()
}

// memStore is an in-memory backing for every repository port. One mutex
// guards all tables so counter bumps are atomic like the SQL UPDATE.
type memStore struct {
	mu       sync.Mutex
	users    map[string]entity.User
	spaces   map[string]entity.Space
	projects map[string]entity.Project
	issues   map[string]entity.Issue
	comments map[string]entity.Comment
	seq      int

	// failInsert, when set, makes issue inserts fail after the counter
	// would have been bumped.
	failInsert error
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]entity.User{},
		spaces:   map[string]entity.Space{},
		projects: map[string]entity.Project{},
		issues:   map[string]entity.Issue{},
		comments: map[string]entity.Comment{},
	}
}

// tick returns strictly increasing timestamps so ordering is deterministic.
func (m *memStore) tick() time.Time {
	m.seq++
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(m.seq) * time.Second)
}

func (m *memStore) summary(id string) *entity.UserSummary {
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	s := u.Summary()
	return &s
}

func (m *memStore) summaries(ids []string) []entity.UserSummary {
	out := make([]entity.UserSummary, 0, len(ids))
	for _, id := range ids {
		if s := m.summary(id); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

func withoutID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func hasID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type memUsers struct{ *memStore }

func (r memUsers) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.users {
		if other.Email == u.Email {
			return apperror.Conflict("email already in use")
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = r.tick()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = *u
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperror.NotFound("user not found")
	}
	return &u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user not found")
}

func (r memUsers) List(_ context.Context) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memUsers) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return apperror.NotFound("user not found")
	}
	for _, other := range r.users {
		if other.ID != u.ID && other.Email == u.Email {
			return apperror.Conflict("email already in use")
		}
	}
	u.UpdatedAt = r.tick()
	r.users[u.ID] = *u
	return nil
}

type memSpaces struct{ *memStore }

func (r memSpaces) populate(s entity.Space) entity.Space {
	s.Owner = r.summary(s.OwnerID)
	s.MemberIDs = append([]string(nil), s.MemberIDs...)
	s.Members = r.summaries(s.MemberIDs)
	return s
}

func (r memSpaces) Create(_ context.Context, s *entity.Space) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.spaces {
		if other.SpaceKey == s.SpaceKey {
			return apperror.Conflict("space key already exists")
		}
	}
	s.ID = uuid.NewString()
	s.CreatedAt = r.tick()
	s.UpdatedAt = s.CreatedAt
	r.spaces[s.ID] = *s
	return nil
}

func (r memSpaces) GetByID(_ context.Context, id string) (*entity.Space, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.spaces[id]
	if !ok {
		return nil, apperror.NotFound("space not found")
	}
	s = r.populate(s)
	return &s, nil
}

func (r memSpaces) ListForUser(_ context.Context, userID string) ([]entity.Space, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Space{}
	for _, s := range r.spaces {
		if s.HasMember(userID) {
			out = append(out, r.populate(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memSpaces) IDsForUser(ctx context.Context, userID string) ([]string, error) {
	spaces, _ := r.ListForUser(ctx, userID)
	ids := make([]string, 0, len(spaces))
	for _, s := range spaces {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func (r memSpaces) Update(_ context.Context, s *entity.Space) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.spaces[s.ID]
	if !ok {
		return apperror.NotFound("space not found")
	}
	cur.Name, cur.Description, cur.UpdatedAt = s.Name, s.Description, r.tick()
	r.spaces[s.ID] = cur
	return nil
}

func (r memSpaces) AddMember(_ context.Context, spaceID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.spaces[spaceID]
	if hasID(s.MemberIDs, userID) {
		return apperror.Conflict("user is already a member of this space")
	}
	s.MemberIDs = append(s.MemberIDs, userID)
	r.spaces[spaceID] = s
	return nil
}

func (r memSpaces) RemoveMember(_ context.Context, spaceID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.spaces[spaceID]
	s.MemberIDs = withoutID(s.MemberIDs, userID)
	r.spaces[spaceID] = s
	return nil
}

func (r memSpaces) DeleteCascade(_ context.Context, spaceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, i := range r.issues {
		if i.SpaceID == spaceID {
			r.dropIssue(id)
		}
	}
	for id, p := range r.projects {
		if p.SpaceID == spaceID {
			delete(r.projects, id)
		}
	}
	delete(r.spaces, spaceID)
	return nil
}

func (m *memStore) dropIssue(id string) {
	for cid, c := range m.comments {
		if c.IssueID == id {
			delete(m.comments, cid)
		}
	}
	delete(m.issues, id)
}

type memProjects struct{ *memStore }

func (r memProjects) populate(p entity.Project) entity.Project {
	if s, ok := r.spaces[p.SpaceID]; ok {
		p.Space = &entity.SpaceSummary{ID: s.ID, Name: s.Name, SpaceKey: s.SpaceKey}
	}
	p.Owner = r.summary(p.OwnerID)
	p.MemberIDs = append([]string(nil), p.MemberIDs...)
	p.Members = r.summaries(p.MemberIDs)
	p.KanbanStatuses = append([]string(nil), p.KanbanStatuses...)
	return p
}

func (r memProjects) Create(_ context.Context, p *entity.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.projects {
		if other.IssueKey == p.IssueKey {
			return apperror.Conflict("issue key already exists")
		}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = r.tick()
	p.UpdatedAt = p.CreatedAt
	r.projects[p.ID] = *p
	return nil
}

func (r memProjects) GetByID(_ context.Context, id string) (*entity.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, apperror.NotFound("project not found")
	}
	p = r.populate(p)
	return &p, nil
}

func (r memProjects) IssueKeyExists(_ context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.projects {
		if p.IssueKey == key {
			return true, nil
		}
	}
	return false, nil
}

func (r memProjects) ListForUser(_ context.Context, userID, spaceID string) ([]entity.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Project{}
	for _, p := range r.projects {
		if p.HasMember(userID) && (spaceID == "" || p.SpaceID == spaceID) {
			out = append(out, r.populate(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memProjects) Update(_ context.Context, p *entity.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.projects[p.ID]
	if !ok {
		return apperror.NotFound("project not found")
	}
	for _, other := range r.projects {
		if other.ID != p.ID && other.IssueKey == p.IssueKey {
			return apperror.Conflict("issue key already exists")
		}
	}
	cur.Name, cur.Description, cur.Color, cur.IssueKey = p.Name, p.Description, p.Color, p.IssueKey
	cur.KanbanStatuses = append([]string(nil), p.KanbanStatuses...)
	cur.UpdatedAt = r.tick()
	r.projects[p.ID] = cur
	return nil
}

func (r memProjects) AddMember(_ context.Context, projectID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.projects[projectID]
	p.MemberIDs = append(p.MemberIDs, userID)
	r.projects[projectID] = p
	return nil
}

func (r memProjects) RemoveMember(_ context.Context, projectID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.projects[projectID]
	p.MemberIDs = withoutID(p.MemberIDs, userID)
	r.projects[projectID] = p
	return nil
}

func (r memProjects) DeleteCascade(_ context.Context, projectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, i := range r.issues {
		if i.ProjectID == projectID {
			r.dropIssue(id)
		}
	}
	delete(r.projects, projectID)
	return nil
}

type memIssues struct{ *memStore }

func (r memIssues) populate(i entity.Issue) entity.Issue {
	if s, ok := r.spaces[i.SpaceID]; ok {
		i.Space = &entity.SpaceSummary{ID: s.ID, Name: s.Name, SpaceKey: s.SpaceKey}
	}
	if p, ok := r.projects[i.ProjectID]; ok {
		i.Project = &entity.ProjectSummary{ID: p.ID, Name: p.Name, IssueKey: p.IssueKey, Color: p.Color}
	}
	i.Assignee = r.summary(i.AssigneeID)
	i.CreatedBy = r.summary(i.CreatedByID)
	i.Reporter = r.summary(i.ReporterID)
	i.Attachments = append([]string{}, i.Attachments...)
	return i
}

func (r memIssues) CreateNext(_ context.Context, i *entity.Issue) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sp, ok := r.spaces[i.SpaceID]
	if !ok {
		return "", apperror.NotFound("space not found")
	}
	if r.failInsert != nil {
		return "", r.failInsert
	}
	sp.IssueCount++
	i.IssueID = keygen.IssueID(sp.SpaceKey, sp.IssueCount)
	for _, other := range r.issues {
		if other.IssueID == i.IssueID {
			return "", apperror.Conflict("issue id already exists")
		}
	}
	r.spaces[i.SpaceID] = sp
	i.ID = uuid.NewString()
	i.CreatedAt = r.tick()
	i.UpdatedAt = i.CreatedAt
	r.issues[i.ID] = *i
	return sp.SpaceKey, nil
}

func (r memIssues) GetByID(_ context.Context, id string) (*entity.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.issues[id]
	if !ok {
		return nil, apperror.NotFound("issue not found")
	}
	i = r.populate(i)
	return &i, nil
}

func (r memIssues) GetByIssueID(_ context.Context, issueID string) (*entity.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.issues {
		if i.IssueID == issueID {
			i = r.populate(i)
			return &i, nil
		}
	}
	return nil, apperror.NotFound("issue not found")
}

func (r memIssues) matches(i entity.Issue, f entity.IssueFilter) bool {
	if f.SpaceIDs != nil && !hasID(f.SpaceIDs, i.SpaceID) {
		return false
	}
	if f.SpaceID != "" && i.SpaceID != f.SpaceID {
		return false
	}
	if f.ProjectID != "" && i.ProjectID != f.ProjectID {
		return false
	}
	if f.Status != "" && i.Status != f.Status {
		return false
	}
	if f.Priority != "" && i.Priority != f.Priority {
		return false
	}
	if f.AssigneeID != "" && i.AssigneeID != f.AssigneeID {
		return false
	}
	if f.IDs != nil && !hasID(f.IDs, i.ID) {
		return false
	}
	if f.Keyword != "" {
		kw := strings.ToLower(f.Keyword)
		if !strings.Contains(strings.ToLower(i.IssueID), kw) &&
			!strings.Contains(strings.ToLower(i.Title), kw) &&
			!strings.Contains(strings.ToLower(i.Description), kw) {
			return false
		}
	}
	return true
}

func (r memIssues) List(_ context.Context, f entity.IssueFilter) ([]entity.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Issue{}
	for _, i := range r.issues {
		if r.matches(i, f) {
			out = append(out, r.populate(i))
		}
	}
	if f.SortRecent {
		sort.Slice(out, func(a, b int) bool { return out[a].UpdatedAt.After(out[b].UpdatedAt) })
	} else {
		sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r memIssues) Update(_ context.Context, i *entity.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.issues[i.ID]
	if !ok {
		return apperror.NotFound("issue not found")
	}
	next := *i
	next.CreatedAt = cur.CreatedAt
	next.Attachments = cur.Attachments
	next.UpdatedAt = r.tick()
	r.issues[i.ID] = next
	return nil
}

func (r memIssues) AddAttachment(_ context.Context, id, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.issues[id]
	if !ok {
		return apperror.NotFound("issue not found")
	}
	i.Attachments = append(i.Attachments, path)
	r.issues[id] = i
	return nil
}

func (r memIssues) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.issues[id]; !ok {
		return apperror.NotFound("issue not found")
	}
	r.dropIssue(id)
	return nil
}

type memComments struct{ *memStore }

func (r memComments) Create(_ context.Context, c *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.NewString()
	c.CreatedAt = r.tick()
	c.UpdatedAt = c.CreatedAt
	r.comments[c.ID] = *c
	return nil
}

func (r memComments) GetByID(_ context.Context, id string) (*entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, apperror.NotFound("comment not found")
	}
	c.User = r.summary(c.UserID)
	return &c, nil
}

func (r memComments) ListByIssue(_ context.Context, issueID string) ([]entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Comment{}
	for _, c := range r.comments {
		if c.IssueID == issueID {
			c.User = r.summary(c.UserID)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memComments) Update(_ context.Context, c *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.comments[c.ID]
	if !ok {
		return apperror.NotFound("comment not found")
	}
	cur.Text = c.Text
	cur.UpdatedAt = r.tick()
	r.comments[c.ID] = cur
	return nil
}

func (r memComments) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	return nil
}

// recordingNotifier captures notifications instead of sending them.
type recordingNotifier struct {
	mu       sync.Mutex
	added    []MemberAdded
	assigned []IssueAssigned
}

func (n *recordingNotifier) MemberAdded(_ context.Context, ev MemberAdded) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.added = append(n.added, ev)
	return nil
}

func (n *recordingNotifier) IssueAssigned(_ context.Context, ev IssueAssigned) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.assigned = append(n.assigned, ev)
	return nil
}

type memBlobs struct {
	objects map[string]string
}

func (b *memBlobs) Put(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if b.objects == nil {
		b.objects = map[string]string{}
	}
	b.objects[objectPath] = string(data)
	return "https://storage.example.test/bucket/" + objectPath, nil
}

// fixture wires every service to one shared in-memory store.
type fixture struct {
	store    *memStore
	notifier *recordingNotifier
	blobs    *memBlobs
	users    *UserService
	spaces   *SpaceService
	projects *ProjectService
	issues   *IssueService
	comments *CommentService
}

func newFixture() *fixture {
	st := newMemStore()
	n := &recordingNotifier{}
	b := &memBlobs{}
	users, spaces, projects, issues, comments := memUsers{st}, memSpaces{st}, memProjects{st}, memIssues{st}, memComments{st}
	return &fixture{
		store:    st,
		notifier: n,
		blobs:    b,
		users:    NewUserService(users, nil, b, nil, nil, nil),
		spaces:   NewSpaceService(spaces, users, issues, n, nil),
		projects: NewProjectService(projects, spaces, users, n, nil),
		issues:   NewIssueService(issues, comments, spaces, projects, users, nil, b, n, nil, 1024),
		comments: NewCommentService(comments, issues, spaces, projects, nil),
	}
}

func (f *fixture) user(name, email string) *entity.User {
	u := &entity.User{Name: name, Email: email, Password: "x"}
	if err := (memUsers{f.store}).Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}
