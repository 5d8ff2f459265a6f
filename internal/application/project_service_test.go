package application

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/spaceboard/internal/domain/apperror"
	"github.com/oksasatya/spaceboard/internal/domain/entity"
)

func projectFixture(t *testing.T) (*fixture, *entity.User, *entity.Space) {
	t.Helper()
	f := newFixture()
	alice := f.user("Alice", "alice@example.com")
	sp, err := f.spaces.Create(context.Background(), alice.ID, SpaceInput{Name: "Engineering Team"})
	require.NoError(t, err)
	return f, alice, sp
}

func TestProjectCreateGeneratesKey(t *testing.T) {
	f, alice, sp := projectFixture(t)

	p, err := f.projects.Create(context.Background(), alice.ID, ProjectInput{Name: "website", SpaceID: sp.ID})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^WEB-\d{4}$`), p.IssueKey)
	assert.Equal(t, entity.DefaultProjectColor, p.Color)
	assert.Equal(t, entity.DefaultKanbanStatuses, p.KanbanStatuses)
	assert.Equal(t, []string{alice.ID}, p.MemberIDs)
}

func TestProjectExplicitKey(t *testing.T) {
	f, alice, sp := projectFixture(t)
	ctx := context.Background()

	p, err := f.projects.Create(ctx, alice.ID, ProjectInput{Name: "Website", SpaceID: sp.ID, IssueKey: " web-1 ", Color: "#ff0000"})
	require.NoError(t, err)
	assert.Equal(t, "WEB-1", p.IssueKey)
	assert.Equal(t, "#ff0000", p.Color)

	_, err = f.projects.Create(ctx, alice.ID, ProjectInput{Name: "Other", SpaceID: sp.ID, IssueKey: "WEB-1"})
	assert.ErrorIs(t, err, ErrProjectKeyTaken)
	assert.Len(t, f.store.projects, 1, "conflict must not leave a record")
}

func TestProjectCreateRequiresSpaceMembership(t *testing.T) {
	f, _, sp := projectFixture(t)
	bob := f.user("Bob", "bob@example.com")
	ctx := context.Background()

	_, err := f.projects.Create(ctx, bob.ID, ProjectInput{Name: "Website", SpaceID: sp.ID})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = f.projects.Create(ctx, bob.ID, ProjectInput{Name: "Website", SpaceID: "missing"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.projects.Create(ctx, bob.ID, ProjectInput{Name: "Website"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestProjectUpdate(t *testing.T) {
	f, alice, sp := projectFixture(t)
	bob := f.user("Bob", "bob@example.com")
	ctx := context.Background()
	p, err := f.projects.Create(ctx, alice.ID, ProjectInput{Name: "Website", SpaceID: sp.ID, IssueKey: "WEB-1"})
	require.NoError(t, err)
	_, err = f.projects.Create(ctx, alice.ID, ProjectInput{Name: "API", SpaceID: sp.ID, IssueKey: "API-1"})
	require.NoError(t, err)

	_, err = f.projects.Update(ctx, bob.ID, p.ID, ProjectInput{Name: "Mine"})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = f.projects.Update(ctx, alice.ID, p.ID, ProjectInput{IssueKey: "api-1"})
	assert.ErrorIs(t, err, ErrProjectKeyTaken)

	_, err = f.projects.Update(ctx, alice.ID, p.ID, ProjectInput{SpaceID: "elsewhere"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	got, err := f.projects.Update(ctx, alice.ID, p.ID, ProjectInput{Name: "Web App", IssueKey: "WEB-2"})
	require.NoError(t, err)
	assert.Equal(t, "Web App", got.Name)
	assert.Equal(t, "WEB-2", got.IssueKey)
}

func TestProjectMembersAndKanban(t *testing.T) {
	f, alice, sp := projectFixture(t)
	bob := f.user("Bob", "bob@example.com")
	ctx := context.Background()
	p, err := f.projects.Create(ctx, alice.ID, ProjectInput{Name: "Website", SpaceID: sp.ID})
	require.NoError(t, err)

	_, err = f.projects.UpdateKanbanStatuses(ctx, bob.ID, p.ID, []string{"Todo"})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = f.projects.AddMember(ctx, alice.ID, p.ID, "bob@example.com")
	require.NoError(t, err)
	_, err = f.projects.AddMember(ctx, alice.ID, p.ID, "bob@example.com")
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	require.Len(t, f.notifier.added, 1)
	assert.Equal(t, "project", f.notifier.added[0].TargetKind)

	got, err := f.projects.UpdateKanbanStatuses(ctx, bob.ID, p.ID, []string{" Backlog ", "Doing", "", "Backlog", "Shipped"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Backlog", "Doing", "Shipped"}, got.KanbanStatuses)

	_, err = f.projects.UpdateKanbanStatuses(ctx, bob.ID, p.ID, []string{" "})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.projects.RemoveMember(ctx, alice.ID, p.ID, alice.ID)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	got, err = f.projects.RemoveMember(ctx, alice.ID, p.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, got.HasMember(bob.ID))
}

func TestProjectDeleteCascades(t *testing.T) {
	f, alice, sp := projectFixture(t)
	ctx := context.Background()
	keep, err := f.projects.Create(ctx, alice.ID, ProjectInput{Name: "Keep", SpaceID: sp.ID})
	require.NoError(t, err)
	drop, err := f.projects.Create(ctx, alice.ID, ProjectInput{Name: "Drop", SpaceID: sp.ID})
	require.NoError(t, err)

	kept, err := f.issues.Create(ctx, alice.ID, sp.ID, CreateIssueInput{ProjectID: keep.ID, Title: "stays"})
	require.NoError(t, err)
	gone, err := f.issues.Create(ctx, alice.ID, sp.ID, CreateIssueInput{ProjectID: drop.ID, Title: "goes"})
	require.NoError(t, err)
	_, err = f.comments.Create(ctx, alice.ID, gone.ID, "bye")
	require.NoError(t, err)

	require.NoError(t, f.projects.Delete(ctx, alice.ID, drop.ID))

	assert.Len(t, f.store.projects, 1)
	assert.Contains(t, f.store.issues, kept.ID)
	assert.NotContains(t, f.store.issues, gone.ID)
	assert.Empty(t, f.store.comments)
}
