package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/spaceboard/internal/domain/apperror"
	"github.com/oksasatya/spaceboard/internal/domain/entity"
)

func testSpace() *entity.Space {
	return &entity.Space{ID: "s1", OwnerID: "owner", MemberIDs: []string{"owner", "member"}}
}

func TestSpaceChecks(t *testing.T) {
	s := testSpace()

	tests := []struct {
		user      string
		member    bool
		owner     bool
		canDelete bool
	}{
		{"owner", true, true, true},
		{"member", true, false, false},
		{"stranger", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			assert.Equal(t, tt.member, SpaceMember(tt.user, s) == nil)
			assert.Equal(t, tt.owner, SpaceOwner(tt.user, s) == nil)
			assert.Equal(t, tt.member, IssueAccess(tt.user, s) == nil)
			assert.Equal(t, tt.canDelete, IssueDelete(tt.user, s) == nil)
		})
	}
}

func TestDeniedIsForbidden(t *testing.T) {
	err := SpaceMember("stranger", testSpace())
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	err = ProjectOwner("member", &entity.Project{OwnerID: "owner", MemberIDs: []string{"member"}})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}

func TestNilTargetsDeny(t *testing.T) {
	assert.Equal(t, entity.RoleNone, SpaceRole("u", nil))
	assert.Equal(t, entity.RoleNone, ProjectRole("u", nil))
	assert.Error(t, ProjectMember("u", nil))
}

func TestCommentEdit(t *testing.T) {
	comment := &entity.Comment{ID: "c1", UserID: "author"}
	project := &entity.Project{ID: "p1", OwnerID: "powner", MemberIDs: []string{"powner", "member"}}

	assert.NoError(t, CommentEdit("author", comment, project))
	assert.NoError(t, CommentEdit("powner", comment, project))
	assert.Error(t, CommentEdit("member", comment, project))
	assert.Error(t, CommentEdit("", &entity.Comment{}, &entity.Project{}))
}
