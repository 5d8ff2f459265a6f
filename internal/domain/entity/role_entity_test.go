package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpaceRoleOf(t *testing.T) {
	s := &Space{OwnerID: "owner", MemberIDs: []string{"owner", "alice"}}

	assert.Equal(t, RoleOwner, s.RoleOf("owner"))
	assert.Equal(t, RoleMember, s.RoleOf("alice"))
	assert.Equal(t, RoleNone, s.RoleOf("mallory"))
	assert.Equal(t, RoleNone, s.RoleOf(""))
}

func TestOwnerImplicitlyMember(t *testing.T) {
	p := &Project{OwnerID: "owner"}
	assert.True(t, p.HasMember("owner"))
	assert.True(t, p.RoleOf("owner").CanView())
	assert.False(t, p.HasMember("bob"))
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleOwner.CanAdminister())
	assert.False(t, RoleMember.CanAdminister())
	assert.True(t, RoleMember.CanView())
	assert.False(t, RoleNone.CanView())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, StatusInProgress.Valid())
	assert.False(t, IssueStatus("Blocked").Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, IssuePriority("Urgent").Valid())
	assert.True(t, Team("").Valid())
	assert.True(t, TeamUIUX.Valid())
	assert.False(t, Team("Sales").Valid())
}
