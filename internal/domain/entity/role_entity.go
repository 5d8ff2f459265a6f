package entity

// Role is the relationship of a user to a space or project.
// Owners administer (delete, manage members); members read and contribute.
type Role string

const (
	RoleNone   Role = ""
	RoleMember Role = "member"
	RoleOwner  Role = "owner"
)

// CanView reports whether the role grants read and contribute access.
func (r Role) CanView() bool { return r == RoleOwner || r == RoleMember }

// CanAdminister reports whether the role grants owner-only operations.
func (r Role) CanAdminister() bool { return r == RoleOwner }

func roleOf(userID, ownerID string, memberIDs []string) Role {
	if userID == "" {
		return RoleNone
	}
	if userID == ownerID {
		return RoleOwner
	}
	for _, id := range memberIDs {
		if id == userID {
			return RoleMember
		}
	}
	return RoleNone
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
