package entity

import "time"

// Space is the top-level container grouping projects and members.
// SpaceKey is derived once from the name at creation and never re-derived.
// IssueCount only increases; it feeds issue identifiers.
type Space struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	SpaceKey    string        `json:"space_key"`
	Description string        `json:"description"`
	IssueCount  int64         `json:"issue_count"`
	OwnerID     string        `json:"owner_id"`
	Owner       *UserSummary  `json:"owner,omitempty"`
	MemberIDs   []string      `json:"-"`
	Members     []UserSummary `json:"members,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// SpaceSummary is the populated view of a referenced space.
type SpaceSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SpaceKey string `json:"space_key,omitempty"`
}

// RoleOf resolves the user's role in the space. The owner counts as a member
// even when missing from MemberIDs.
func (s *Space) RoleOf(userID string) Role {
	return roleOf(userID, s.OwnerID, s.MemberIDs)
}

func (s *Space) HasMember(userID string) bool {
	return userID == s.OwnerID || containsID(s.MemberIDs, userID)
}
