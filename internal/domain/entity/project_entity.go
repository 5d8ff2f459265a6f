package entity

import "time"

var DefaultKanbanStatuses = []string{string(StatusToDo), string(StatusInProgress), string(StatusDone)}

const DefaultProjectColor = "#000000"

// Project is a named collection of issues inside a space.
// IssueKey is globally unique and upper-case.
type Project struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	IssueKey       string        `json:"issue_key"`
	Color          string        `json:"color"`
	SpaceID        string        `json:"space_id"`
	Space          *SpaceSummary `json:"space,omitempty"`
	OwnerID        string        `json:"owner_id"`
	Owner          *UserSummary  `json:"owner,omitempty"`
	MemberIDs      []string      `json:"-"`
	Members        []UserSummary `json:"members,omitempty"`
	KanbanStatuses []string      `json:"kanban_statuses"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// ProjectSummary is the populated view of a referenced project.
type ProjectSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IssueKey string `json:"issue_key"`
	Color    string `json:"color,omitempty"`
}

func (p *Project) RoleOf(userID string) Role {
	return roleOf(userID, p.OwnerID, p.MemberIDs)
}

func (p *Project) HasMember(userID string) bool {
	return userID == p.OwnerID || containsID(p.MemberIDs, userID)
}
