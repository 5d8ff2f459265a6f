package entity

import (
	"slices"
	"time"
)

type IssueStatus string

const (
	StatusToDo       IssueStatus = "To Do"
	StatusInProgress IssueStatus = "In Progress"
	StatusDone       IssueStatus = "Done"
)

var IssueStatuses = []IssueStatus{StatusToDo, StatusInProgress, StatusDone}

// Valid reports whether s is a known status. Any status may move to any other.
func (s IssueStatus) Valid() bool { return slices.Contains(IssueStatuses, s) }

type IssuePriority string

const (
	PriorityLow    IssuePriority = "Low"
	PriorityMedium IssuePriority = "Medium"
	PriorityHigh   IssuePriority = "High"
)

var IssuePriorities = []IssuePriority{PriorityLow, PriorityMedium, PriorityHigh}

func (p IssuePriority) Valid() bool { return slices.Contains(IssuePriorities, p) }

type Team string

const (
	TeamUIUX     Team = "UI/UX"
	TeamFrontend Team = "Frontend"
	TeamBackend  Team = "Backend"
	TeamDevOps   Team = "DevOps"
	TeamQA       Team = "QA"
	TeamOther    Team = "Other"
)

var Teams = []Team{TeamUIUX, TeamFrontend, TeamBackend, TeamDevOps, TeamQA, TeamOther}

// Valid reports whether t is a known team. The empty team means "unset".
func (t Team) Valid() bool { return t == "" || slices.Contains(Teams, t) }

// Issue is a unit of work. IssueID is the human-readable key
// (<spaceKey>-<counter>), unique and immutable once allocated.
type Issue struct {
	ID          string          `json:"id"`
	IssueID     string          `json:"issue_id"`
	SpaceID     string          `json:"space_id"`
	Space       *SpaceSummary   `json:"space,omitempty"`
	ProjectID   string          `json:"project_id"`
	Project     *ProjectSummary `json:"project,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      IssueStatus     `json:"status"`
	Priority    IssuePriority   `json:"priority"`
	AssigneeID  string          `json:"assignee_id,omitempty"`
	Assignee    *UserSummary    `json:"assignee,omitempty"`
	Team        Team            `json:"team,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	CreatedByID string          `json:"created_by_id"`
	CreatedBy   *UserSummary    `json:"created_by,omitempty"`
	ReporterID  string          `json:"reporter_id,omitempty"`
	Reporter    *UserSummary    `json:"reporter,omitempty"`
	Comments    []Comment       `json:"comments,omitempty"`
	Attachments []string        `json:"attachments"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IssueFilter narrows issue listings. Empty fields do not filter.
//
// SpaceIDs restricts results to the given spaces; a nil slice means no
// restriction while an empty non-nil slice matches nothing.
//
// Keyword matches the human id, title, or description, case-insensitively.
type IssueFilter struct {
	SpaceIDs   []string
	SpaceID    string
	ProjectID  string
	Keyword    string
	Status     IssueStatus
	Priority   IssuePriority
	AssigneeID string
	IDs        []string
	SortRecent bool
	Limit      int
}
