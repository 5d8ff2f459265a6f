package entity

import "time"

// Comment belongs to exactly one issue and is authored by one user.
type Comment struct {
	ID        string       `json:"id"`
	IssueID   string       `json:"issue_id"`
	UserID    string       `json:"user_id"`
	User      *UserSummary `json:"user,omitempty"`
	Text      string       `json:"text"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
