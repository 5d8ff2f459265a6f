package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/spaceboard/internal/domain/entity"
)

func TestBuildIssueQuery(t *testing.T) {
	tests := []struct {
		name  string
		f     entity.IssueFilter
		query string
		args  []any
	}{
		{
			name:  "unfiltered",
			query: " ORDER BY i.created_at DESC",
		},
		{
			name:  "space scope",
			f:     entity.IssueFilter{SpaceIDs: []string{"s1"}},
			query: " WHERE i.space_id::text = ANY($1::text[]) ORDER BY i.created_at DESC",
			args:  []any{[]string{"s1"}},
		},
		{
			name:  "empty scope still filters",
			f:     entity.IssueFilter{SpaceIDs: []string{}},
			query: " WHERE i.space_id::text = ANY($1::text[]) ORDER BY i.created_at DESC",
			args:  []any{[]string{}},
		},
		{
			name:  "sidebar",
			f:     entity.IssueFilter{SpaceIDs: []string{"s1"}, AssigneeID: "u1", SortRecent: true, Limit: 3},
			query: " WHERE i.space_id::text = ANY($1::text[]) AND i.assignee_id::text = $2 ORDER BY i.updated_at DESC LIMIT 3",
			args:  []any{[]string{"s1"}, "u1"},
		},
		{
			name: "keyword with escaping",
			f:    entity.IssueFilter{Keyword: " 50%_off ", Status: entity.StatusDone, Priority: entity.PriorityLow},
			query: " WHERE i.status = $1 AND i.priority = $2 AND " +
				"(i.issue_id ILIKE $3 OR i.title ILIKE $3 OR i.description ILIKE $3) ORDER BY i.created_at DESC",
			args: []any{"Done", "Low", `%50\%\_off%`},
		},
		{
			name:  "space and project",
			f:     entity.IssueFilter{SpaceID: "s1", ProjectID: "p1", IDs: []string{"a", "b"}},
			query: " WHERE i.space_id::text = $1 AND i.project_id::text = $2 AND i.id::text = ANY($3::text[]) ORDER BY i.created_at DESC",
			args:  []any{"s1", "p1", []string{"a", "b"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args := buildIssueQuery(tt.f)
			assert.Equal(t, tt.query, q)
			assert.Equal(t, tt.args, args)
		})
	}
}
