package postgres

import (
	"strconv"
	"strings"

	"github.com/oksasatya/spaceboard/internal/domain/entity"
)

// queryBuilder accumulates WHERE clauses with positional arguments.
type queryBuilder struct {
	where []string
	args  []any
}

func (b *queryBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *queryBuilder) add(clause string) {
	b.where = append(b.where, clause)
}

func (b *queryBuilder) clause() string {
	if len(b.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.where, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildIssueQuery renders the filter into a WHERE/ORDER/LIMIT suffix for
// issueSelect. User-supplied ids are compared as text so a malformed id
// simply matches nothing.
func buildIssueQuery(f entity.IssueFilter) (string, []any) {
	b := &queryBuilder{}

	if f.SpaceIDs != nil {
		b.add("i.space_id::text = ANY(" + b.arg(f.SpaceIDs) + "::text[])")
	}
	if f.SpaceID != "" {
		b.add("i.space_id::text = " + b.arg(f.SpaceID))
	}
	if f.ProjectID != "" {
		b.add("i.project_id::text = " + b.arg(f.ProjectID))
	}
	if f.Status != "" {
		b.add("i.status = " + b.arg(string(f.Status)))
	}
	if f.Priority != "" {
		b.add("i.priority = " + b.arg(string(f.Priority)))
	}
	if f.AssigneeID != "" {
		b.add("i.assignee_id::text = " + b.arg(f.AssigneeID))
	}
	if f.IDs != nil {
		b.add("i.id::text = ANY(" + b.arg(f.IDs) + "::text[])")
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		p := b.arg("%" + likeEscaper.Replace(kw) + "%")
		b.add("(i.issue_id ILIKE " + p + " OR i.title ILIKE " + p + " OR i.description ILIKE " + p + ")")
	}

	q := b.clause()
	if f.SortRecent {
		q += " ORDER BY i.updated_at DESC"
	} else {
		q += " ORDER BY i.created_at DESC"
	}
	if f.Limit > 0 {
		q += " LIMIT " + strconv.Itoa(f.Limit)
	}
	return q, b.args
}
