package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/spaceboard/internal/domain/entity"
	"github.com/oksasatya/spaceboard/internal/domain/keygen"
	"github.com/oksasatya/spaceboard/internal/domain/repository"
)

const issueSelect = `
	SELECT i.id, i.issue_id, i.space_id, s.name, s.space_key,
	       i.project_id, p.name, p.issue_key, p.color,
	       i.title, i.description, i.status, i.priority, i.team, i.due_date,
	       i.assignee_id, a.name, a.email, a.profile_picture,
	       i.created_by, c.name, c.email, c.profile_picture,
	       i.reporter_id, r.name, r.email, r.profile_picture,
	       i.attachments, i.created_at, i.updated_at
	FROM issues i
	JOIN spaces s ON s.id = i.space_id
	LEFT JOIN projects p ON p.id = i.project_id
	LEFT JOIN users a ON a.id = i.assignee_id
	LEFT JOIN users c ON c.id = i.created_by
	LEFT JOIN users r ON r.id = i.reporter_id`

type IssueRepository struct {
	pool *pgxpool.Pool
}

func NewIssueRepository(pool *pgxpool.Pool) *IssueRepository {
	return &IssueRepository{pool: pool}
}

func scanIssue(row pgx.Row) (*entity.Issue, error) {
	var (
		i                                  entity.Issue
		status, priority, team             string
		projectID, projectName, projectKey *string
		projectColor                       *string
		aID, aName, aEmail, aPic           *string
		cID, cName, cEmail, cPic           *string
		rID, rName, rEmail, rPic           *string
	)
	i.Space = &entity.SpaceSummary{}
	err := row.Scan(&i.ID, &i.IssueID, &i.SpaceID, &i.Space.Name, &i.Space.SpaceKey,
		&projectID, &projectName, &projectKey, &projectColor,
		&i.Title, &i.Description, &status, &priority, &team, &i.DueDate,
		&aID, &aName, &aEmail, &aPic,
		&cID, &cName, &cEmail, &cPic,
		&rID, &rName, &rEmail, &rPic,
		&i.Attachments, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, mapErr(err, "issue")
	}
	i.Space.ID = i.SpaceID
	i.Status = entity.IssueStatus(status)
	i.Priority = entity.IssuePriority(priority)
	i.Team = entity.Team(team)
	i.ProjectID = deref(projectID)
	if projectName != nil {
		i.Project = &entity.ProjectSummary{ID: i.ProjectID, Name: *projectName, IssueKey: deref(projectKey), Color: deref(projectColor)}
	}
	i.AssigneeID = deref(aID)
	i.Assignee = userRef(aID, aName, aEmail, aPic)
	i.CreatedByID = deref(cID)
	i.CreatedBy = userRef(cID, cName, cEmail, cPic)
	i.ReporterID = deref(rID)
	i.Reporter = userRef(rID, rName, rEmail, rPic)
	if i.Attachments == nil {
		i.Attachments = []string{}
	}
	return &i, nil
}

// CreateNext relies on the row lock taken by the counter UPDATE: concurrent
// creators in one space queue behind it until the insert commits, and a
// rollback restores the counter.
func (r *IssueRepository) CreateNext(ctx context.Context, i *entity.Issue) (string, error) {
	var spaceKey string
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var count int64
		err := tx.QueryRow(ctx, `
			UPDATE spaces SET issue_count = issue_count + 1, updated_at = now()
			WHERE id = $1
			RETURNING space_key, issue_count
		`, i.SpaceID).Scan(&spaceKey, &count)
		if err != nil {
			return mapErr(err, "space")
		}
		i.IssueID = keygen.IssueID(spaceKey, count)
		return insertIssue(ctx, tx, i)
	})
	if err != nil {
		i.IssueID = ""
		return "", err
	}
	return spaceKey, nil
}

func insertIssue(ctx context.Context, db dbtx, i *entity.Issue) error {
	attachments := i.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	row := db.QueryRow(ctx, `
		INSERT INTO issues (issue_id, space_id, project_id, title, description, status, priority,
		                    assignee_id, team, due_date, created_by, reporter_id, attachments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, i.IssueID, i.SpaceID, nullable(i.ProjectID), i.Title, i.Description, string(i.Status), string(i.Priority),
		nullable(i.AssigneeID), string(i.Team), i.DueDate, i.CreatedByID, nullable(i.ReporterID), attachments)
	return mapErr(row.Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt), "issue")
}

func (r *IssueRepository) GetByID(ctx context.Context, id string) (*entity.Issue, error) {
	return scanIssue(r.pool.QueryRow(ctx, issueSelect+` WHERE i.id = $1`, id))
}

func (r *IssueRepository) GetByIssueID(ctx context.Context, issueID string) (*entity.Issue, error) {
	return scanIssue(r.pool.QueryRow(ctx, issueSelect+` WHERE i.issue_id = $1`, issueID))
}

func (r *IssueRepository) List(ctx context.Context, f entity.IssueFilter) ([]entity.Issue, error) {
	suffix, args := buildIssueQuery(f)
	rows, err := r.pool.Query(ctx, issueSelect+suffix, args...)
	if err != nil {
		return nil, mapErr(err, "issue")
	}
	defer rows.Close()

	out := []entity.Issue{}
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *i)
	}
	return out, mapErr(rows.Err(), "issue")
}

func (r *IssueRepository) Update(ctx context.Context, i *entity.Issue) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE issues
		SET title = $1, description = $2, status = $3, priority = $4, assignee_id = $5,
		    team = $6, due_date = $7, reporter_id = $8, updated_at = now()
		WHERE id = $9
		RETURNING updated_at
	`, i.Title, i.Description, string(i.Status), string(i.Priority), nullable(i.AssigneeID),
		string(i.Team), i.DueDate, nullable(i.ReporterID), i.ID)
	return mapErr(row.Scan(&i.UpdatedAt), "issue")
}

func (r *IssueRepository) AddAttachment(ctx context.Context, id, path string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE issues SET attachments = array_append(attachments, $2), updated_at = now()
		WHERE id = $1`, id, path)
	if err != nil {
		return mapErr(err, "issue")
	}
	if tag.RowsAffected() == 0 {
		return mapErr(pgx.ErrNoRows, "issue")
	}
	return nil
}

func (r *IssueRepository) Delete(ctx context.Context, id string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE issue_id = $1`, id); err != nil {
			return mapErr(err, "issue")
		}
		tag, err := tx.Exec(ctx, `DELETE FROM issues WHERE id = $1`, id)
		if err != nil {
			return mapErr(err, "issue")
		}
		if tag.RowsAffected() == 0 {
			return mapErr(pgx.ErrNoRows, "issue")
		}
		return nil
	})
}

var _ repository.IssueRepository = (*IssueRepository)(nil)
