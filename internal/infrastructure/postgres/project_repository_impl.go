package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/spaceboard/internal/domain/entity"
	"github.com/oksasatya/spaceboard/internal/domain/repository"
)

const projectSelect = `
	SELECT p.id, p.name, p.description, p.issue_key, p.color, p.space_id, s.name, s.space_key,
	       p.owner_id, u.name, u.email, u.profile_picture, p.kanban_statuses, p.created_at, p.updated_at
	FROM projects p
	JOIN spaces s ON s.id = p.space_id
	JOIN users u ON u.id = p.owner_id`

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func scanProject(row pgx.Row) (*entity.Project, error) {
	p := &entity.Project{Space: &entity.SpaceSummary{}, Owner: &entity.UserSummary{}}
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.IssueKey, &p.Color, &p.SpaceID, &p.Space.Name, &p.Space.SpaceKey,
		&p.OwnerID, &p.Owner.Name, &p.Owner.Email, &p.Owner.ProfilePicture, &p.KanbanStatuses, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapErr(err, "project")
	}
	p.Space.ID = p.SpaceID
	p.Owner.ID = p.OwnerID
	return p, nil
}

func setProjectMembers(p *entity.Project, members []entity.UserSummary) {
	p.Members = members
	p.MemberIDs = make([]string, 0, len(members))
	for _, m := range members {
		p.MemberIDs = append(p.MemberIDs, m.ID)
	}
}

func (r *ProjectRepository) Create(ctx context.Context, p *entity.Project) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO projects (name, description, issue_key, color, space_id, owner_id, kanban_statuses)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at
		`, p.Name, p.Description, p.IssueKey, p.Color, p.SpaceID, p.OwnerID, p.KanbanStatuses)
		if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return mapErr(err, "project")
		}
		for _, uid := range p.MemberIDs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, p.ID, uid); err != nil {
				return mapErr(err, "project member")
			}
		}
		return nil
	})
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, projectSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, err
	}
	members, err := loadMembers(ctx, r.pool, "project_members", "project_id", []string{p.ID})
	if err != nil {
		return nil, err
	}
	setProjectMembers(p, members[p.ID])
	return p, nil
}

func (r *ProjectRepository) IssueKeyExists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM projects WHERE issue_key = $1)`, key).Scan(&exists)
	return exists, mapErr(err, "project")
}

func (r *ProjectRepository) ListForUser(ctx context.Context, userID, spaceID string) ([]entity.Project, error) {
	q := projectSelect + ` WHERE (p.owner_id = $1 OR EXISTS (
		SELECT 1 FROM project_members m WHERE m.project_id = p.id AND m.user_id = $1))`
	args := []any{userID}
	if spaceID != "" {
		q += ` AND p.space_id::text = $2`
		args = append(args, spaceID)
	}
	rows, err := r.pool.Query(ctx, q+` ORDER BY p.created_at DESC`, args...)
	if err != nil {
		return nil, mapErr(err, "project")
	}
	defer rows.Close()

	out := []entity.Project{}
	ids := []string{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "project")
	}

	members, err := loadMembers(ctx, r.pool, "project_members", "project_id", ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		setProjectMembers(&out[i], members[out[i].ID])
	}
	return out, nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *entity.Project) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE projects
		SET name = $1, description = $2, issue_key = $3, color = $4, kanban_statuses = $5, updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`, p.Name, p.Description, p.IssueKey, p.Color, p.KanbanStatuses, p.ID)
	return mapErr(row.Scan(&p.UpdatedAt), "project")
}

func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID string) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)`, projectID, userID)
	return mapErr(err, "project member")
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM project_members WHERE project_id = $1 AND user_id::text = $2`, projectID, userID)
	return mapErr(err, "project member")
}

func (r *ProjectRepository) DeleteCascade(ctx context.Context, projectID string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			DELETE FROM comments WHERE issue_id IN (SELECT id FROM issues WHERE project_id = $1)`, projectID); err != nil {
			return mapErr(err, "project")
		}
		if _, err := tx.Exec(ctx, `DELETE FROM issues WHERE project_id = $1`, projectID); err != nil {
			return mapErr(err, "project")
		}
		tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, projectID)
		if err != nil {
			return mapErr(err, "project")
		}
		if tag.RowsAffected() == 0 {
			return mapErr(pgx.ErrNoRows, "project")
		}
		return nil
	})
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)
