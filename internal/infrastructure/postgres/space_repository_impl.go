package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/spaceboard/internal/domain/entity"
	"github.com/oksasatya/spaceboard/internal/domain/repository"
)

const spaceSelect = `
	SELECT s.id, s.name, s.space_key, s.description, s.issue_count, s.owner_id,
	       u.name, u.email, u.profile_picture, s.created_at, s.updated_at
	FROM spaces s
	JOIN users u ON u.id = s.owner_id`

// membership predicate shared by listings; $1 is the user id.
const spaceVisible = `(s.owner_id = $1 OR EXISTS (
	SELECT 1 FROM space_members m WHERE m.space_id = s.id AND m.user_id = $1))`

type SpaceRepository struct {
	pool *pgxpool.Pool
}

func NewSpaceRepository(pool *pgxpool.Pool) *SpaceRepository {
	return &SpaceRepository{pool: pool}
}

func scanSpace(row pgx.Row) (*entity.Space, error) {
	s := &entity.Space{Owner: &entity.UserSummary{}}
	err := row.Scan(&s.ID, &s.Name, &s.SpaceKey, &s.Description, &s.IssueCount, &s.OwnerID,
		&s.Owner.Name, &s.Owner.Email, &s.Owner.ProfilePicture, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, mapErr(err, "space")
	}
	s.Owner.ID = s.OwnerID
	return s, nil
}

func (r *SpaceRepository) Create(ctx context.Context, s *entity.Space) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO spaces (name, space_key, description, owner_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id, issue_count, created_at, updated_at
		`, s.Name, s.SpaceKey, s.Description, s.OwnerID)
		if err := row.Scan(&s.ID, &s.IssueCount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return mapErr(err, "space")
		}
		for _, uid := range s.MemberIDs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO space_members (space_id, user_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, s.ID, uid); err != nil {
				return mapErr(err, "space member")
			}
		}
		return nil
	})
}

func (r *SpaceRepository) GetByID(ctx context.Context, id string) (*entity.Space, error) {
	s, err := scanSpace(r.pool.QueryRow(ctx, spaceSelect+` WHERE s.id = $1`, id))
	if err != nil {
		return nil, err
	}
	members, err := loadMembers(ctx, r.pool, "space_members", "space_id", []string{s.ID})
	if err != nil {
		return nil, err
	}
	setSpaceMembers(s, members[s.ID])
	return s, nil
}

func setSpaceMembers(s *entity.Space, members []entity.UserSummary) {
	s.Members = members
	s.MemberIDs = make([]string, 0, len(members))
	for _, m := range members {
		s.MemberIDs = append(s.MemberIDs, m.ID)
	}
}

func (r *SpaceRepository) ListForUser(ctx context.Context, userID string) ([]entity.Space, error) {
	rows, err := r.pool.Query(ctx, spaceSelect+` WHERE `+spaceVisible+` ORDER BY s.created_at DESC`, userID)
	if err != nil {
		return nil, mapErr(err, "space")
	}
	defer rows.Close()

	out := []entity.Space{}
	ids := []string{}
	for rows.Next() {
		s, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "space")
	}

	members, err := loadMembers(ctx, r.pool, "space_members", "space_id", ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		setSpaceMembers(&out[i], members[out[i].ID])
	}
	return out, nil
}

func (r *SpaceRepository) IDsForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT s.id FROM spaces s WHERE `+spaceVisible, userID)
	if err != nil {
		return nil, mapErr(err, "space")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapErr(err, "space")
	}
	return ids, nil
}

func (r *SpaceRepository) Update(ctx context.Context, s *entity.Space) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE spaces SET name = $1, description = $2, updated_at = now()
		WHERE id = $3
		RETURNING updated_at
	`, s.Name, s.Description, s.ID)
	return mapErr(row.Scan(&s.UpdatedAt), "space")
}

func (r *SpaceRepository) AddMember(ctx context.Context, spaceID, userID string) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO space_members (space_id, user_id) VALUES ($1, $2)`, spaceID, userID)
	return mapErr(err, "space member")
}

func (r *SpaceRepository) RemoveMember(ctx context.Context, spaceID, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM space_members WHERE space_id = $1 AND user_id::text = $2`, spaceID, userID)
	return mapErr(err, "space member")
}

func (r *SpaceRepository) DeleteCascade(ctx context.Context, spaceID string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		steps := []string{
			`DELETE FROM comments WHERE issue_id IN (SELECT id FROM issues WHERE space_id = $1)`,
			`DELETE FROM issues WHERE space_id = $1`,
			`DELETE FROM projects WHERE space_id = $1`,
		}
		for _, q := range steps {
			if _, err := tx.Exec(ctx, q, spaceID); err != nil {
				return mapErr(err, "space")
			}
		}
		tag, err := tx.Exec(ctx, `DELETE FROM spaces WHERE id = $1`, spaceID)
		if err != nil {
			return mapErr(err, "space")
		}
		if tag.RowsAffected() == 0 {
			return mapErr(pgx.ErrNoRows, "space")
		}
		return nil
	})
}

// loadMembers fetches member summaries for several parents in one query,
// keyed by parent id and ordered by join time.
func loadMembers(ctx context.Context, db dbtx, table, parentCol string, parentIDs []string) (map[string][]entity.UserSummary, error) {
	out := make(map[string][]entity.UserSummary, len(parentIDs))
	if len(parentIDs) == 0 {
		return out, nil
	}
	rows, err := db.Query(ctx, `
		SELECT m.`+parentCol+`, u.id, u.name, u.email, u.profile_picture
		FROM `+table+` m
		JOIN users u ON u.id = m.user_id
		WHERE m.`+parentCol+` = ANY($1::uuid[])
		ORDER BY m.created_at`, parentIDs)
	if err != nil {
		return nil, mapErr(err, "member")
	}
	defer rows.Close()
	for rows.Next() {
		var parent string
		var u entity.UserSummary
		if err := rows.Scan(&parent, &u.ID, &u.Name, &u.Email, &u.ProfilePicture); err != nil {
			return nil, mapErr(err, "member")
		}
		out[parent] = append(out[parent], u)
	}
	return out, mapErr(rows.Err(), "member")
}

var _ repository.SpaceRepository = (*SpaceRepository)(nil)
