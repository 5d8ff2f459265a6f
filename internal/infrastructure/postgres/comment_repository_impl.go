package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/spaceboard/internal/domain/entity"
	"github.com/oksasatya/spaceboard/internal/domain/repository"
)

const commentSelect = `
	SELECT c.id, c.issue_id, c.user_id, u.name, u.email, u.profile_picture, c.text, c.created_at, c.updated_at
	FROM comments c
	JOIN users u ON u.id = c.user_id`

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func scanComment(row pgx.Row) (*entity.Comment, error) {
	c := &entity.Comment{User: &entity.UserSummary{}}
	err := row.Scan(&c.ID, &c.IssueID, &c.UserID, &c.User.Name, &c.User.Email, &c.User.ProfilePicture,
		&c.Text, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapErr(err, "comment")
	}
	c.User.ID = c.UserID
	return c, nil
}

func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO comments (issue_id, user_id, text) VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, c.IssueID, c.UserID, c.Text)
	return mapErr(row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt), "comment")
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	return scanComment(r.pool.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, id))
}

func (r *CommentRepository) ListByIssue(ctx context.Context, issueID string) ([]entity.Comment, error) {
	rows, err := r.pool.Query(ctx, commentSelect+` WHERE c.issue_id = $1 ORDER BY c.created_at ASC`, issueID)
	if err != nil {
		return nil, mapErr(err, "comment")
	}
	defer rows.Close()

	out := []entity.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, mapErr(rows.Err(), "comment")
}

func (r *CommentRepository) Update(ctx context.Context, c *entity.Comment) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE comments SET text = $1, updated_at = now() WHERE id = $2
		RETURNING updated_at`, c.Text, c.ID)
	return mapErr(row.Scan(&c.UpdatedAt), "comment")
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "comment")
	}
	if tag.RowsAffected() == 0 {
		return mapErr(pgx.ErrNoRows, "comment")
	}
	return nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
