package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"minisocial/internal/common"
	"minisocial/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	ListByUser(ctx context.Context, userID int64) ([]model.Post, error)
}

type pgPostRepository struct {
	db *sql.DB
}

func NewPgPostRepository(db *sql.DB) PostRepository {
	return &pgPostRepository{db: db}
}

func (r *pgPostRepository) Create(ctx context.Context, post *model.Post) error {
	query := `INSERT INTO posts (user_id, content)
	          VALUES ($1, $2)
	          RETURNING id`
	err := r.db.QueryRowContext(ctx, query, post.UserID, post.Content).Scan(&post.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == common.PgForeignKeyViolation {
			return fmt.Errorf("user %d does not exist: %w", post.UserID, common.ErrInvalidOwner)
		}
		return fmt.Errorf("pgPostRepository.Create: %w", err)
	}
	return nil
}

// ListByUser returns the user's posts oldest first; never nil.
func (r *pgPostRepository) ListByUser(ctx context.Context, userID int64) ([]model.Post, error) {
	query := `SELECT id, user_id, content
	          FROM posts WHERE user_id = $1
	          ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgPostRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		var (
			p       model.Post
			content sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.UserID, &content); err != nil {
			return nil, fmt.Errorf("pgPostRepository.ListByUser scan: %w", err)
		}
		p.Content = content.String
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgPostRepository.ListByUser rows: %w", err)
	}
	return posts, nil
}
