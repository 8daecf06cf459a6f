package postgres

import (
	"context"

	"go-profile-directory/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type commentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) domain.CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) ListByProfile(ctx context.Context, profileID string) ([]domain.Comment, error) {
	query := `
		SELECT id, profile_id, author_id, author_name, COALESCE(author_avatar, ''), content, created_at
		FROM comments
		WHERE profile_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, translate(err, "Comment")
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.ProfileID, &c.AuthorID, &c.AuthorName, &c.AuthorAvatar, &c.Content, &c.CreatedAt); err != nil {
			return nil, translate(err, "Comment")
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "Comment")
	}
	return comments, nil
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (profile_id, author_id, author_name, author_avatar, content, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NOW())
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, c.ProfileID, c.AuthorID, c.AuthorName, c.AuthorAvatar, c.Content).
		Scan(&c.ID, &c.CreatedAt)
	return translate(err, "Comment")
}
