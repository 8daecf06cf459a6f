package postgres

import (
	"context"
	"errors"

	"go-profile-directory/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, email, COALESCE(name, ''), COALESCE(avatar_url, ''), is_admin, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate(err, "User")
	}
	return user, nil
}

func (r *userRepo) EnsureExists(ctx context.Context, user *domain.User) (*domain.User, error) {
	// name and avatar are only seeded from the identity provider on first insert;
	// an admin may have overridden them since.
	query := `
		INSERT INTO users (id, email, name, avatar_url, is_admin, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), FALSE, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
			SET email = EXCLUDED.email,
			    updated_at = CASE WHEN users.email IS DISTINCT FROM EXCLUDED.email THEN NOW() ELSE users.updated_at END
		RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query, user.ID, user.Email, user.Name, user.AvatarURL))
	if err != nil {
		return nil, translate(err, "User")
	}
	return saved, nil
}

func (r *userRepo) SetAdmin(ctx context.Context, id string, isAdmin bool) (*domain.User, error) {
	query := `UPDATE users SET is_admin = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + userColumns
	user, err := scanUser(r.db.QueryRow(ctx, query, id, isAdmin))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate(err, "User")
	}
	return user, nil
}
