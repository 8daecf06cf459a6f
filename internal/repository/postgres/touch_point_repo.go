package postgres

import (
	"context"
	"errors"

	"go-profile-directory/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type touchPointRepository struct {
	db *pgxpool.Pool
}

func NewTouchPointRepository(db *pgxpool.Pool) domain.TouchPointRepository {
	return &touchPointRepository{db: db}
}

const touchPointColumns = `id, profile_id, author_id, author_name, COALESCE(author_avatar, ''), content, created_at`

func scanTouchPoint(row pgx.Row) (*domain.TouchPoint, error) {
	var tp domain.TouchPoint
	if err := row.Scan(&tp.ID, &tp.ProfileID, &tp.AuthorID, &tp.AuthorName, &tp.AuthorAvatar, &tp.Content, &tp.CreatedAt); err != nil {
		return nil, err
	}
	return &tp, nil
}

func (r *touchPointRepository) ListByProfile(ctx context.Context, profileID string) ([]domain.TouchPoint, error) {
	query := `SELECT ` + touchPointColumns + ` FROM touch_points WHERE profile_id = $1 ORDER BY created_at DESC`
	return r.many(ctx, query, profileID)
}

func (r *touchPointRepository) LatestByProfile(ctx context.Context, profileID string) (*domain.TouchPoint, error) {
	query := `SELECT ` + touchPointColumns + ` FROM touch_points WHERE profile_id = $1 ORDER BY created_at DESC LIMIT 1`
	tp, err := scanTouchPoint(r.db.QueryRow(ctx, query, profileID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate(err, "Touch point")
	}
	return tp, nil
}

func (r *touchPointRepository) LatestForProfiles(ctx context.Context, profileIDs []string) (map[string]domain.TouchPoint, error) {
	result := make(map[string]domain.TouchPoint, len(profileIDs))
	if len(profileIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT DISTINCT ON (profile_id) ` + touchPointColumns + `
		FROM touch_points
		WHERE profile_id::text = ANY($1)
		ORDER BY profile_id, created_at DESC`

	tps, err := r.many(ctx, query, pq.Array(profileIDs))
	if err != nil {
		return nil, err
	}
	for _, tp := range tps {
		result[tp.ProfileID] = tp
	}
	return result, nil
}

func (r *touchPointRepository) Create(ctx context.Context, tp *domain.TouchPoint) error {
	query := `
		INSERT INTO touch_points (profile_id, author_id, author_name, author_avatar, content, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NOW())
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, tp.ProfileID, tp.AuthorID, tp.AuthorName, tp.AuthorAvatar, tp.Content).
		Scan(&tp.ID, &tp.CreatedAt)
	return translate(err, "Touch point")
}

func (r *touchPointRepository) many(ctx context.Context, query string, args ...interface{}) ([]domain.TouchPoint, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "Touch point")
	}
	defer rows.Close()

	tps := []domain.TouchPoint{}
	for rows.Next() {
		tp, err := scanTouchPoint(rows)
		if err != nil {
			return nil, translate(err, "Touch point")
		}
		tps = append(tps, *tp)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "Touch point")
	}
	return tps, nil
}
