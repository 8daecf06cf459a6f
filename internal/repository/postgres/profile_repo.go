package postgres

import (
	"context"
	"errors"
	"time"

	"go-profile-directory/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type profileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `
	id, name, COALESCE(email, ''), COALESCE(phone, ''), age,
	COALESCE(education, ''), COALESCE(expertise, ''), COALESCE(resume_link, ''),
	COALESCE(interviewer_opinion, ''), skills, COALESCE(bio, ''), COALESCE(image_url, ''),
	is_active, created_at, updated_at`

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	var skills []string
	err := row.Scan(
		&p.ID, &p.Name, &p.Email, &p.Phone, &p.Age,
		&p.Education, &p.Expertise, &p.ResumeLink,
		&p.InterviewerOpinion, pq.Array(&skills), &p.Bio, &p.ImageURL,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if skills == nil {
		skills = []string{}
	}
	p.Skills = skills
	return &p, nil
}

func (r *profileRepository) List(ctx context.Context, active *bool) ([]domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles`
	args := []interface{}{}
	if active != nil {
		query += ` WHERE is_active = $1`
		args = append(args, *active)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "Profile")
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, translate(err, "Profile")
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "Profile")
	}
	return profiles, nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return r.one(ctx, query, id)
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (
			name, email, phone, age, education, expertise, resume_link,
			interviewer_opinion, skills, bio, image_url, is_active, created_at, updated_at
		) VALUES (
			$1, NULLIF($2, ''), NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
			NULLIF($8, ''), $9, NULLIF($10, ''), NULLIF($11, ''), $12, NOW(), NOW()
		)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		p.Name, p.Email, p.Phone, p.Age, p.Education, p.Expertise, p.ResumeLink,
		p.InterviewerOpinion, pq.Array(p.Skills), p.Bio, p.ImageURL, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return translate(err, "Profile")
}

func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	query := `
		UPDATE profiles SET
			name = $2, email = NULLIF($3, ''), phone = NULLIF($4, ''), age = $5,
			education = NULLIF($6, ''), expertise = NULLIF($7, ''), resume_link = NULLIF($8, ''),
			interviewer_opinion = NULLIF($9, ''), skills = $10, bio = NULLIF($11, ''),
			image_url = NULLIF($12, ''), is_active = $13, updated_at = $14
		WHERE id = $1
		RETURNING ` + profileColumns

	return r.one(ctx, query,
		p.ID, p.Name, p.Email, p.Phone, p.Age,
		p.Education, p.Expertise, p.ResumeLink,
		p.InterviewerOpinion, pq.Array(p.Skills), p.Bio,
		p.ImageURL, p.IsActive, p.UpdatedAt,
	)
}

func (r *profileRepository) SetActive(ctx context.Context, id string, active bool, at time.Time) (*domain.Profile, error) {
	query := `UPDATE profiles SET is_active = $2, updated_at = $3 WHERE id = $1 RETURNING ` + profileColumns
	return r.one(ctx, query, id, active, at)
}

func (r *profileRepository) SetImageURL(ctx context.Context, id, imageURL string, at time.Time) (*domain.Profile, error) {
	query := `UPDATE profiles SET image_url = NULLIF($2, ''), updated_at = $3 WHERE id = $1 RETURNING ` + profileColumns
	return r.one(ctx, query, id, imageURL, at)
}

func (r *profileRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return false, translate(err, "Profile")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *profileRepository) one(ctx context.Context, query string, args ...interface{}) (*domain.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate(err, "Profile")
	}
	return p, nil
}
