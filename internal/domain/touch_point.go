package domain

import (
	"context"
	"time"
)

// TouchPoint is a status note. AuthorID is nil when a mentor wrote it.
type TouchPoint struct {
	ID           string    `json:"id"`
	ProfileID    string    `json:"profile_id"`
	AuthorID     *string   `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	AuthorAvatar string    `json:"author_avatar,omitempty"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}

type TouchPointInput struct {
	Content string `json:"content" validate:"required,not_blank,max=2000"`
}

type TouchPointRepository interface {
	// ListByProfile returns newest first.
	ListByProfile(ctx context.Context, profileID string) ([]TouchPoint, error)
	// LatestByProfile returns nil, nil when the profile has none.
	LatestByProfile(ctx context.Context, profileID string) (*TouchPoint, error)
	// LatestForProfiles returns the newest touch point per profile id.
	LatestForProfiles(ctx context.Context, profileIDs []string) (map[string]TouchPoint, error)
	Create(ctx context.Context, tp *TouchPoint) error
}

type TouchPointUsecase interface {
	List(ctx context.Context, profileID string) ([]TouchPoint, error)
	Latest(ctx context.Context, profileID string) (*TouchPoint, error)
	LatestForProfiles(ctx context.Context, profileIDs []string) (map[string]TouchPoint, error)
	Add(ctx context.Context, profileID string, input TouchPointInput) (*TouchPoint, error)
}
