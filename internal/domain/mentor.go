package domain

import (
	"context"
	"strings"
)

// MentorIDPrefix marks pseudo-identity ids. Such ids never reference users.
const MentorIDPrefix = "mentor-"

type Mentor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func IsMentorID(id string) bool {
	return strings.HasPrefix(id, MentorIDPrefix)
}

// Identity returns the request identity for acting as this mentor.
func (m Mentor) Identity() *Identity {
	return &Identity{
		ID:        m.ID,
		Name:      m.Name,
		AvatarURL: m.AvatarURL,
		IsMentor:  true,
	}
}

type MentorRepository interface {
	List(ctx context.Context) ([]Mentor, error)
	// GetByID returns nil, nil for unknown ids.
	GetByID(ctx context.Context, id string) (*Mentor, error)
}

type MentorUsecase interface {
	List(ctx context.Context) ([]Mentor, error)
	Identify(ctx context.Context, mentorID string) (*Identity, error)
}
