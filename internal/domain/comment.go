package domain

import (
	"context"
	"time"
)

type Comment struct {
	ID           string    `json:"id"`
	ProfileID    string    `json:"profile_id"`
	AuthorID     string    `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	AuthorAvatar string    `json:"author_avatar,omitempty"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}

type CommentInput struct {
	Content string `json:"content" validate:"required,not_blank,max=2000"`
}

type CommentRepository interface {
	// ListByProfile returns newest first.
	ListByProfile(ctx context.Context, profileID string) ([]Comment, error)
	Create(ctx context.Context, comment *Comment) error
}

type CommentUsecase interface {
	List(ctx context.Context, profileID string) ([]Comment, error)
	Add(ctx context.Context, profileID string, input CommentInput) (*Comment, error)
}
