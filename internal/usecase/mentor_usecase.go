package usecase

import (
	"context"

	"go-profile-directory/internal/domain"
	"go-profile-directory/pkg/apperror"
)

type mentorUsecase struct {
	repo domain.MentorRepository
}

func NewMentorUsecase(repo domain.MentorRepository) domain.MentorUsecase {
	return &mentorUsecase{repo: repo}
}

func (u *mentorUsecase) List(ctx context.Context) ([]domain.Mentor, error) {
	return u.repo.List(ctx)
}

// Identify resolves a mentor id into a request identity.
func (u *mentorUsecase) Identify(ctx context.Context, mentorID string) (*domain.Identity, error) {
	if !domain.IsMentorID(mentorID) {
		return nil, apperror.Unauthorized("Unknown mentor")
	}
	m, err := u.repo.GetByID(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.Unauthorized("Unknown mentor")
	}
	return m.Identity(), nil
}
