package usecase

import (
	"context"
	"strings"

	"go-profile-directory/internal/domain"
	"go-profile-directory/pkg/apperror"
	"go-profile-directory/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type commentUsecase struct {
	repo     domain.CommentRepository
	profiles domain.ProfileRepository
	validate *validator.Validate
}

func NewCommentUsecase(repo domain.CommentRepository, profiles domain.ProfileRepository, validate *validator.Validate) domain.CommentUsecase {
	return &commentUsecase{
		repo:     repo,
		profiles: profiles,
		validate: validate,
	}
}

func (u *commentUsecase) List(ctx context.Context, profileID string) ([]domain.Comment, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := visibleProfile(ctx, u.profiles, caller, profileID); err != nil {
		return nil, err
	}

	comments, err := u.repo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

// Add stores a comment by a signed-in user. Mentors only post touch points.
func (u *commentUsecase) Add(ctx context.Context, profileID string, input domain.CommentInput) (*domain.Comment, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if caller.IsMentor || domain.IsMentorID(caller.ID) {
		return nil, apperror.Forbidden("Mentors cannot post comments")
	}
	input.Content = strings.TrimSpace(input.Content)
	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest("Validation failed").WithDetails(validation.FormatValidationErrors(err))
	}
	if _, err := visibleProfile(ctx, u.profiles, caller, profileID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ProfileID:    profileID,
		AuthorID:     caller.ID,
		AuthorName:   caller.DisplayName(),
		AuthorAvatar: caller.AvatarURL,
		Content:      input.Content,
	}
	if err := u.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
