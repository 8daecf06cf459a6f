package usecase

import (
	"context"
	"strings"

	"go-profile-directory/internal/domain"
	"go-profile-directory/pkg/apperror"
	"go-profile-directory/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type touchPointUsecase struct {
	repo     domain.TouchPointRepository
	profiles domain.ProfileRepository
	validate *validator.Validate
}

func NewTouchPointUsecase(repo domain.TouchPointRepository, profiles domain.ProfileRepository, validate *validator.Validate) domain.TouchPointUsecase {
	return &touchPointUsecase{
		repo:     repo,
		profiles: profiles,
		validate: validate,
	}
}

func (u *touchPointUsecase) List(ctx context.Context, profileID string) ([]domain.TouchPoint, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := visibleProfile(ctx, u.profiles, caller, profileID); err != nil {
		return nil, err
	}

	tps, err := u.repo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if tps == nil {
		tps = []domain.TouchPoint{}
	}
	return tps, nil
}

// Latest returns nil, nil when the profile has no touch points yet.
func (u *touchPointUsecase) Latest(ctx context.Context, profileID string) (*domain.TouchPoint, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := visibleProfile(ctx, u.profiles, caller, profileID); err != nil {
		return nil, err
	}
	return u.repo.LatestByProfile(ctx, profileID)
}

func (u *touchPointUsecase) LatestForProfiles(ctx context.Context, profileIDs []string) (map[string]domain.TouchPoint, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return nil, err
	}
	if len(profileIDs) == 0 {
		return map[string]domain.TouchPoint{}, nil
	}
	return u.repo.LatestForProfiles(ctx, profileIDs)
}

// Add records a touch point. Mentor-authored entries carry no author id
// since mentor ids do not reference users.
func (u *touchPointUsecase) Add(ctx context.Context, profileID string, input domain.TouchPointInput) (*domain.TouchPoint, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	input.Content = strings.TrimSpace(input.Content)
	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest("Validation failed").WithDetails(validation.FormatValidationErrors(err))
	}
	if _, err := visibleProfile(ctx, u.profiles, caller, profileID); err != nil {
		return nil, err
	}

	tp := &domain.TouchPoint{
		ProfileID:    profileID,
		AuthorName:   caller.DisplayName(),
		AuthorAvatar: caller.AvatarURL,
		Content:      input.Content,
	}
	if !caller.IsMentor && !domain.IsMentorID(caller.ID) {
		authorID := caller.ID
		tp.AuthorID = &authorID
	}
	if err := u.repo.Create(ctx, tp); err != nil {
		return nil, err
	}
	return tp, nil
}
