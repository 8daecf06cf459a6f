package usecase

import (
	"context"

	"go-profile-directory/internal/domain"
	"go-profile-directory/pkg/apperror"
)

func requireIdentity(ctx context.Context) (*domain.Identity, error) {
	id, ok := domain.IdentityFromContext(ctx)
	if !ok || id.ID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	return id, nil
}

// requireUser rejects mentor pseudo-identities.
func requireUser(ctx context.Context) (*domain.Identity, error) {
	id, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if id.IsMentor || domain.IsMentorID(id.ID) {
		return nil, apperror.Forbidden("Sign in to perform this action")
	}
	return id, nil
}

func requireAdmin(ctx context.Context) (*domain.Identity, error) {
	id, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if !id.IsAdmin {
		return nil, apperror.Forbidden("Admin access required")
	}
	return id, nil
}

// visibleProfile loads a profile the caller may see. Inactive profiles are
// hidden from everyone but admins.
func visibleProfile(ctx context.Context, repo domain.ProfileRepository, caller *domain.Identity, profileID string) (*domain.Profile, error) {
	p, err := repo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if p == nil || (!p.IsActive && !caller.IsAdmin) {
		return nil, apperror.NotFound("Profile not found")
	}
	return p, nil
}
