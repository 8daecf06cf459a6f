package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-profile-directory/internal/domain"
	"go-profile-directory/pkg/apperror"
	"go-profile-directory/pkg/avatar"
	"go-profile-directory/pkg/imaging"
	"go-profile-directory/pkg/logger"
	"go-profile-directory/pkg/security"
	"go-profile-directory/pkg/validation"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

const (
	imageMaxDimension = 800
	imageQuality      = 82
)

type profileUsecase struct {
	repo        domain.ProfileRepository
	comments    domain.CommentRepository
	touchPoints domain.TouchPointRepository
	storage     domain.ImageStorage
	avatars     *avatar.Resolver
	validate    *validator.Validate
	audit       *security.AuditLogger
	now         func() time.Time
}

// NewProfileUsecase wires the profile operations. storage may be nil, in
// which case image uploads are reported as unavailable.
func NewProfileUsecase(
	repo domain.ProfileRepository,
	comments domain.CommentRepository,
	touchPoints domain.TouchPointRepository,
	storage domain.ImageStorage,
	avatars *avatar.Resolver,
	validate *validator.Validate,
	audit *security.AuditLogger,
) domain.ProfileUsecase {
	if avatars == nil {
		avatars = avatar.NewResolver(nil)
	}
	return &profileUsecase{
		repo:        repo,
		comments:    comments,
		touchPoints: touchPoints,
		storage:     storage,
		avatars:     avatars,
		validate:    validate,
		audit:       audit,
		now:         time.Now,
	}
}

func (u *profileUsecase) decorate(p *domain.Profile) {
	if p.ImageURL != "" {
		p.AvatarURL = p.ImageURL
	} else {
		p.AvatarURL = u.avatars.URL(p.Name)
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
}

func (u *profileUsecase) List(ctx context.Context, filter domain.ProfileFilter) ([]domain.Profile, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	active := activeFilter(caller, filter.Status)
	all, err := u.repo.List(ctx, active)
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.Profile, 0, len(all))
	ids := make([]string, 0, len(all))
	for i := range all {
		if !filter.Matches(&all[i]) {
			continue
		}
		u.decorate(&all[i])
		profiles = append(profiles, all[i])
		ids = append(ids, all[i].ID)
	}

	latest, err := u.touchPoints.LatestForProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if tp, ok := latest[profiles[i].ID]; ok {
			profiles[i].LatestTouchPoint = &tp
		}
	}
	return profiles, nil
}

// activeFilter maps the status query onto the repository filter. Only
// admins can see inactive profiles.
func activeFilter(caller *domain.Identity, status string) *bool {
	yes, no := true, false
	if !caller.IsAdmin {
		return &yes
	}
	switch status {
	case domain.StatusActive:
		return &yes
	case domain.StatusInactive:
		return &no
	default:
		return nil
	}
}

func (u *profileUsecase) Get(ctx context.Context, id string) (*domain.Profile, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	p, err := visibleProfile(ctx, u.repo, caller, id)
	if err != nil {
		return nil, err
	}
	latest, err := u.touchPoints.LatestByProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	p.LatestTouchPoint = latest
	u.decorate(p)
	return p, nil
}

// GetDetail loads the profile, its comments and its touch points in parallel.
func (u *profileUsecase) GetDetail(ctx context.Context, id string) (*domain.ProfileDetail, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	var (
		profile     *domain.Profile
		comments    []domain.Comment
		touchPoints []domain.TouchPoint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = visibleProfile(gctx, u.repo, caller, id)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = u.comments.ListByProfile(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		touchPoints, err = u.touchPoints.ListByProfile(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if comments == nil {
		comments = []domain.Comment{}
	}
	if touchPoints == nil {
		touchPoints = []domain.TouchPoint{}
	}
	if len(touchPoints) > 0 {
		latest := touchPoints[0]
		profile.LatestTouchPoint = &latest
	}
	u.decorate(profile)

	return &domain.ProfileDetail{
		Profile:     profile,
		Comments:    comments,
		TouchPoints: touchPoints,
	}, nil
}

// validateInput normalizes input in place and validates the result.
func (u *profileUsecase) validateInput(input *domain.ProfileInput) error {
	*input = input.Normalize()
	if err := u.validate.Struct(input); err != nil {
		return apperror.BadRequest("Validation failed").WithDetails(validation.FormatValidationErrors(err))
	}
	return nil
}

func (u *profileUsecase) Create(ctx context.Context, input domain.ProfileInput) (*domain.Profile, error) {
	caller, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.validateInput(&input); err != nil {
		return nil, err
	}

	p := &domain.Profile{IsActive: true}
	input.Apply(p)
	if err := u.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	u.record(ctx, caller, security.EventProfileCreated, p.ID, map[string]interface{}{"name": p.Name})
	u.decorate(p)
	return p, nil
}

func (u *profileUsecase) Update(ctx context.Context, id string, input domain.ProfileInput) (*domain.Profile, error) {
	caller, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.validateInput(&input); err != nil {
		return nil, err
	}

	existing, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperror.NotFound("Profile not found")
	}
	oldImage := existing.ImageURL

	input.Apply(existing)
	existing.UpdatedAt = u.now()
	updated, err := u.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperror.NotFound("Profile not found")
	}
	if oldImage != updated.ImageURL {
		u.removeStoredImage(ctx, oldImage)
	}

	u.record(ctx, caller, security.EventProfileUpdated, id, nil)
	u.decorate(updated)
	return updated, nil
}

func (u *profileUsecase) Delete(ctx context.Context, id string) error {
	caller, err := requireAdmin(ctx)
	if err != nil {
		return err
	}

	existing, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperror.NotFound("Profile not found")
	}

	deleted, err := u.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound("Profile not found")
	}
	u.removeStoredImage(ctx, existing.ImageURL)

	u.record(ctx, caller, security.EventProfileDeleted, id, map[string]interface{}{"name": existing.Name})
	return nil
}

func (u *profileUsecase) SetStatus(ctx context.Context, id string, active bool) (*domain.Profile, error) {
	caller, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	p, err := u.repo.SetActive(ctx, id, active, u.now())
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("Profile not found")
	}

	u.record(ctx, caller, security.EventProfileStatus, id, map[string]interface{}{"is_active": active})
	u.decorate(p)
	return p, nil
}

func (u *profileUsecase) UploadImage(ctx context.Context, id string, upload domain.ImageUpload) (*domain.Profile, error) {
	caller, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if u.storage == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "Image storage is not configured", nil)
	}
	if len(upload.Data) == 0 {
		return nil, apperror.BadRequest("Image file is required")
	}
	if len(upload.Data) > security.MaxImageBytes {
		return nil, apperror.TooLarge(fmt.Sprintf("Image must be at most %d MB", security.MaxImageBytes>>20))
	}
	if result := security.ValidateImage(upload.Filename, upload.Data); !result.Valid {
		return nil, apperror.BadRequest("Invalid image").WithDetails([]string{result.Error})
	}

	existing, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperror.NotFound("Profile not found")
	}

	img, err := imaging.ToJPEG(upload.Data, imageMaxDimension, imageQuality)
	if errors.Is(err, imaging.ErrTooManyPixels) {
		return nil, apperror.BadRequest("Invalid image").WithDetails([]string{
			fmt.Sprintf("Image must be at most %dx%d pixels", imaging.MaxSourceSide, imaging.MaxSourceSide),
		})
	}
	if err != nil {
		return nil, apperror.New(http.StatusBadRequest, "Image could not be processed", err)
	}

	now := u.now()
	key := fmt.Sprintf("%s-%d.jpg", id, now.UnixMilli())
	publicURL, err := u.storage.Put(ctx, key, img.Data, "image/jpeg")
	if err != nil {
		return nil, apperror.BadGateway("Image upload failed", err)
	}

	p, err := u.repo.SetImageURL(ctx, id, publicURL, now)
	if err != nil || p == nil {
		// The row vanished or the update failed; drop the orphaned object.
		u.removeStoredImage(ctx, publicURL)
		if err != nil {
			return nil, err
		}
		return nil, apperror.NotFound("Profile not found")
	}
	u.removeStoredImage(ctx, existing.ImageURL)

	u.record(ctx, caller, security.EventProfileImage, id, map[string]interface{}{
		"key":    key,
		"width":  img.Width,
		"height": img.Height,
		"bytes":  len(img.Data),
	})
	u.decorate(p)
	return p, nil
}

// removeStoredImage deletes an image from the bucket when the URL points
// into it. Failures are logged only.
func (u *profileUsecase) removeStoredImage(ctx context.Context, imageURL string) {
	if u.storage == nil || imageURL == "" {
		return
	}
	key, ok := u.storage.KeyFromURL(imageURL)
	if !ok {
		return
	}
	if err := u.storage.Delete(ctx, key); err != nil {
		logger.Log.Warn("Failed to delete stored image", "key", key, "error", err)
	}
}

func (u *profileUsecase) Export(ctx context.Context) (*domain.Export, error) {
	caller, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	profiles, err := u.repo.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	now := u.now()
	data, err := exportProfiles(profiles)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("export profiles: %w", err))
	}

	u.record(ctx, caller, security.EventProfilesExported, "", map[string]interface{}{"count": len(profiles)})
	return &domain.Export{
		Filename:    fmt.Sprintf("profiles_%s.xlsx", now.Format("20060102_150405")),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        data,
	}, nil
}

func (u *profileUsecase) record(ctx context.Context, caller *domain.Identity, event security.EventType, target string, details map[string]interface{}) {
	u.audit.Log(ctx, security.AuditEvent{
		Event:     event,
		ActorID:   caller.ID,
		ActorMail: caller.Email,
		TargetID:  target,
		RequestID: domain.RequestIDFromContext(ctx),
		Details:   details,
	})
}
