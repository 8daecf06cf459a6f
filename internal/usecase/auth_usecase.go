package usecase

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-profile-directory/internal/domain"
	"go-profile-directory/pkg/apperror"
	"go-profile-directory/pkg/logger"
	"go-profile-directory/pkg/security"
	"go-profile-directory/pkg/supabase"
)

// OAuthClient is the Supabase Auth API as used for Google sign-in.
type OAuthClient interface {
	AuthorizeURL(provider, redirectTo string) (string, string)
	ExchangeCode(ctx context.Context, code, verifier string) (*supabase.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

type AuthConfig struct {
	// LookupTimeout bounds the users-table lookup during reconciliation.
	LookupTimeout   time.Duration
	DefaultRedirect string
	AllowedOrigins  []string
}

type authUsecase struct {
	userRepo domain.UserRepository
	oauth    OAuthClient
	audit    *security.AuditLogger
	cfg      AuthConfig
}

func NewAuthUsecase(userRepo domain.UserRepository, oauth OAuthClient, audit *security.AuditLogger, cfg AuthConfig) domain.AuthUsecase {
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 5 * time.Second
	}
	return &authUsecase{
		userRepo: userRepo,
		oauth:    oauth,
		audit:    audit,
		cfg:      cfg,
	}
}

// ResolveIdentity builds the caller from token claims and overlays the
// users row. The row only overrides non-empty name/avatar and can only
// raise is_admin. A missing row is created so the caller can author
// comments and touch points. A slow or failing lookup degrades to the
// token data.
func (u *authUsecase) ResolveIdentity(ctx context.Context, claims domain.TokenClaims) (*domain.Identity, error) {
	if claims.Subject == "" {
		return nil, apperror.Unauthorized("Token has no subject")
	}
	if domain.IsMentorID(claims.Subject) {
		return nil, apperror.Unauthorized("Invalid token subject")
	}

	identity := &domain.Identity{
		ID:        claims.Subject,
		Email:     claims.Email,
		Name:      claims.MetadataString("full_name", "name"),
		AvatarURL: claims.MetadataString("avatar_url", "picture"),
	}

	lookupCtx, cancel := context.WithTimeout(ctx, u.cfg.LookupTimeout)
	defer cancel()

	user, err := u.userRepo.GetByID(lookupCtx, claims.Subject)
	if err != nil {
		logger.Log.Warn("Could not load user row, using token data", "user_id", claims.Subject, "error", err)
		return identity, nil
	}
	if user == nil {
		user, err = u.userRepo.EnsureExists(lookupCtx, &domain.User{
			ID:        identity.ID,
			Email:     identity.Email,
			Name:      identity.Name,
			AvatarURL: identity.AvatarURL,
		})
		if err != nil {
			logger.Log.Warn("Could not create user row", "user_id", claims.Subject, "error", err)
			return identity, nil
		}
	}
	if user != nil {
		if user.Name != "" {
			identity.Name = user.Name
		}
		if user.AvatarURL != "" {
			identity.AvatarURL = user.AvatarURL
		}
		if user.IsAdmin {
			identity.IsAdmin = true
		}
	}
	return identity, nil
}

func (u *authUsecase) SyncUser(ctx context.Context) (*domain.User, error) {
	caller, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return u.userRepo.EnsureExists(ctx, &domain.User{
		ID:        caller.ID,
		Email:     caller.Email,
		Name:      caller.Name,
		AvatarURL: caller.AvatarURL,
	})
}

func (u *authUsecase) SignInURL(redirectTo string) (string, string, error) {
	redirectTo = strings.TrimSpace(redirectTo)
	if redirectTo == "" {
		redirectTo = u.cfg.DefaultRedirect
	}
	if !u.redirectAllowed(redirectTo) {
		return "", "", apperror.BadRequest("Redirect URL is not allowed")
	}
	signInURL, verifier := u.oauth.AuthorizeURL("google", redirectTo)
	return signInURL, verifier, nil
}

func (u *authUsecase) redirectAllowed(raw string) bool {
	if raw == "" {
		return true
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return false
	}
	origin := parsed.Scheme + "://" + parsed.Host
	for _, allowed := range u.cfg.AllowedOrigins {
		if strings.EqualFold(strings.TrimRight(allowed, "/"), origin) {
			return true
		}
	}
	return false
}

func (u *authUsecase) CompleteSignIn(ctx context.Context, code, verifier string) (*domain.Session, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperror.BadRequest("Authorization code is required")
	}
	if verifier == "" {
		return nil, apperror.BadRequest("Sign-in session expired, please start again")
	}

	session, err := u.oauth.ExchangeCode(ctx, code, verifier)
	if err != nil {
		u.audit.Log(ctx, security.AuditEvent{
			Event:     security.EventLoginFailed,
			RequestID: domain.RequestIDFromContext(ctx),
			Details:   map[string]interface{}{"reason": err.Error()},
		})
		return nil, apperror.New(http.StatusUnauthorized, "Could not complete sign-in", err)
	}

	claims := domain.TokenClaims{
		Subject:      session.User.ID,
		Email:        session.User.Email,
		UserMetadata: session.User.UserMetadata,
	}

	if _, err := u.userRepo.EnsureExists(ctx, &domain.User{
		ID:        claims.Subject,
		Email:     claims.Email,
		Name:      claims.MetadataString("full_name", "name"),
		AvatarURL: claims.MetadataString("avatar_url", "picture"),
	}); err != nil {
		logger.Log.Warn("Could not ensure user row after sign-in", "user_id", claims.Subject, "error", err)
	}

	identity, err := u.ResolveIdentity(ctx, claims)
	if err != nil {
		return nil, err
	}

	u.audit.Log(ctx, security.AuditEvent{
		Event:     security.EventLoginSuccess,
		ActorID:   identity.ID,
		ActorMail: identity.Email,
		RequestID: domain.RequestIDFromContext(ctx),
	})

	return &domain.Session{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    session.TokenType,
		ExpiresIn:    session.ExpiresIn,
		User:         identity,
	}, nil
}

// SignOut always succeeds locally; upstream revocation failures are logged.
func (u *authUsecase) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	if err := u.oauth.SignOut(ctx, accessToken); err != nil {
		logger.Log.Warn("Supabase sign-out failed", "error", err)
	}
	return nil
}

func (u *authUsecase) SetAdmin(ctx context.Context, userID string, isAdmin bool) (*domain.User, error) {
	caller, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if caller.ID == userID && !isAdmin {
		return nil, apperror.BadRequest("You cannot remove your own admin access")
	}

	user, err := u.userRepo.SetAdmin(ctx, userID, isAdmin)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	u.audit.Log(ctx, security.AuditEvent{
		Event:     security.EventAdminGranted,
		ActorID:   caller.ID,
		ActorMail: caller.Email,
		TargetID:  userID,
		RequestID: domain.RequestIDFromContext(ctx),
		Details:   map[string]interface{}{"is_admin": isAdmin},
	})
	return user, nil
}
