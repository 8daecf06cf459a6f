package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"go-profile-directory/internal/delivery/http/response"
	"go-profile-directory/internal/domain"
	"go-profile-directory/pkg/auth"
	"go-profile-directory/pkg/logger"
	"go-profile-directory/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	AuthCookieName = "auth_token"
	MentorHeader   = "X-Mentor-ID"
)

// Authenticator resolves the caller of a request from a Supabase access
// token or, when no token is sent, from the mentor header.
type Authenticator struct {
	JWKS      *auth.Provider
	JWTSecret string
	AuthUC    domain.AuthUsecase
	MentorUC  domain.MentorUsecase
	Audit     *security.AuditLogger
}

// Authenticate requires a caller. Mentor pseudo-identities are accepted;
// pair it with RequireUser on routes that need a signed-in user.
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)

		var (
			identity *domain.Identity
			err      error
		)
		switch {
		case tokenString != "":
			identity, err = a.identityFromToken(c, tokenString)
			if err != nil {
				logger.Log.Debug("Token validation failed", "error", err, "path", c.FullPath())
				a.reject(c, "Invalid token")
				return
			}
			c.Set(string(domain.KeyAccessToken), tokenString)
		case c.GetHeader(MentorHeader) != "" && a.MentorUC != nil:
			identity, err = a.MentorUC.Identify(c.Request.Context(), strings.TrimSpace(c.GetHeader(MentorHeader)))
			if err != nil {
				a.reject(c, "Unknown mentor")
				return
			}
		default:
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyIdentity), identity)
		c.Request = c.Request.WithContext(domain.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

func (a *Authenticator) reject(c *gin.Context, message string) {
	a.Audit.Log(c.Request.Context(), security.AuditEvent{
		Event:     security.EventUnauthorizedAccess,
		IP:        c.ClientIP(),
		RequestID: c.GetString("RequestID"),
		Details:   map[string]interface{}{"path": c.Request.URL.Path, "reason": message},
	})
	response.Error(c, http.StatusUnauthorized, message, nil)
	c.Abort()
}

func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		return cookie
	}
	return ""
}

func (a *Authenticator) identityFromToken(c *gin.Context, tokenString string) (*domain.Identity, error) {
	token, err := jwt.Parse(tokenString, a.keyFunc, jwt.WithValidMethods([]string{"HS256", "RS256", "ES256", "ES384"}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}

	claims := domain.TokenClaims{}
	claims.Subject, _ = mapClaims["sub"].(string)
	claims.Email, _ = mapClaims["email"].(string)
	claims.UserMetadata, _ = mapClaims["user_metadata"].(map[string]interface{})

	return a.AuthUC.ResolveIdentity(c.Request.Context(), claims)
}

func (a *Authenticator) keyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if a.JWTSecret == "" {
			return nil, fmt.Errorf("HS256 token received but SUPABASE_JWT_SECRET is not configured")
		}
		return []byte(a.JWTSecret), nil
	case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
		if a.JWKS == nil {
			return nil, fmt.Errorf("asymmetric token received but JWKS is not configured")
		}
		return a.JWKS.KeyFunc(token)
	default:
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
}

// RequireUser rejects mentor pseudo-identities.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok || identity.IsMentor {
			response.Error(c, http.StatusForbidden, "Sign in to perform this action", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequireAdmin(audit *security.AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok || identity.IsMentor || !identity.IsAdmin {
			event := security.AuditEvent{
				Event:     security.EventUnauthorizedAccess,
				IP:        c.ClientIP(),
				RequestID: c.GetString("RequestID"),
				Details:   map[string]interface{}{"path": c.Request.URL.Path, "reason": "admin required"},
			}
			if ok {
				event.ActorID = identity.ID
				event.ActorMail = identity.Email
			}
			audit.Log(c.Request.Context(), event)
			response.Error(c, http.StatusForbidden, "Admin access required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the caller set by Authenticate.
func IdentityFrom(c *gin.Context) (*domain.Identity, bool) {
	v, exists := c.Get(string(domain.KeyIdentity))
	if !exists {
		return nil, false
	}
	identity, ok := v.(*domain.Identity)
	return identity, ok && identity != nil
}
