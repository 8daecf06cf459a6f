package v1

import (
	"time"

	"go-profile-directory/config"
	"go-profile-directory/internal/delivery/http/middleware"
	"go-profile-directory/internal/domain"
	"go-profile-directory/pkg/auth"
	"go-profile-directory/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC       domain.AuthUsecase
	MentorUC     domain.MentorUsecase
	ProfileUC    domain.ProfileUsecase
	CommentUC    domain.CommentUsecase
	TouchPointUC domain.TouchPointUsecase
	HealthUC     domain.HealthUsecase
	JWKSProvider *auth.Provider
	RateLimiter  *middleware.RateLimiter
	Audit        *security.AuditLogger
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(nil, deps.Audit)
	}

	r := gin.New()

	// CORS must be first so preflights never hit the other middlewares.
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	r.Use(middleware.ErrorHandler())
	r.Use(limiter.Middleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))
	r.Use(middleware.CSRFMiddleware(cfg.IsProduction()))

	v1 := r.Group("/v1")

	NewHealthHandler(v1, deps.HealthUC)
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authenticator := &middleware.Authenticator{
		JWKS:      deps.JWKSProvider,
		JWTSecret: cfg.SupabaseJWTSecret,
		AuthUC:    deps.AuthUC,
		MentorUC:  deps.MentorUC,
		Audit:     deps.Audit,
	}
	writeLimit := limiter.Middleware(middleware.WriteRateLimitConfig(cfg.RateLimitWriteThreshold, window))

	// protected admits users and mentors; user and admin narrow it down.
	protected := v1.Group("", authenticator.Authenticate(), writeLimit)
	user := protected.Group("", middleware.RequireUser())
	admin := protected.Group("/admin", middleware.RequireAdmin(deps.Audit))

	NewAuthHandler(v1, user, deps.AuthUC, CookieConfig{Secure: cfg.IsProduction()})
	NewMentorHandler(v1, deps.MentorUC)
	NewProfileHandler(protected, deps.ProfileUC)
	NewDiscussionHandler(protected, user, deps.CommentUC, deps.TouchPointUC)
	NewAdminHandler(admin, deps.ProfileUC, deps.AuthUC)

	return r
}
