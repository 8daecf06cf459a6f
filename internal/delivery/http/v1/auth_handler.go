package v1

import (
	"net/http"
	"strings"
	"time"

	"go-profile-directory/internal/delivery/http/middleware"
	"go-profile-directory/internal/delivery/http/response"
	"go-profile-directory/internal/domain"
	"go-profile-directory/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const (
	pkceCookieName = "pkce_verifier"
	pkceCookieTTL  = 10 * time.Minute
)

// CookieConfig controls the attributes of the session cookies.
type CookieConfig struct {
	Secure bool
	Domain string
}

type AuthHandler struct {
	authUC  domain.AuthUsecase
	cookies CookieConfig
}

func NewAuthHandler(public, user *gin.RouterGroup, authUC domain.AuthUsecase, cookies CookieConfig) {
	handler := &AuthHandler{authUC: authUC, cookies: cookies}

	auth := public.Group("/auth")
	{
		auth.GET("/google", handler.GoogleSignIn)
		auth.POST("/callback", handler.Callback)
		auth.POST("/logout", handler.Logout)
	}

	me := user.Group("/auth")
	{
		me.GET("/me", handler.Me)
		me.POST("/sync", handler.Sync)
	}
}

type CallbackRequest struct {
	Code string `json:"code" binding:"required"`
}

// GoogleSignIn godoc
// @Summary      Start Google sign-in
// @Description  Redirects to the Supabase authorize URL and stores the PKCE verifier in a cookie
// @Tags         auth
// @Param        redirect_to  query  string  false  "Where Supabase sends the user back"
// @Success      302
// @Failure      400  {object}  response.Response
// @Router       /auth/google [get]
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	signInURL, verifier, err := h.authUC.SignInURL(c.Query("redirect_to"))
	if err != nil {
		c.Error(err)
		return
	}

	h.setCookie(c, pkceCookieName, verifier, int(pkceCookieTTL.Seconds()))
	c.Redirect(http.StatusFound, signInURL)
}

// Callback godoc
// @Summary      Complete sign-in
// @Description  Exchanges the authorization code for a session and sets the auth_token cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      CallbackRequest  true  "Authorization code"
// @Success      200   {object}  response.Response{data=domain.Session}
// @Failure      400   {object}  response.Response
// @Failure      401   {object}  response.Response
// @Router       /auth/callback [post]
func (h *AuthHandler) Callback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Authorization code is required"))
		return
	}

	verifier, _ := c.Cookie(pkceCookieName)
	session, err := h.authUC.CompleteSignIn(c.Request.Context(), req.Code, verifier)
	if err != nil {
		c.Error(err)
		return
	}

	h.setCookie(c, pkceCookieName, "", -1)
	maxAge := session.ExpiresIn
	if maxAge <= 0 {
		maxAge = int(time.Hour.Seconds())
	}
	h.setCookie(c, middleware.AuthCookieName, session.AccessToken, maxAge)

	response.Success(c, http.StatusOK, "Signed in", session)
}

// Logout godoc
// @Summary      Sign out
// @Description  Revokes the Supabase session when possible and clears the auth cookie
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	if token == "" {
		token, _ = c.Cookie(middleware.AuthCookieName)
	}

	if err := h.authUC.SignOut(c.Request.Context(), token); err != nil {
		c.Error(err)
		return
	}
	h.setCookie(c, middleware.AuthCookieName, "", -1)
	response.Success(c, http.StatusOK, "Signed out", nil)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Identity}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.Error(apperror.Unauthorized("User not authenticated"))
		return
	}
	response.Success(c, http.StatusOK, "Current user", identity)
}

// Sync godoc
// @Summary      Ensure user row
// @Description  Creates the users row for the signed-in account when missing
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /auth/sync [post]
// @Security     BearerAuth
func (h *AuthHandler) Sync(c *gin.Context) {
	user, err := h.authUC.SyncUser(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User synced", user)
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", h.cookies.Domain, h.cookies.Secure, true)
}
