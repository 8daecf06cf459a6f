package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const apiCSP = "default-src 'none'; img-src 'self' data: https://*.supabase.co https://api.dicebear.com; frame-ancestors 'none'; base-uri 'none'"

// SecurityHeadersMiddleware sets browser hardening headers. HSTS is only
// sent in production; the swagger UI is served without a CSP since it
// relies on inline scripts.
func SecurityHeadersMiddleware(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if production {
			c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")

		if !strings.Contains(c.Request.URL.Path, "/swagger/") {
			c.Header("Content-Security-Policy", apiCSP)
		}

		// Authenticated responses carry personal data.
		if c.GetHeader("Authorization") != "" || hasCookie(c, AuthCookieName) || c.GetHeader(MentorHeader) != "" {
			c.Header("Cache-Control", "no-store, private")
			c.Header("Pragma", "no-cache")
		}

		c.Next()
	}
}

func hasCookie(c *gin.Context, name string) bool {
	v, err := c.Cookie(name)
	return err == nil && v != ""
}
