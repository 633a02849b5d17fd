package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/foliogate-dev/foliogate/internal/session"
)

const (
	// SessionCookieName holds the signed session token
	SessionCookieName = "sessionToken"

	// AccessTokenCookieName holds the bare backend bearer token, written by
	// the cookie sync bridge and read by the proxy routes
	AccessTokenCookieName = "accessToken"

	// CookieMaxAge is the lifetime of both cookies in seconds (7 days)
	CookieMaxAge = 7 * 24 * 60 * 60

	// loginPath is where the route guard sends denied requests
	loginPath = "/login"

	requestIDKey = "request_id"
)

func setSession(c *gin.Context, claims *session.Claims) {
	c.Set("session", claims)
}

// GetSessionClaims returns the verified session claims set by the guard
func GetSessionClaims(c *gin.Context) (*session.Claims, bool) {
	value, exists := c.Get("session")
	if !exists {
		return nil, false
	}

	claims, ok := value.(*session.Claims)
	return claims, ok
}

// requestIDMiddleware assigns each request an id for log correlation. An
// inbound X-Request-ID is honored, otherwise one is generated.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// AdminGuardMiddleware gates dashboard navigation. A request passes only
// when it carries a session cookie that verifies and whose role claim is
// admin; everything else is redirected to the login page.
func AdminGuardMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil {
			redirectToLogin(c, log, "no session cookie")
			return
		}

		claims, err := session.Validate(cookie)
		if err != nil {
			redirectToLogin(c, log, "invalid session")
			return
		}

		if claims.Role != session.RoleAdmin {
			redirectToLogin(c, log, "not an admin")
			return
		}

		setSession(c, claims)
		c.Next()
	}
}

func redirectToLogin(c *gin.Context, log zerolog.Logger, reason string) {
	log.Warn().
		Str("path", c.Request.URL.Path).
		Str("reason", reason).
		Msg("Dashboard access denied")
	c.Redirect(http.StatusTemporaryRedirect, loginPath)
	c.Abort()
}
