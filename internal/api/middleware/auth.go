package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/feas-hq/allocation-system/internal/api/metrics"
	"github.com/feas-hq/allocation-system/internal/core/domain"
	"github.com/feas-hq/allocation-system/internal/core/ports"
)

// sessionKey is the echo context key under which the gate stores the
// authenticated session.
const sessionKey = "session"

// Auth is the authorization gate. It resolves the caller's principal from
// the session cookie or, failing that, from a bearer token, and stores the
// session in the request context. Unauthenticated browser requests are
// redirected to the login page; API callers get a 401 JSON body.
func Auth(auth ports.AuthService, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := sessionFromCookie(c, auth, cookieName)
			if sess == nil {
				sess = sessionFromBearer(c, auth)
			}
			if sess == nil {
				metrics.AuthDeniedTotal.WithLabelValues("not_authenticated").Inc()
				if acceptsHTML(c.Request()) {
					return c.Redirect(http.StatusSeeOther, "/login")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			c.Set(sessionKey, sess)
			return next(c)
		}
	}
}

// SessionFromContext returns the session stored by the Auth gate, or nil
// when the gate did not run.
func SessionFromContext(c echo.Context) *domain.Session {
	sess, _ := c.Get(sessionKey).(*domain.Session)
	return sess
}

func sessionFromCookie(c echo.Context, auth ports.AuthService, cookieName string) *domain.Session {
	cookie, err := c.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	sess, err := auth.GetSession(c.Request().Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return sess
}

func sessionFromBearer(c echo.Context, auth ports.AuthService) *domain.Session {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil
	}
	sess, err := auth.VerifyToken(parts[1])
	if err != nil {
		return nil
	}
	return sess
}

// acceptsHTML reports whether the request comes from a browser navigation
// rather than an API client. Bearer-carrying requests are always API calls.
func acceptsHTML(r *http.Request) bool {
	if r.Header.Get("Authorization") != "" {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
