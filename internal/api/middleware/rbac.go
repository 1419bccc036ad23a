package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feas-hq/allocation-system/internal/api/metrics"
	"github.com/feas-hq/allocation-system/internal/core/domain"
)

// RBAC enforces role-based access on top of the Auth gate. A missing
// session is a 401 (the gate did not run or was bypassed); an
// authenticated principal outside the allowed set is a 403.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFromContext(c)
			if sess == nil {
				metrics.AuthDeniedTotal.WithLabelValues("not_authenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if _, ok := allowed[sess.Role]; !ok {
				metrics.AuthDeniedTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}
