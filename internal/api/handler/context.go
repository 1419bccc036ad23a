package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feas-hq/allocation-system/internal/api/middleware"
	"github.com/feas-hq/allocation-system/internal/core/domain"
)

// ctxSession extracts the session injected by the Auth gate. A nil session
// means the route was wired without the gate; fail closed with 401.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return sess, nil
}
