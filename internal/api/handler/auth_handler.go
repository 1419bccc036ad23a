package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/feas-hq/allocation-system/internal/core/domain"
	"github.com/feas-hq/allocation-system/internal/core/ports"
)

// AuthHandler owns the login/logout/session/token endpoints.
type AuthHandler struct {
	authService ports.AuthService
	cookieName  string
	secure      bool
}

// NewAuthHandler creates an AuthHandler. The secure flag controls the
// session cookie's Secure attribute and should be on outside development.
func NewAuthHandler(authService ports.AuthService, cookieName string, secure bool) *AuthHandler {
	return &AuthHandler{authService: authService, cookieName: cookieName, secure: secure}
}

// Login authenticates against the directory and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		// All failure causes collapse into one client-facing message; the
		// real cause is logged inside the service.
		return echo.NewHTTPError(http.StatusUnauthorized, "unable to authenticate")
	}

	c.SetCookie(h.sessionCookie(sess.ID, sess.ExpiresAt))
	return c.JSON(http.StatusOK, toSessionResponse(sess))
}

// Logout closes the current session, if any. Always succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Success      204  "session closed"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
			return err
		}
	}
	c.SetCookie(h.sessionCookie("", time.Unix(0, 0)))
	return c.NoContent(http.StatusNoContent)
}

// Session returns the caller's current session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(sess))
}

// Token mints a short-lived bearer token for the data API.
//
// @Summary      Issue API token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	token, err := h.authService.IssueToken(sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func toSessionResponse(sess *domain.Session) sessionResponse {
	return sessionResponse{
		Username:    sess.Identity.Username,
		DisplayName: sess.Identity.DisplayName,
		Email:       sess.Identity.Email,
		Role:        sess.Role,
		ExpiresAt:   sess.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
