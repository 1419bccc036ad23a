package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/feas-hq/allocation-system/internal/core/domain"
)

type stubAuthService struct {
	sessions map[string]*domain.Session
	tokens   map[string]*domain.Session
}

func newStubAuthService() *stubAuthService {
	return &stubAuthService{
		sessions: make(map[string]*domain.Session),
		tokens:   make(map[string]*domain.Session),
	}
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (*domain.Session, error) {
	return nil, domain.ErrInvalidCredentials
}

func (s *stubAuthService) GetSession(_ context.Context, id string) (*domain.Session, error) {
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *stubAuthService) Logout(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func (s *stubAuthService) IssueToken(_ *domain.Session) (string, error) {
	return "", nil
}

func (s *stubAuthService) VerifyToken(token string) (*domain.Session, error) {
	if sess, ok := s.tokens[token]; ok {
		return sess, nil
	}
	return nil, domain.ErrNotAuthenticated
}

func testSession(role domain.Role) *domain.Session {
	return &domain.Session{
		ID:        "sess-1",
		Identity:  domain.Identity{Username: "gina"},
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestAuth_CookieSession(t *testing.T) {
	svc := newStubAuthService()
	svc.sessions["sess-1"] = testSession(domain.RoleEmployee)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/menu", nil)
	req.AddCookie(&http.Cookie{Name: "feas_session", Value: "sess-1"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *domain.Session
	handler := Auth(svc, "feas_session")(func(c echo.Context) error {
		got = SessionFromContext(c)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got == nil || got.Identity.Username != "gina" {
		t.Fatalf("session not injected into context: %+v", got)
	}
}

func TestAuth_BearerToken(t *testing.T) {
	svc := newStubAuthService()
	svc.tokens["tok-1"] = testSession(domain.RolePDL)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard/summary", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(svc, "feas_session")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuth_MissingCredentialsAPI(t *testing.T) {
	svc := newStubAuthService()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/menu", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(svc, "feas_session")(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuth_BrowserRedirectsToLogin(t *testing.T) {
	svc := newStubAuthService()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/menu", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(svc, "feas_session")(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestAuth_ExpiredCookieFallsThrough(t *testing.T) {
	// Store knows nothing about the cookie: same as an expired/evicted one.
	svc := newStubAuthService()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/menu", nil)
	req.AddCookie(&http.Cookie{Name: "feas_session", Value: "gone"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(svc, "feas_session")(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
