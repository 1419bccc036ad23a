package handler

import (
	"github.com/feas-hq/allocation-system/internal/core/domain"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Username    string      `json:"username"`
	DisplayName string      `json:"display_name"`
	Email       string      `json:"email,omitempty"`
	Role        domain.Role `json:"role"`
	ExpiresAt   string      `json:"expires_at"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type menuResponse struct {
	Sections []domain.MenuSection `json:"sections"`
}

type searchResponse struct {
	Results []domain.Identity `json:"results"`
}

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}
