package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"water360/backend/libs/httpx"
	"water360/backend/libs/identity"
	"water360/backend/services/auth-service/internal/models"
	"water360/backend/services/auth-service/internal/service"
)

// AuthHandlers serves signup, login and account lookups.
type AuthHandlers struct {
	service *service.AuthService
	logger  *zap.Logger
}

// NewAuthHandlers returns handler struct.
func NewAuthHandlers(svc *service.AuthService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{service: svc, logger: logger}
}

type loginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Signup handles POST /auth/signup.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.service.Signup(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, "create user", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, "login", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresAt: res.ExpiresAt,
		User:      res.User,
	})
}

// Me handles GET /auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.CallerFrom(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := h.service.Me(r.Context(), caller.ID)
	if err != nil {
		writeServiceError(w, h.logger, "load user", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /auth/profile.
func (h *AuthHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.CallerFrom(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req service.ProfileInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), caller.ID, req)
	if err != nil {
		writeServiceError(w, h.logger, "update profile", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

// Users handles GET /auth/users.
func (h *AuthHandlers) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.Users(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "list users", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(users),
		"data":  users,
	})
}
