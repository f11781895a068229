package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"water360/backend/libs/httpx"
	"water360/backend/libs/identity"
	"water360/backend/services/api-gateway/internal/clients"
)

const authUpstream = "auth service"

// AuthHandlers proxies auth-service endpoints.
type AuthHandlers struct {
	client *clients.AuthClient
	logger *zap.Logger
}

// NewAuthHandlers returns handler struct.
func NewAuthHandlers(client *clients.AuthClient, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{client: client, logger: logger}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}
	resp, err := h.client.Signup(r.Context(), body, forwardHeaders(r))
	if err != nil {
		writeProxyError(w, h.logger, authUpstream, err)
		return
	}
	writeUpstream(w, resp)
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}
	resp, err := h.client.Login(r.Context(), body, forwardHeaders(r))
	if err != nil {
		writeProxyError(w, h.logger, authUpstream, err)
		return
	}
	writeUpstream(w, resp)
}

// Me handles GET /api/auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	resp, err := h.client.Me(r.Context(), forwardHeaders(r))
	if err != nil {
		writeProxyError(w, h.logger, authUpstream, err)
		return
	}
	writeUpstream(w, resp)
}

// Users handles GET /api/auth/users.
func (h *AuthHandlers) Users(w http.ResponseWriter, r *http.Request) {
	resp, err := h.client.Users(r.Context(), forwardHeaders(r))
	if err != nil {
		writeProxyError(w, h.logger, authUpstream, err)
		return
	}
	writeUpstream(w, resp)
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}
	resp, err := h.client.UpdateProfile(r.Context(), body, forwardHeaders(r))
	if err != nil {
		writeProxyError(w, h.logger, authUpstream, err)
		return
	}
	writeUpstream(w, resp)
}

// Logout handles POST /api/auth/logout. Tokens are stateless; the client drops its copy.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if caller, ok := identity.CallerFrom(r.Context()); ok {
		h.logger.Debug("user logged out", zap.Int64("user_id", caller.ID))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
