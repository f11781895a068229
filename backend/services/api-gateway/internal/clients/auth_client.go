package clients

import (
	"context"
	"net/http"
)

// AuthClient proxies auth-service endpoints.
type AuthClient struct {
	base *BaseClient
}

// NewAuthClient returns client.
func NewAuthClient(base *BaseClient) *AuthClient {
	return &AuthClient{base: base}
}

// Signup forwards signup payload.
func (c *AuthClient) Signup(ctx context.Context, body []byte, headers map[string]string) (*Response, error) {
	return c.base.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/signup", Body: body, Headers: headers})
}

// Login forwards login payload.
func (c *AuthClient) Login(ctx context.Context, body []byte, headers map[string]string) (*Response, error) {
	return c.base.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/login", Body: body, Headers: headers})
}

// Me fetches the caller's account. headers must carry the caller identity.
func (c *AuthClient) Me(ctx context.Context, headers map[string]string) (*Response, error) {
	return c.base.Do(ctx, Request{Method: http.MethodGet, Path: "/auth/me", Headers: headers})
}

// Users lists accounts; auth-service enforces the admin role.
func (c *AuthClient) Users(ctx context.Context, headers map[string]string) (*Response, error) {
	return c.base.Do(ctx, Request{Method: http.MethodGet, Path: "/auth/users", Headers: headers})
}

// UpdateProfile forwards a profile change for the caller named in headers.
func (c *AuthClient) UpdateProfile(ctx context.Context, body []byte, headers map[string]string) (*Response, error) {
	return c.base.Do(ctx, Request{Method: http.MethodPut, Path: "/auth/profile", Body: body, Headers: headers})
}
