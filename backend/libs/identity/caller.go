package identity

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

const (
	// RoleCustomer is the default role for self-registered users.
	RoleCustomer = "customer"
	// RoleAdmin may mutate readings and list users.
	RoleAdmin = "admin"

	// HeaderUserID carries the verified caller id from the gateway to services.
	HeaderUserID = "X-User-ID"
	// HeaderUserRole carries the verified caller role.
	HeaderUserRole = "X-User-Role"
)

// ErrNoIdentity is returned when a request carries no usable caller identity.
var ErrNoIdentity = errors.New("identity: caller identity missing")

// Caller is the verified identity attached to every authenticated request.
type Caller struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleAdmin
}

// Headers returns the forwarding headers for c.
func (c Caller) Headers() map[string]string {
	return map[string]string{
		HeaderUserID:   strconv.FormatInt(c.ID, 10),
		HeaderUserRole: c.Role,
	}
}

// FromHeader reads a caller forwarded by the gateway.
func FromHeader(h http.Header) (Caller, error) {
	rawID := strings.TrimSpace(h.Get(HeaderUserID))
	if rawID == "" {
		return Caller{}, ErrNoIdentity
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return Caller{}, ErrNoIdentity
	}
	role := strings.TrimSpace(h.Get(HeaderUserRole))
	if !ValidRole(role) {
		return Caller{}, ErrNoIdentity
	}
	return Caller{ID: id, Role: role}, nil
}

type contextKey struct{}

// WithCaller stores c in ctx.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// CallerFrom returns the caller stored by one of the middlewares.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(contextKey{}).(Caller)
	return c, ok
}
