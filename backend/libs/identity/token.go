package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the JWT payload shared by the auth service and the gateway.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs HS256 tokens.
type Issuer struct {
	secret    []byte
	issuer    string
	expiresIn time.Duration
	now       func() time.Time
}

// NewIssuer returns an Issuer; a non-positive expiry falls back to one hour.
func NewIssuer(secret, issuer string, expiresIn time.Duration) *Issuer {
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}
	return &Issuer{secret: []byte(secret), issuer: issuer, expiresIn: expiresIn, now: time.Now}
}

// Issue creates a signed token for c and returns its expiry.
func (i *Issuer) Issue(c Caller) (string, time.Time, error) {
	if c.ID == 0 {
		return "", time.Time{}, errors.New("token: user id is required")
	}
	if !ValidRole(c.Role) {
		return "", time.Time{}, fmt.Errorf("token: unknown role %q", c.Role)
	}

	now := i.now().UTC()
	expiresAt := now.Add(i.expiresIn)
	claims := Claims{
		UserID: c.ID,
		Role:   c.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verifier validates tokens produced by Issuer.
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifier returns a Verifier bound to secret and issuer.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Verify parses token and returns the caller it identifies.
func (v *Verifier) Verify(token string) (Caller, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return Caller{}, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Caller{}, errors.New("token: invalid claims")
	}
	if claims.UserID <= 0 || !ValidRole(claims.Role) {
		return Caller{}, errors.New("token: incomplete identity")
	}
	return Caller{ID: claims.UserID, Role: claims.Role}, nil
}
