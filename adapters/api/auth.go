package api

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fieldready/domain/core"
)

// Role scopes what a token may do. Devices push data and never read
// it back; soldiers read their own records; admins read everyone's.
type Role string

const (
	RoleDevice  Role = "device"
	RoleSoldier Role = "soldier"
	RoleAdmin   Role = "admin"
)

// Claims is the access token payload
type Claims struct {
	UserID string `json:"uid"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer with the given signing secret
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token binding a user to a role
func (i *TokenIssuer) Issue(userID core.UserID, role Role) (string, error) {
	now := i.now()
	claims := Claims{
		UserID: userID.String(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "fieldready",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Parse verifies a token and returns its claims
func (i *TokenIssuer) Parse(token string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return Claims{}, err
	}
	if !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	return claims, nil
}

type claimsContextKey struct{}

// ClaimsFrom returns the authenticated claims attached by RequireAuth
func ClaimsFrom(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(Claims)
	return claims, ok
}

func withClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// canReadUser reports whether the token may read another user's records.
// Device tokens never read; soldiers read themselves; admins read anyone.
func (c Claims) canReadUser(userID string) bool {
	switch c.Role {
	case RoleAdmin:
		return true
	case RoleSoldier:
		return c.UserID == userID
	default:
		return false
	}
}
