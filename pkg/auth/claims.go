// Package auth provides JWT-based authentication for factlens-engine.
// It validates bearer tokens issued by the identity collaborator using JWKS
// endpoints and exposes the authenticated actor to downstream handlers.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
	// TokenKey is the context key for storing the raw JWT token string.
	TokenKey contextKey = "token"
)

// Actor roles recognized by the service.
const (
	RoleUser        = "user"
	RoleFactChecker = "fact_checker"
	RoleModerator   = "moderator"
)

// Claims represents the JWT claims structure issued by the identity
// collaborator. It embeds RegisteredClaims for standard JWT fields
// (sub, iss, exp, etc.) and adds the actor's roles.
type Claims struct {
	jwt.RegisteredClaims
	Email string   `json:"email,omitempty"` // User email address
	Roles []string `json:"roles,omitempty"` // Actor roles
}

// HasRole reports whether the actor carries the given role.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsModerator reports whether the actor may perform moderation actions.
func (c *Claims) IsModerator() bool {
	return c.HasRole(RoleModerator)
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// GetToken retrieves the raw JWT token string from the request context.
// Returns empty string and false if token is not present.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}
