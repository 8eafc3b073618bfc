package auth

import (
	"context"
	"fmt"
)

// Actor is the authenticated identity acting on a request. The core trusts
// the identity collaborator for who the actor is and enforces authorization
// decisions itself.
type Actor struct {
	UserID string
	Roles  []string
}

// HasRole reports whether the actor carries the given role.
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsModerator reports whether the actor may perform moderation actions.
func (a Actor) IsModerator() bool {
	return a.HasRole(RoleModerator)
}

// GetUserIDFromContext extracts the user ID from JWT claims in the context.
// Returns empty string if not authenticated or claims are missing.
// Use this when you only need the user ID and can handle empty string gracefully.
func GetUserIDFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.Subject
}

// ActorFromContext builds the Actor from JWT claims in context.
// Returns an error if the request is not authenticated.
func ActorFromContext(ctx context.Context) (Actor, error) {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return Actor{}, fmt.Errorf("authentication required: no claims in context")
	}
	if claims.Subject == "" {
		return Actor{}, fmt.Errorf("missing user ID in JWT claims")
	}
	return Actor{UserID: claims.Subject, Roles: claims.Roles}, nil
}
