package auth_test

import (
	"testing"

	"github.com/factlens-inc/factlens-engine/pkg/auth"
	"github.com/factlens-inc/factlens-engine/pkg/testhelpers"
)

func TestJWKSClient_VerificationDisabled(t *testing.T) {
	client, err := auth.NewJWKSClient(&auth.JWKSConfig{EnableVerification: false})
	if err != nil {
		t.Fatalf("Failed to create JWKS client: %v", err)
	}
	defer client.Close()

	token := testhelpers.GenerateTestJWT("user-42", auth.RoleUser, auth.RoleModerator)

	claims, err := client.ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Errorf("expected subject 'user-42', got %q", claims.Subject)
	}
	if !claims.IsModerator() {
		t.Error("expected moderator role to survive parsing")
	}
}

func TestJWKSClient_UnknownIssuer(t *testing.T) {
	client, err := auth.NewJWKSClient(&auth.JWKSConfig{EnableVerification: true})
	if err != nil {
		t.Fatalf("Failed to create JWKS client: %v", err)
	}
	defer client.Close()

	token := testhelpers.GenerateTestJWT("user-42", auth.RoleUser)

	if _, err := client.ValidateToken(token); err == nil {
		t.Error("expected error for issuer outside the configured set")
	}
}

func TestJWKSClient_VerificationDisabled_Malformed(t *testing.T) {
	client, err := auth.NewJWKSClient(&auth.JWKSConfig{EnableVerification: false})
	if err != nil {
		t.Fatalf("Failed to create JWKS client: %v", err)
	}
	defer client.Close()

	if _, err := client.ValidateToken("not-a-jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
}
