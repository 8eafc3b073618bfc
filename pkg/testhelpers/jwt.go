package testhelpers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// GenerateTestJWT creates a test JWT token for use when verification is disabled.
// The token has a valid structure but no signature (alg: none).
// This is useful for testing auth flows without needing real JWKS validation.
func GenerateTestJWT(sub string, roles ...string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))

	payload := map[string]any{"sub": sub}
	if len(roles) > 0 {
		payload["roles"] = roles
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}

	encodedPayload := base64.RawURLEncoding.EncodeToString(raw)
	return fmt.Sprintf("%s.%s.", header, encodedPayload)
}

// GenerateTestJWTWithBearer returns token with "Bearer " prefix for Authorization header.
func GenerateTestJWTWithBearer(sub string, roles ...string) string {
	return "Bearer " + GenerateTestJWT(sub, roles...)
}
