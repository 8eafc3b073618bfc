package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

// mockAuthService is a mock implementation of AuthService for testing.
type mockAuthService struct {
	claims      *Claims
	token       string
	validateErr error
}

func (m *mockAuthService) ValidateRequest(r *http.Request) (*Claims, string, error) {
	if m.validateErr != nil {
		return nil, "", m.validateErr
	}
	return m.claims, m.token, nil
}

func TestMiddleware_RequireAuth_Success(t *testing.T) {
	claims := &Claims{Roles: []string{RoleUser}}
	claims.Subject = "user-123"
	authService := &mockAuthService{claims: claims, token: "test-token"}
	middleware := NewMiddleware(authService, zap.NewNop())

	var handlerCalled bool
	var ctxClaims *Claims
	var ctxToken string

	handler := middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		ctxClaims, _ = GetClaims(r.Context())
		ctxToken, _ = GetToken(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/claims", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if !handlerCalled {
		t.Error("expected handler to be called")
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	if ctxClaims == nil || ctxClaims.Subject != "user-123" {
		t.Error("expected claims to be set in context")
	}

	if ctxToken != "test-token" {
		t.Errorf("expected token 'test-token' in context, got %q", ctxToken)
	}
}

func TestMiddleware_RequireAuth_Unauthorized(t *testing.T) {
	authService := &mockAuthService{validateErr: ErrMissingAuthorization}
	middleware := NewMiddleware(authService, zap.NewNop())

	handler := middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/claims", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body["error"] != "unauthorized" {
		t.Errorf("expected error 'unauthorized', got %q", body["error"])
	}
}

func TestMiddleware_RequireAuth_MissingSubject(t *testing.T) {
	authService := &mockAuthService{claims: &Claims{}, token: "test-token"}
	middleware := NewMiddleware(authService, zap.NewNop())

	handler := middleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/claims", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestMiddleware_RequireRole_Success(t *testing.T) {
	claims := &Claims{Roles: []string{RoleUser, RoleModerator}}
	claims.Subject = "mod-1"
	authService := &mockAuthService{claims: claims, token: "test-token"}
	middleware := NewMiddleware(authService, zap.NewNop())

	var handlerCalled bool
	handler := middleware.RequireRole(RoleModerator)(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/fact-checkers/x/approve", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if !handlerCalled {
		t.Error("expected handler to be called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestMiddleware_RequireRole_Forbidden(t *testing.T) {
	claims := &Claims{Roles: []string{RoleUser}}
	claims.Subject = "user-1"
	authService := &mockAuthService{claims: claims, token: "test-token"}
	middleware := NewMiddleware(authService, zap.NewNop())

	handler := middleware.RequireRole(RoleModerator)(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/fact-checkers/x/approve", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body["error"] != "forbidden" {
		t.Errorf("expected error 'forbidden', got %q", body["error"])
	}
}

func TestActorFromContext(t *testing.T) {
	claims := &Claims{Roles: []string{RoleFactChecker}}
	claims.Subject = "checker-1"
	ctx := context.WithValue(context.Background(), ClaimsKey, claims)

	actor, err := ActorFromContext(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actor.UserID != "checker-1" {
		t.Errorf("expected user ID 'checker-1', got %q", actor.UserID)
	}
	if !actor.HasRole(RoleFactChecker) {
		t.Error("expected actor to carry fact_checker role")
	}
	if actor.IsModerator() {
		t.Error("expected actor not to be a moderator")
	}
}

func TestActorFromContext_NoClaims(t *testing.T) {
	if _, err := ActorFromContext(context.Background()); err == nil {
		t.Error("expected error for context without claims")
	}
}

func TestActorFromContext_MissingSubject(t *testing.T) {
	ctx := context.WithValue(context.Background(), ClaimsKey, &Claims{})
	if _, err := ActorFromContext(ctx); err == nil {
		t.Error("expected error for claims without subject")
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	if got := GetUserIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty user ID, got %q", got)
	}

	claims := &Claims{}
	claims.Subject = "user-9"
	ctx := context.WithValue(context.Background(), ClaimsKey, claims)
	if got := GetUserIDFromContext(ctx); got != "user-9" {
		t.Errorf("expected 'user-9', got %q", got)
	}
}
