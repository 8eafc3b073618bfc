package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/factlens-inc/factlens-engine/pkg/apperrors"
	"github.com/factlens-inc/factlens-engine/pkg/auth"
	"github.com/factlens-inc/factlens-engine/pkg/models"
)

// mockClaimService implements services.ClaimService for handler testing.
type mockClaimService struct {
	claim       *models.Claim
	claims      []*models.Claim
	pagination  *models.Pagination
	submitErr   error
	getErr      error
	listErr     error
	updateErr   error
	overrideErr error
	deleteErr   error
	trendingErr error

	capturedInput  models.NewClaimInput
	capturedFilter models.ClaimFilter
	capturedStatus models.ClaimStatus
	capturedActor  auth.Actor
}

func (m *mockClaimService) Submit(_ context.Context, input models.NewClaimInput) (*models.Claim, error) {
	m.capturedInput = input
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return m.claim, nil
}

func (m *mockClaimService) Get(_ context.Context, id uuid.UUID) (*models.Claim, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.claim, nil
}

func (m *mockClaimService) List(_ context.Context, filter models.ClaimFilter) ([]*models.Claim, *models.Pagination, error) {
	m.capturedFilter = filter
	if m.listErr != nil {
		return nil, nil, m.listErr
	}
	return m.claims, m.pagination, nil
}

func (m *mockClaimService) Update(_ context.Context, id uuid.UUID, input models.UpdateClaimInput, actor auth.Actor) (*models.Claim, error) {
	m.capturedActor = actor
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.claim, nil
}

func (m *mockClaimService) OverrideStatus(_ context.Context, id uuid.UUID, newStatus models.ClaimStatus, note string, actor auth.Actor) (*models.Claim, error) {
	m.capturedStatus = newStatus
	m.capturedActor = actor
	if m.overrideErr != nil {
		return nil, m.overrideErr
	}
	return m.claim, nil
}

func (m *mockClaimService) Delete(_ context.Context, id uuid.UUID, actor auth.Actor) error {
	m.capturedActor = actor
	return m.deleteErr
}

func (m *mockClaimService) Trending(_ context.Context, limit int) ([]*models.Claim, error) {
	if m.trendingErr != nil {
		return nil, m.trendingErr
	}
	return m.claims, nil
}

func makeRequest(method, path string, body []byte) *http.Request {
	if body != nil {
		return httptest.NewRequest(method, path, bytes.NewReader(body))
	}
	return httptest.NewRequest(method, path, nil)
}

func makeAuthedRequest(method, path string, body []byte, userID string, roles ...string) *http.Request {
	req := makeRequest(method, path, body)
	claims := &auth.Claims{Roles: roles}
	claims.Subject = userID
	ctx := context.WithValue(req.Context(), auth.ClaimsKey, claims)
	return req.WithContext(ctx)
}

func pendingClaim(submitterID string) *models.Claim {
	return &models.Claim{
		ID:          uuid.New(),
		Title:       "Bats are blind",
		Description: "Claims bats cannot see at all",
		Category:    "science",
		Status:      models.StatusPending,
		SubmitterID: submitterID,
		SubmittedAt: time.Now(),
	}
}

func TestClaimsHandler_Submit(t *testing.T) {
	svc := &mockClaimService{claim: pendingClaim("user-1")}
	handler := NewClaimsHandler(svc, zap.NewNop())

	body, _ := json.Marshal(SubmitClaimRequest{
		Title:       "Bats are blind",
		Description: "Claims bats cannot see at all",
		Category:    "science",
	})
	req := makeAuthedRequest("POST", "/api/claims", body, "user-1", auth.RoleUser)
	rr := httptest.NewRecorder()

	handler.Submit(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "user-1", svc.capturedInput.SubmitterID)

	var resp ApiResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "pending", data["status"])
}

func TestClaimsHandler_Submit_InvalidBody(t *testing.T) {
	svc := &mockClaimService{}
	handler := NewClaimsHandler(svc, zap.NewNop())

	req := makeAuthedRequest("POST", "/api/claims", []byte("{not json"), "user-1")
	rr := httptest.NewRecorder()

	handler.Submit(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestClaimsHandler_Submit_ValidationError(t *testing.T) {
	svc := &mockClaimService{submitErr: apperrors.NewValidationError("title", "must not be empty")}
	handler := NewClaimsHandler(svc, zap.NewNop())

	body, _ := json.Marshal(SubmitClaimRequest{Category: "science"})
	req := makeAuthedRequest("POST", "/api/claims", body, "user-1")
	rr := httptest.NewRecorder()

	handler.Submit(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "validation_failed", resp["error"])
}

func TestClaimsHandler_Submit_Unauthenticated(t *testing.T) {
	svc := &mockClaimService{}
	handler := NewClaimsHandler(svc, zap.NewNop())

	req := makeRequest("POST", "/api/claims", []byte(`{}`))
	rr := httptest.NewRecorder()

	handler.Submit(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestClaimsHandler_Get_NotFound(t *testing.T) {
	svc := &mockClaimService{getErr: apperrors.ErrNotFound}
	handler := NewClaimsHandler(svc, zap.NewNop())

	claimID := uuid.New()
	req := makeAuthedRequest("GET", "/api/claims/"+claimID.String(), nil, "user-1")
	req.SetPathValue("cid", claimID.String())
	rr := httptest.NewRecorder()

	handler.Get(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "not_found", resp["error"])
}

func TestClaimsHandler_Get_InvalidID(t *testing.T) {
	svc := &mockClaimService{}
	handler := NewClaimsHandler(svc, zap.NewNop())

	req := makeAuthedRequest("GET", "/api/claims/not-a-uuid", nil, "user-1")
	req.SetPathValue("cid", "not-a-uuid")
	rr := httptest.NewRecorder()

	handler.Get(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestClaimsHandler_List(t *testing.T) {
	svc := &mockClaimService{
		claims:     []*models.Claim{pendingClaim("user-1"), pendingClaim("user-2")},
		pagination: &models.Pagination{Page: 1, Limit: 20, Total: 2},
	}
	handler := NewClaimsHandler(svc, zap.NewNop())

	req := makeAuthedRequest("GET", "/api/claims?status=pending&page=2&limit=5", nil, "user-1")
	rr := httptest.NewRecorder()

	handler.List(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.StatusPending, svc.capturedFilter.Status)
	assert.Equal(t, 2, svc.capturedFilter.Page)
	assert.Equal(t, 5, svc.capturedFilter.Limit)

	var resp ApiResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	data := resp.Data.(map[string]any)
	assert.Len(t, data["claims"].([]any), 2)
}

func TestClaimsHandler_List_EmptyIsArray(t *testing.T) {
	svc := &mockClaimService{pagination: &models.Pagination{Page: 1, Limit: 20}}
	handler := NewClaimsHandler(svc, zap.NewNop())

	req := makeAuthedRequest("GET", "/api/claims", nil, "user-1")
	rr := httptest.NewRecorder()

	handler.List(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"claims":[]`)
}

func TestClaimsHandler_List_InvalidFactCheckerID(t *testing.T) {
	svc := &mockClaimService{}
	handler := NewClaimsHandler(svc, zap.NewNop())

	req := makeAuthedRequest("GET", "/api/claims?fact_checker_id=nope", nil, "user-1")
	rr := httptest.NewRecorder()

	handler.List(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestClaimsHandler_OverrideStatus(t *testing.T) {
	claim := pendingClaim("user-1")
	claim.Status = models.StatusHumanReview
	svc := &mockClaimService{claim: claim}
	handler := NewClaimsHandler(svc, zap.NewNop())

	body, _ := json.Marshal(OverrideStatusRequest{Status: "human_review", Note: "new evidence"})
	req := makeAuthedRequest("POST", "/api/claims/"+claim.ID.String()+"/status", body, "mod-1", auth.RoleModerator)
	req.SetPathValue("cid", claim.ID.String())
	rr := httptest.NewRecorder()

	handler.OverrideStatus(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.StatusHumanReview, svc.capturedStatus)
	assert.Equal(t, "mod-1", svc.capturedActor.UserID)
}

func TestClaimsHandler_OverrideStatus_IllegalTransition(t *testing.T) {
	svc := &mockClaimService{overrideErr: apperrors.ErrIllegalTransition}
	handler := NewClaimsHandler(svc, zap.NewNop())

	claimID := uuid.New()
	body, _ := json.Marshal(OverrideStatusRequest{Status: "verified"})
	req := makeAuthedRequest("POST", "/api/claims/"+claimID.String()+"/status", body, "mod-1", auth.RoleModerator)
	req.SetPathValue("cid", claimID.String())
	rr := httptest.NewRecorder()

	handler.OverrideStatus(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "illegal_transition", resp["error"])
}

func TestClaimsHandler_Update_Forbidden(t *testing.T) {
	svc := &mockClaimService{updateErr: apperrors.ErrForbidden}
	handler := NewClaimsHandler(svc, zap.NewNop())

	claimID := uuid.New()
	body, _ := json.Marshal(UpdateClaimRequest{Title: "Edited"})
	req := makeAuthedRequest("PUT", "/api/claims/"+claimID.String(), body, "user-2")
	req.SetPathValue("cid", claimID.String())
	rr := httptest.NewRecorder()

	handler.Update(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestClaimsHandler_Delete(t *testing.T) {
	svc := &mockClaimService{}
	handler := NewClaimsHandler(svc, zap.NewNop())

	claimID := uuid.New()
	req := makeAuthedRequest("DELETE", "/api/claims/"+claimID.String(), nil, "mod-1", auth.RoleModerator)
	req.SetPathValue("cid", claimID.String())
	rr := httptest.NewRecorder()

	handler.Delete(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestClaimsHandler_Trending(t *testing.T) {
	trending := pendingClaim("user-1")
	trending.IsTrending = true
	svc := &mockClaimService{claims: []*models.Claim{trending}}
	handler := NewClaimsHandler(svc, zap.NewNop())

	req := makeAuthedRequest("GET", "/api/claims/trending", nil, "user-1")
	rr := httptest.NewRecorder()

	handler.Trending(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp ApiResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	items := resp.Data.([]any)
	require.Len(t, items, 1)
	assert.Equal(t, true, items[0].(map[string]any)["is_trending"])
}
