package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/factlens-inc/factlens-engine/pkg/auth"
	"github.com/factlens-inc/factlens-engine/pkg/models"
	"github.com/factlens-inc/factlens-engine/pkg/services"
)

// ============================================================================
// Request/Response Types
// ============================================================================

// SubmitClaimRequest for POST /api/claims
type SubmitClaimRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	VideoURL    string `json:"video_url,omitempty"`
	SourceURL   string `json:"source_url,omitempty"`
}

// UpdateClaimRequest for PUT /api/claims/{cid}
type UpdateClaimRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	SourceURL   string `json:"source_url,omitempty"`
}

// OverrideStatusRequest for POST /api/claims/{cid}/status
type OverrideStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// ClaimListResponse for GET /api/claims
type ClaimListResponse struct {
	Claims     []*models.Claim    `json:"claims"`
	Pagination *models.Pagination `json:"pagination"`
}

// ============================================================================
// Handler
// ============================================================================

// ClaimsHandler handles claim HTTP requests.
type ClaimsHandler struct {
	claimService services.ClaimService
	logger       *zap.Logger
}

// NewClaimsHandler creates a new claims handler.
func NewClaimsHandler(claimService services.ClaimService, logger *zap.Logger) *ClaimsHandler {
	return &ClaimsHandler{
		claimService: claimService,
		logger:       logger,
	}
}

// RegisterRoutes registers the claims handler's routes on the given mux.
func (h *ClaimsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/claims", authMiddleware.RequireAuth(h.Submit))
	mux.HandleFunc("GET /api/claims", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/claims/trending", authMiddleware.RequireAuth(h.Trending))
	mux.HandleFunc("GET /api/claims/{cid}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PUT /api/claims/{cid}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("POST /api/claims/{cid}/status", authMiddleware.RequireAuth(h.OverrideStatus))
	mux.HandleFunc("DELETE /api/claims/{cid}", authMiddleware.RequireAuth(h.Delete))
}

// Submit handles POST /api/claims
func (h *ClaimsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		ServiceError(w, err, h.logger, "submit_claim")
		return
	}

	var req SubmitClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	claim, err := h.claimService.Submit(r.Context(), models.NewClaimInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		SubmitterID: actor.UserID,
		VideoURL:    req.VideoURL,
		SourceURL:   req.SourceURL,
	})
	if err != nil {
		ServiceError(w, err, h.logger, "submit_claim")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: claim}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/claims
func (h *ClaimsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.ClaimFilter{
		Status:   models.ClaimStatus(r.URL.Query().Get("status")),
		Category: r.URL.Query().Get("category"),
		Page:     queryInt(r, "page", 1),
		Limit:    queryInt(r, "limit", 0),
	}
	if raw := r.URL.Query().Get("fact_checker_id"); raw != "" {
		id, err := uuidFromQuery(raw)
		if err != nil {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_fact_checker_id", "Invalid fact checker ID format"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		filter.FactCheckerID = id
	}

	claims, pagination, err := h.claimService.List(r.Context(), filter)
	if err != nil {
		ServiceError(w, err, h.logger, "list_claims")
		return
	}
	if claims == nil {
		claims = []*models.Claim{}
	}

	response := ClaimListResponse{Claims: claims, Pagination: pagination}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/claims/{cid}
func (h *ClaimsHandler) Get(w http.ResponseWriter, r *http.Request) {
	claimID, ok := ParseClaimID(w, r, h.logger)
	if !ok {
		return
	}

	claim, err := h.claimService.Get(r.Context(), claimID)
	if err != nil {
		ServiceError(w, err, h.logger, "get_claim")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: claim}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/claims/{cid}
func (h *ClaimsHandler) Update(w http.ResponseWriter, r *http.Request) {
	claimID, ok := ParseClaimID(w, r, h.logger)
	if !ok {
		return
	}

	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		ServiceError(w, err, h.logger, "update_claim")
		return
	}

	var req UpdateClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	claim, err := h.claimService.Update(r.Context(), claimID, models.UpdateClaimInput{
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		SourceURL:   req.SourceURL,
	}, actor)
	if err != nil {
		ServiceError(w, err, h.logger, "update_claim")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: claim}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// OverrideStatus handles POST /api/claims/{cid}/status
func (h *ClaimsHandler) OverrideStatus(w http.ResponseWriter, r *http.Request) {
	claimID, ok := ParseClaimID(w, r, h.logger)
	if !ok {
		return
	}

	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		ServiceError(w, err, h.logger, "override_status")
		return
	}

	var req OverrideStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	claim, err := h.claimService.OverrideStatus(r.Context(), claimID, models.ClaimStatus(req.Status), req.Note, actor)
	if err != nil {
		ServiceError(w, err, h.logger, "override_status")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: claim}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/claims/{cid}
func (h *ClaimsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claimID, ok := ParseClaimID(w, r, h.logger)
	if !ok {
		return
	}

	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		ServiceError(w, err, h.logger, "delete_claim")
		return
	}

	if err := h.claimService.Delete(r.Context(), claimID, actor); err != nil {
		ServiceError(w, err, h.logger, "delete_claim")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Trending handles GET /api/claims/trending
func (h *ClaimsHandler) Trending(w http.ResponseWriter, r *http.Request) {
	claims, err := h.claimService.Trending(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		ServiceError(w, err, h.logger, "trending_claims")
		return
	}
	if claims == nil {
		claims = []*models.Claim{}
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: claims}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
