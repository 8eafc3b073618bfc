package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/factlens-inc/factlens-engine/pkg/auth"
	"github.com/factlens-inc/factlens-engine/pkg/models"
	"github.com/factlens-inc/factlens-engine/pkg/services"
)

// ============================================================================
// Request/Response Types
// ============================================================================

// ApplyRequest for POST /api/fact-checkers/apply
type ApplyRequest struct {
	ExpertiseAreas []string `json:"expertise_areas"`
	AdditionalInfo string   `json:"additional_info,omitempty"`
}

// AssignRequest for POST /api/fact-checkers/{fid}/assign
type AssignRequest struct {
	ClaimID string `json:"claim_id"`
}

// SetActiveRequest for PUT /api/fact-checkers/{fid}/active
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// ============================================================================
// Handler
// ============================================================================

// FactCheckersHandler handles fact checker HTTP requests.
type FactCheckersHandler struct {
	checkerService services.FactCheckerService
	verdictService services.VerdictService
	logger         *zap.Logger
}

// NewFactCheckersHandler creates a new fact checkers handler.
func NewFactCheckersHandler(
	checkerService services.FactCheckerService,
	verdictService services.VerdictService,
	logger *zap.Logger,
) *FactCheckersHandler {
	return &FactCheckersHandler{
		checkerService: checkerService,
		verdictService: verdictService,
		logger:         logger,
	}
}

// RegisterRoutes registers the fact checkers handler's routes on the given mux.
func (h *FactCheckersHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/fact-checkers/apply", authMiddleware.RequireAuth(h.Apply))
	mux.HandleFunc("GET /api/fact-checkers/me", authMiddleware.RequireAuth(h.Me))
	mux.HandleFunc("POST /api/fact-checkers/{fid}/approve",
		authMiddleware.RequireRole(auth.RoleModerator)(h.Approve))
	mux.HandleFunc("POST /api/fact-checkers/{fid}/reject",
		authMiddleware.RequireRole(auth.RoleModerator)(h.Reject))
	mux.HandleFunc("POST /api/fact-checkers/{fid}/assign", authMiddleware.RequireAuth(h.Assign))
	mux.HandleFunc("PUT /api/fact-checkers/{fid}/active", authMiddleware.RequireAuth(h.SetActive))
	mux.HandleFunc("GET /api/fact-checkers/leaderboard", authMiddleware.RequireAuth(h.Leaderboard))
	mux.HandleFunc("GET /api/fact-checkers/{fid}/workload", authMiddleware.RequireAuth(h.Workload))
	mux.HandleFunc("GET /api/fact-checkers/{fid}/stats", authMiddleware.RequireAuth(h.Stats))
}

// Apply handles POST /api/fact-checkers/apply
func (h *FactCheckersHandler) Apply(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		ServiceError(w, err, h.logger, "apply_fact_checker")
		return
	}

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	checker, err := h.checkerService.Apply(r.Context(), actor.UserID, req.ExpertiseAreas, req.AdditionalInfo)
	if err != nil {
		ServiceError(w, err, h.logger, "apply_fact_checker")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: checker}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Me handles GET /api/fact-checkers/me
func (h *FactCheckersHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		ServiceError(w, err, h.logger, "get_own_profile")
		return
	}

	checker, err := h.checkerService.GetByUserID(r.Context(), actor.UserID)
	if err != nil {
		ServiceError(w, err, h.logger, "get_own_profile")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: checker}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Approve handles POST /api/fact-checkers/{fid}/approve
func (h *FactCheckersHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, "approve_fact_checker", h.checkerService.Approve)
}

// Reject handles POST /api/fact-checkers/{fid}/reject
func (h *FactCheckersHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, "reject_fact_checker", h.checkerService.Reject)
}

func (h *FactCheckersHandler) review(w http.ResponseWriter, r *http.Request, operation string, fn func(ctx context.Context, id uuid.UUID, actor auth.Actor) error) {
	checkerID, ok := ParseFactCheckerID(w, r, h.logger)
	if !ok {
		return
	}

	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		ServiceError(w, err, h.logger, operation)
		return
	}

	if err := fn(r.Context(), checkerID, actor); err != nil {
		ServiceError(w, err, h.logger, operation)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Assign handles POST /api/fact-checkers/{fid}/assign
func (h *FactCheckersHandler) Assign(w http.ResponseWriter, r *http.Request) {
	checkerID, ok := ParseFactCheckerID(w, r, h.logger)
	if !ok {
		return
	}

	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		ServiceError(w, err, h.logger, "assign_claim")
		return
	}

	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	claimID, err := uuidFromQuery(req.ClaimID)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_claim_id", "Invalid claim ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	claim, err := h.checkerService.Assign(r.Context(), claimID, checkerID, actor)
	if err != nil {
		ServiceError(w, err, h.logger, "assign_claim")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: claim}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SetActive handles PUT /api/fact-checkers/{fid}/active
func (h *FactCheckersHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	checkerID, ok := ParseFactCheckerID(w, r, h.logger)
	if !ok {
		return
	}

	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		ServiceError(w, err, h.logger, "set_active")
		return
	}

	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_body", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.checkerService.SetActive(r.Context(), checkerID, req.Active, actor); err != nil {
		ServiceError(w, err, h.logger, "set_active")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Workload handles GET /api/fact-checkers/{fid}/workload
func (h *FactCheckersHandler) Workload(w http.ResponseWriter, r *http.Request) {
	checkerID, ok := ParseFactCheckerID(w, r, h.logger)
	if !ok {
		return
	}

	workload, err := h.checkerService.Workload(r.Context(), checkerID)
	if err != nil {
		ServiceError(w, err, h.logger, "fact_checker_workload")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: workload}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Stats handles GET /api/fact-checkers/{fid}/stats
func (h *FactCheckersHandler) Stats(w http.ResponseWriter, r *http.Request) {
	checkerID, ok := ParseFactCheckerID(w, r, h.logger)
	if !ok {
		return
	}

	stats, err := h.verdictService.Stats(r.Context(), checkerID, services.Timeframe(r.URL.Query().Get("timeframe")))
	if err != nil {
		ServiceError(w, err, h.logger, "fact_checker_stats")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: stats}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Leaderboard handles GET /api/fact-checkers/leaderboard
func (h *FactCheckersHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.verdictService.Leaderboard(r.Context(),
		services.Timeframe(r.URL.Query().Get("timeframe")), queryInt(r, "limit", 0))
	if err != nil {
		ServiceError(w, err, h.logger, "leaderboard")
		return
	}
	if entries == nil {
		entries = []*models.LeaderboardEntry{}
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: entries}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
