package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/factlens-inc/factlens-engine/pkg/auth"
	"github.com/factlens-inc/factlens-engine/pkg/models"
	"github.com/factlens-inc/factlens-engine/pkg/services"
)

// RecordVerdictRequest for POST /api/verdicts
type RecordVerdictRequest struct {
	ClaimID   string `json:"claim_id"`
	Outcome   string `json:"outcome"`
	Reasoning string `json:"reasoning"`
}

// RecordVerdictResponse for POST /api/verdicts
type RecordVerdictResponse struct {
	Verdict *models.Verdict `json:"verdict"`
	Claim   *models.Claim   `json:"claim"`
}

// VerdictsHandler handles verdict HTTP requests.
type VerdictsHandler struct {
	verdictService services.VerdictService
	logger         *zap.Logger
}

// NewVerdictsHandler creates a new verdicts handler.
func NewVerdictsHandler(verdictService services.VerdictService, logger *zap.Logger) *VerdictsHandler {
	return &VerdictsHandler{
		verdictService: verdictService,
		logger:         logger,
	}
}

// RegisterRoutes registers the verdicts handler's routes on the given mux.
func (h *VerdictsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/verdicts", authMiddleware.RequireAuth(h.Record))
}

// Record handles POST /api/verdicts
func (h *VerdictsHandler) Record(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		ServiceError(w, err, h.logger, "record_verdict")
		return
	}

	var req RecordVerdictRequest
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

	verdict, claim, err := h.verdictService.Record(r.Context(), claimID, models.VerdictOutcome(req.Outcome), req.Reasoning, actor)
	if err != nil {
		ServiceError(w, err, h.logger, "record_verdict")
		return
	}

	response := RecordVerdictResponse{Verdict: verdict, Claim: claim}
	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
