package httpapi

import (
	"net/http"
	"strings"

	"github.com/fulbitoplay/prediction-pool/internal/usecase"
)

type matchResultRequest struct {
	MatchID       string `json:"matchId" validate:"required"`
	ResultLocal   *int   `json:"resultLocal" validate:"required"`
	ResultVisitor *int   `json:"resultVisitor" validate:"required"`
}

type enterResultsRequest struct {
	Results []matchResultRequest `json:"results" validate:"required,min=1,dive"`
}

type generateKeyRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=1000"`
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	eventID := strings.TrimSpace(r.PathValue("eventID"))
	rows, err := h.leaderboardService.Leaderboard(ctx, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "leaderboard failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(rows))
}

func (h *Handler) EnterResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EnterResults")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req enterResultsRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	results := make([]usecase.MatchResultInput, 0, len(req.Results))
	for _, res := range req.Results {
		results = append(results, usecase.MatchResultInput{
			MatchID:       res.MatchID,
			ResultLocal:   *res.ResultLocal,
			ResultVisitor: *res.ResultVisitor,
		})
	}

	if err := h.scoringService.EnterResults(ctx, principal.UserID, results); err != nil {
		h.logger.WarnContext(ctx, "enter results failed",
			"actor_id", principal.UserID,
			"count", len(results),
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"entered": len(results)})
}

func (h *Handler) FinalizeEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinalizeEvent")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	eventID := strings.TrimSpace(r.PathValue("eventID"))
	standings, err := h.scoringService.FinalizeEvent(ctx, principal.UserID, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "finalize event failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"eventId":   eventID,
		"status":    "finished",
		"standings": leaderboardToDTO(standings),
	})
}

func (h *Handler) GenerateKey(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateKey")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req generateKeyRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	key, err := h.ledgerService.GenerateKey(ctx, principal.UserID, req.Quantity)
	if err != nil {
		h.logger.WarnContext(ctx, "generate key failed", "actor_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, activationKeyToDTO(key))
}
