package httpapi

import (
	"net/http"
	"strings"

	"github.com/fulbitoplay/prediction-pool/internal/usecase"
)

type redeemKeyRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

type predictionEntryRequest struct {
	MatchID      string `json:"matchId" validate:"required"`
	Main         string `json:"main" validate:"required,len=1"`
	ScoreLocal   *int   `json:"scoreLocal"`
	ScoreVisitor *int   `json:"scoreVisitor"`
}

type savePredictionsRequest struct {
	Predictions []predictionEntryRequest `json:"predictions" validate:"required,min=1,dive"`
}

func (h *Handler) RedeemKey(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RedeemKey")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req redeemKeyRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	credited, err := h.ledgerService.Redeem(ctx, principal.UserID, req.Code)
	if err != nil {
		h.logger.WarnContext(ctx, "redeem key failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, redeemResultDTO{CreditedKeys: credited})
}

func (h *Handler) GrantVip(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GrantVip")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	eventID := strings.TrimSpace(r.PathValue("eventID"))
	if err := h.entitlementService.GrantVip(ctx, principal.UserID, eventID); err != nil {
		h.logger.WarnContext(ctx, "grant vip failed", "user_id", principal.UserID, "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]string{"eventId": eventID, "status": "vip"})
}

func (h *Handler) UnlockScoreBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnlockScoreBet")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	if err := h.entitlementService.UnlockScoreBet(ctx, principal.UserID, matchID); err != nil {
		h.logger.WarnContext(ctx, "unlock score bet failed", "user_id", principal.UserID, "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]string{"matchId": matchID, "status": "unlocked"})
}

func (h *Handler) SavePredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SavePredictions")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	eventID := strings.TrimSpace(r.PathValue("eventID"))

	var req savePredictionsRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entries := make([]usecase.PredictionEntry, 0, len(req.Predictions))
	for _, p := range req.Predictions {
		entries = append(entries, usecase.PredictionEntry{
			MatchID:      p.MatchID,
			Main:         p.Main,
			ScoreLocal:   p.ScoreLocal,
			ScoreVisitor: p.ScoreVisitor,
		})
	}

	if err := h.predictionService.SavePredictions(ctx, principal.UserID, eventID, entries); err != nil {
		h.logger.WarnContext(ctx, "save predictions failed",
			"user_id", principal.UserID,
			"event_id", eventID,
			"count", len(entries),
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"eventId": eventID,
		"saved":   len(entries),
	})
}
