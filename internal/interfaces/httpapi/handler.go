package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/fulbitoplay/prediction-pool/internal/domain/event"
	"github.com/fulbitoplay/prediction-pool/internal/domain/ledger"
	"github.com/fulbitoplay/prediction-pool/internal/domain/match"
	"github.com/fulbitoplay/prediction-pool/internal/domain/prediction"
	"github.com/fulbitoplay/prediction-pool/internal/domain/user"
	"github.com/fulbitoplay/prediction-pool/internal/platform/logging"
	"github.com/fulbitoplay/prediction-pool/internal/usecase"
)

type Handler struct {
	ledgerService      *usecase.LedgerService
	entitlementService *usecase.EntitlementService
	predictionService  *usecase.PredictionService
	scoringService     *usecase.ScoringService
	leaderboardService *usecase.LeaderboardService
	eventService       *usecase.EventService
	accountService     *usecase.AccountService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	ledgerService *usecase.LedgerService,
	entitlementService *usecase.EntitlementService,
	predictionService *usecase.PredictionService,
	scoringService *usecase.ScoringService,
	leaderboardService *usecase.LeaderboardService,
	eventService *usecase.EventService,
	accountService *usecase.AccountService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		ledgerService:      ledgerService,
		entitlementService: entitlementService,
		predictionService:  predictionService,
		scoringService:     scoringService,
		leaderboardService: leaderboardService,
		eventService:       eventService,
		accountService:     accountService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) decodeRequest(r *http.Request, payload any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// requirePrincipal reads the identity that RequireAuth stored on the
// context. Missing principal on an authorized route is a wiring bug,
// still answered as 401.
func requirePrincipal(ctx context.Context, w http.ResponseWriter) (user.Principal, bool) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return user.Principal{}, false
	}
	return principal, true
}

func parseRFC3339(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC3339: %v", usecase.ErrInvalidInput, field, err)
	}
	return t, nil
}

type userDTO struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	KeyBalance int    `json:"keyBalance"`
	IsActive   bool   `json:"isActive"`
}

type profileDTO struct {
	User        userDTO  `json:"user"`
	VipEventIDs []string `json:"vipEventIds"`
}

type eventDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	CloseDate string `json:"closeDate"`
}

type matchDTO struct {
	ID            string `json:"id"`
	EventID       string `json:"eventId"`
	LocalTeam     string `json:"localTeam"`
	VisitorTeam   string `json:"visitorTeam"`
	KickoffAt     string `json:"kickoffAt"`
	ResultLocal   *int   `json:"resultLocal"`
	ResultVisitor *int   `json:"resultVisitor"`
}

type predictionDTO struct {
	MatchID      string `json:"matchId"`
	Main         string `json:"main"`
	ScoreLocal   *int   `json:"scoreLocal,omitempty"`
	ScoreVisitor *int   `json:"scoreVisitor,omitempty"`
	Points       int    `json:"points"`
}

type matchDetailDTO struct {
	Match      matchDTO       `json:"match"`
	Prediction *predictionDTO `json:"prediction,omitempty"`
	Unlocked   bool           `json:"unlocked"`
}

type eventDetailDTO struct {
	Event   eventDTO         `json:"event"`
	IsVip   bool             `json:"isVip"`
	Matches []matchDetailDTO `json:"matches"`
}

type leaderboardRowDTO struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	TotalPoints int    `json:"totalPoints"`
}

type activationKeyDTO struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
	Status   string `json:"status"`
}

type redeemResultDTO struct {
	CreditedKeys int `json:"creditedKeys"`
}

type keyUsageStatsDTO struct {
	KeysIssued   int                `json:"keysIssued"`
	KeysRedeemed int                `json:"keysRedeemed"`
	TotalUnlocks int                `json:"totalUnlocks"`
	VipByEvent   []eventVipCountDTO `json:"vipByEvent"`
}

type eventVipCountDTO struct {
	EventID   string `json:"eventId"`
	EventName string `json:"eventName"`
	Count     int    `json:"count"`
}

func userToDTO(v user.User) userDTO {
	return userDTO{
		ID:         v.ID,
		Username:   v.Username,
		Email:      v.Email,
		Role:       string(v.Role),
		KeyBalance: v.KeyBalance,
		IsActive:   v.IsActive,
	}
}

func eventToDTO(v event.Event) eventDTO {
	return eventDTO{
		ID:        v.ID,
		Name:      v.Name,
		Status:    string(v.Status),
		CloseDate: v.CloseDate.UTC().Format(time.RFC3339),
	}
}

func matchToDTO(v match.Match) matchDTO {
	return matchDTO{
		ID:            v.ID,
		EventID:       v.EventID,
		LocalTeam:     v.LocalTeam,
		VisitorTeam:   v.VisitorTeam,
		KickoffAt:     v.MatchDatetime.UTC().Format(time.RFC3339),
		ResultLocal:   v.ResultLocal,
		ResultVisitor: v.ResultVisitor,
	}
}

func predictionToDTO(v prediction.Prediction) predictionDTO {
	return predictionDTO{
		MatchID:      v.MatchID,
		Main:         string(v.Main),
		ScoreLocal:   v.ScoreLocal,
		ScoreVisitor: v.ScoreVisitor,
		Points:       v.Points,
	}
}

func leaderboardToDTO(rows []usecase.LeaderboardRow) []leaderboardRowDTO {
	out := make([]leaderboardRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboardRowDTO{
			Rank:        row.Rank,
			UserID:      row.UserID,
			Username:    row.Username,
			TotalPoints: row.TotalPoints,
		})
	}
	return out
}

func activationKeyToDTO(v ledger.ActivationKey) activationKeyDTO {
	return activationKeyDTO{
		Code:     v.Code,
		Quantity: v.Quantity,
		Status:   string(v.Status),
	}
}
