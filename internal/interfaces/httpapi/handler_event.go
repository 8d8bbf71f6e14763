package httpapi

import (
	"net/http"
	"strings"
)

type createEventRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	CloseDate string `json:"closeDate" validate:"required"`
}

type matchUpsertRequest struct {
	LocalTeam     string `json:"localTeam" validate:"required,max=80"`
	VisitorTeam   string `json:"visitorTeam" validate:"required,max=80"`
	MatchDatetime string `json:"matchDatetime" validate:"required"`
}

func (h *Handler) ListOpenEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListOpenEvents")
	defer span.End()

	events, err := h.eventService.ListOpenEvents(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list open events failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]eventDTO, 0, len(events))
	for _, ev := range events {
		items = append(items, eventToDTO(ev))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListAllEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAllEvents")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	events, err := h.eventService.ListAllEvents(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list all events failed", "actor_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]eventDTO, 0, len(events))
	for _, ev := range events {
		items = append(items, eventToDTO(ev))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetEventDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEventDetail")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	eventID := strings.TrimSpace(r.PathValue("eventID"))
	detail, err := h.eventService.GetEventForUser(ctx, eventID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get event detail failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	matches := make([]matchDetailDTO, 0, len(detail.Matches))
	for _, m := range detail.Matches {
		item := matchDetailDTO{
			Match:    matchToDTO(m.Match),
			Unlocked: m.Unlocked,
		}
		if m.Prediction != nil {
			dto := predictionToDTO(*m.Prediction)
			item.Prediction = &dto
		}
		matches = append(matches, item)
	}

	writeSuccess(ctx, w, http.StatusOK, eventDetailDTO{
		Event:   eventToDTO(detail.Event),
		IsVip:   detail.IsVip,
		Matches: matches,
	})
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateEvent")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req createEventRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	closeDate, err := parseRFC3339("closeDate", req.CloseDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	ev, err := h.eventService.CreateEvent(ctx, principal.UserID, req.Name, closeDate)
	if err != nil {
		h.logger.WarnContext(ctx, "create event failed", "actor_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, eventToDTO(ev))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteEvent")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	eventID := strings.TrimSpace(r.PathValue("eventID"))
	if err := h.eventService.DeleteEvent(ctx, principal.UserID, eventID); err != nil {
		h.logger.WarnContext(ctx, "delete event failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"eventId": eventID, "status": "deleted"})
}

func (h *Handler) AddMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddMatch")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	eventID := strings.TrimSpace(r.PathValue("eventID"))

	var req matchUpsertRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	kickoff, err := parseRFC3339("matchDatetime", req.MatchDatetime)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.eventService.AddMatch(ctx, principal.UserID, eventID, req.LocalTeam, req.VisitorTeam, kickoff)
	if err != nil {
		h.logger.WarnContext(ctx, "add match failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(m))
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatch")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))

	var req matchUpsertRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	kickoff, err := parseRFC3339("matchDatetime", req.MatchDatetime)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	m, err := h.eventService.UpdateMatch(ctx, principal.UserID, matchID, req.LocalTeam, req.VisitorTeam, kickoff)
	if err != nil {
		h.logger.WarnContext(ctx, "update match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(m))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	if err := h.eventService.DeleteMatch(ctx, principal.UserID, matchID); err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"matchId": matchID, "status": "deleted"})
}
