package httpapi

import (
	"net/http"
)

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetProfile")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	profile, err := h.accountService.Profile(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get profile failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	vipEventIDs := profile.VipEventIDs
	if vipEventIDs == nil {
		vipEventIDs = []string{}
	}

	writeSuccess(ctx, w, http.StatusOK, profileDTO{
		User:        userToDTO(profile.User),
		VipEventIDs: vipEventIDs,
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUsers")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	users, err := h.accountService.ListUsers(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list users failed", "actor_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]userDTO, 0, len(users))
	for _, u := range users {
		items = append(items, userToDTO(u))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetKeyUsageStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetKeyUsageStats")
	defer span.End()

	principal, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	stats, err := h.accountService.KeyUsageStats(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "key usage stats failed", "actor_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	vipByEvent := make([]eventVipCountDTO, 0, len(stats.VipByEvent))
	for _, row := range stats.VipByEvent {
		vipByEvent = append(vipByEvent, eventVipCountDTO{
			EventID:   row.EventID,
			EventName: row.EventName,
			Count:     row.Count,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, keyUsageStatsDTO{
		KeysIssued:   stats.Keys.KeysIssued,
		KeysRedeemed: stats.Keys.KeysRedeemed,
		TotalUnlocks: stats.TotalUnlocks,
		VipByEvent:   vipByEvent,
	})
}
