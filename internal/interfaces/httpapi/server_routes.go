package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/events", handler.ListOpenEvents)
	mux.HandleFunc("GET /v1/events/{eventID}/leaderboard", handler.GetLeaderboard)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/profile", RequireAuth(verifier, http.HandlerFunc(handler.GetProfile)))
	mux.Handle("GET /v1/events/{eventID}", RequireAuth(verifier, http.HandlerFunc(handler.GetEventDetail)))
	mux.Handle("POST /v1/keys/redeem", RequireAuth(verifier, http.HandlerFunc(handler.RedeemKey)))
	mux.Handle("POST /v1/events/{eventID}/vip", RequireAuth(verifier, http.HandlerFunc(handler.GrantVip)))
	mux.Handle("POST /v1/matches/{matchID}/unlock", RequireAuth(verifier, http.HandlerFunc(handler.UnlockScoreBet)))
	mux.Handle("PUT /v1/events/{eventID}/predictions", RequireAuth(verifier, http.HandlerFunc(handler.SavePredictions)))
}

// Admin routes authenticate like player routes; the role check lives
// in the services so it cannot be bypassed by a new transport.
func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/admin/events", RequireAuth(verifier, http.HandlerFunc(handler.CreateEvent)))
	mux.Handle("GET /v1/admin/events", RequireAuth(verifier, http.HandlerFunc(handler.ListAllEvents)))
	mux.Handle("DELETE /v1/admin/events/{eventID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteEvent)))
	mux.Handle("POST /v1/admin/events/{eventID}/matches", RequireAuth(verifier, http.HandlerFunc(handler.AddMatch)))
	mux.Handle("POST /v1/admin/events/{eventID}/finalize", RequireAuth(verifier, http.HandlerFunc(handler.FinalizeEvent)))
	mux.Handle("PUT /v1/admin/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateMatch)))
	mux.Handle("DELETE /v1/admin/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteMatch)))
	mux.Handle("POST /v1/admin/results", RequireAuth(verifier, http.HandlerFunc(handler.EnterResults)))
	mux.Handle("POST /v1/admin/keys", RequireAuth(verifier, http.HandlerFunc(handler.GenerateKey)))
	mux.Handle("GET /v1/admin/stats/keys", RequireAuth(verifier, http.HandlerFunc(handler.GetKeyUsageStats)))
	mux.Handle("GET /v1/admin/users", RequireAuth(verifier, http.HandlerFunc(handler.ListUsers)))
}
