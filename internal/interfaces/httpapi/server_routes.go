package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/rounds", handler.ListRounds)
	mux.HandleFunc("GET /v1/results", handler.ListResults)
	mux.HandleFunc("POST /v1/tickets", handler.SubmitTicket)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("GET /v1/admin/tickets", RequireAdminToken(adminToken, http.HandlerFunc(handler.ListTickets)))
	mux.Handle("GET /v1/admin/tickets/{ticketID}", RequireAdminToken(adminToken, http.HandlerFunc(handler.GetTicket)))
	mux.Handle("GET /v1/admin/leaderboard", RequireAdminToken(adminToken, http.HandlerFunc(handler.GetLeaderboard)))
	mux.Handle("POST /v1/admin/jobs/sync-rounds", RequireAdminToken(adminToken, http.HandlerFunc(handler.ScheduleSyncRoundsJob)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync-rounds", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncRoundsJob)))
}
