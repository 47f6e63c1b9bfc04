package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/season", handler.GetSeason)
	mux.HandleFunc("GET /v1/season/standings", handler.GetStandings)
	mux.HandleFunc("GET /v1/season/fixtures", handler.ListFixtures)
}

func registerParticipantRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("GET /v1/me/team", RequireParticipant(http.HandlerFunc(handler.GetMyTeam)))
	mux.Handle("POST /v1/me/team", RequireParticipant(http.HandlerFunc(handler.EnsureMyTeam)))
	mux.Handle("POST /v1/fixtures/{fixtureRef}/simulate", RequireParticipant(http.HandlerFunc(handler.SimulateFixture)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/season/bootstrap", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSeasonBootstrapJob)))
	mux.Handle("POST /v1/internal/gameweeks/simulate", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunGameweekSimulationJob)))
	mux.Handle("POST /v1/internal/season/advance", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSeasonAdvanceJob)))
}
