package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KayiuTommyLI/mjkit-backend/internal/gameclient"
	"github.com/KayiuTommyLI/mjkit-backend/internal/hub"
	"github.com/KayiuTommyLI/mjkit-backend/internal/tokens"
	"github.com/KayiuTommyLI/mjkit-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, client *gameclient.Client, store tokens.Store) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h))

	r.Route("/games/{gameID}", func(r chi.Router) {
		r.Get("/roster", GetRoster(h))
		r.Get("/chart", GetChart(client))
		r.Put("/token", PutToken(store))
	})

	return r
}
