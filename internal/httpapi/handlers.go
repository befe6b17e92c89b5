package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/KayiuTommyLI/mjkit-backend/internal/gameclient"
	"github.com/KayiuTommyLI/mjkit-backend/internal/hub"
	"github.com/KayiuTommyLI/mjkit-backend/internal/roster"
	"github.com/KayiuTommyLI/mjkit-backend/internal/session"
	"github.com/KayiuTommyLI/mjkit-backend/internal/stats"
	"github.com/KayiuTommyLI/mjkit-backend/internal/tokens"
)

type rosterResponse struct {
	Version int             `json:"version"`
	Players []roster.Player `json:"players"`
	Notice  *session.Notice `json:"notice,omitempty"`
}

// GetRoster replies with the session's current roster snapshot, starting a
// session (and loading the game) if none is running.
func GetRoster(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.EnsureSession{GameID: gameID, Reply: reply}
		sess := <-reply
		if sess == nil {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		viewReply := make(chan session.View, 1)
		sess.Inbox() <- session.GetState{Reply: viewReply}

		select {
		case view := <-viewReply:
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(rosterResponse{
				Version: view.Version,
				Players: view.Roster.Players,
				Notice:  view.Notice,
			})
		case <-time.After(5 * time.Second):
			http.Error(w, "session unavailable", http.StatusServiceUnavailable)
		}
	}
}

type chartResponse struct {
	Series  []stats.Series     `json:"series"`
	History []stats.HistoryRow `json:"history"`
}

// GetChart builds the balance trend series and the round history from a
// fresh game snapshot. Reads go straight to the game service; the chart does
// not need session state.
func GetChart(client *gameclient.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		game, err := client.Game(r.Context(), gameID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chartResponse{
			Series:  stats.BalanceSeries(game.Players, game.Rounds),
			History: stats.HistoryRows(game.Players, game.Rounds),
		})
	}
}

type putTokenRequest struct {
	Token string `json:"token"`
}

// PutToken stores the browser-held game master token so saves and player
// creation can authenticate. The token stays opaque here.
func PutToken(store tokens.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		var req putTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Token) == "" {
			http.Error(w, "missing token", http.StatusBadRequest)
			return
		}

		if err := store.SetToken(r.Context(), gameID, req.Token); err != nil {
			http.Error(w, "token store unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
