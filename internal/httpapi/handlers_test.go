package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KayiuTommyLI/mjkit-backend/internal/gameclient"
	"github.com/KayiuTommyLI/mjkit-backend/internal/hub"
	"github.com/KayiuTommyLI/mjkit-backend/internal/stats"
	"github.com/KayiuTommyLI/mjkit-backend/internal/tokens"
)

func testRouter(t *testing.T) (http.Handler, *tokens.MemStore) {
	t.Helper()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "missing") {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(gameclient.Game{
			ID: "g1",
			Players: []gameclient.GamePlayer{
				{ID: "p0", Name: "A", Order: 0, Active: true},
				{ID: "p1", Name: "B", Order: 1, Active: true},
				{ID: "p2", Name: "C", Order: 2, Active: true},
				{ID: "p3", Name: "D", Order: 3, Active: true},
			},
			Rounds: []gameclient.Round{
				{Seq: 1, WinnerID: "p0", LoserID: "p1", Score: 3,
					Deltas: map[string]float64{"p0": 6, "p1": -6}},
			},
		})
	}))
	t.Cleanup(backend.Close)

	client := gameclient.New(backend.URL)
	store := tokens.NewMemStore()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := hub.NewHub(ctx, client, store, nil)

	return SetupRoutes(h, client, store), store
}

func TestHealthz(t *testing.T) {
	router, _ := testRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGetRoster(t *testing.T) {
	router, _ := testRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/games/g1/roster", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		Version int `json:"version"`
		Players []struct {
			ID     string `json:"id"`
			Order  int    `json:"player_order"`
			Active bool   `json:"is_active"`
		} `json:"players"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.Len(t, payload.Players, 4)
	assert.Equal(t, "p0", payload.Players[0].ID)
	assert.True(t, payload.Players[0].Active)
}

func TestGetRosterUnknownGame(t *testing.T) {
	router, _ := testRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/games/missing/roster", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetChart(t *testing.T) {
	router, _ := testRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/games/g1/chart", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		Series  []stats.Series     `json:"series"`
		History []stats.HistoryRow `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.Len(t, payload.Series, 4)
	assert.Equal(t, []stats.Point{{Round: 0, Balance: 0}, {Round: 1, Balance: 6}}, payload.Series[0].Points)
	require.Len(t, payload.History, 1)
	assert.Equal(t, "A", payload.History[0].Winner)
}

func TestPutToken(t *testing.T) {
	router, store := testRouter(t)

	rr := httptest.NewRecorder()
	body := strings.NewReader(`{"token":"master-token"}`)
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/games/g1/token", body))
	require.Equal(t, http.StatusNoContent, rr.Code)

	token, ok, err := store.Token(context.Background(), "g1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "master-token", token)
}

func TestPutTokenRejectsEmpty(t *testing.T) {
	router, _ := testRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{name: "blank token", body: `{"token":"  "}`},
		{name: "bad json", body: `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, "/games/g1/token", strings.NewReader(tc.body)))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}
