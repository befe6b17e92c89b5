package gameclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/games/g1", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "reads need no token")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Game{
			ID:   "g1",
			Name: "Friday night",
			Players: []GamePlayer{
				{ID: "p1", Order: 0, Active: true, Name: "A", Balance: 12.5},
			},
			Rounds: []Round{
				{ID: "r1", Seq: 1, WinnerID: "p1", Score: 8, Deltas: map[string]float64{"p1": 12.5}},
			},
		})
	}))
	defer srv.Close()

	game, err := New(srv.URL).Game(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "Friday night", game.Name)
	require.Len(t, game.Players, 1)
	assert.Equal(t, 12.5, game.Players[0].Balance)
	require.Len(t, game.Rounds, 1)
	assert.Equal(t, "p1", game.Rounds[0].WinnerID)
}

func TestUpdatePlayerOrderSendsBearerToken(t *testing.T) {
	var gotAuth string
	var gotBody struct {
		Players []PlayerState `json:"players"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/games/g1/players/order", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := New(srv.URL).UpdatePlayerOrder(context.Background(), "g1", "tok123", []PlayerState{
		{ID: "p1", Order: 0, Active: true},
		{ID: "p2", Order: 1, Active: false},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", gotAuth)
	require.Len(t, gotBody.Players, 2)
	assert.False(t, gotBody.Players[1].Active)
}

func TestAddPlayerReturnsCreated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games/g1/players", r.URL.Path)
		var p NewPlayer
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.False(t, p.Active, "created players start benched")

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(GamePlayer{ID: "p9", Order: p.Order, Name: p.Name})
	}))
	defer srv.Close()

	created, err := New(srv.URL).AddPlayer(context.Background(), "g1", "tok123", NewPlayer{
		Name: "Mei", Order: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "p9", created.ID)
	assert.Equal(t, "Mei", created.Name)
}

func TestErrorSurfacesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "master privileges required", http.StatusForbidden)
	}))
	defer srv.Close()

	err := New(srv.URL).UpdatePlayerOrder(context.Background(), "g1", "bad", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
	assert.Contains(t, err.Error(), "master privileges required")
}
