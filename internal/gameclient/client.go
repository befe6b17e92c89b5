package gameclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a typed HTTP client for the external game service, which owns
// persistence, the score-to-money formula and token validation. This layer
// only moves JSON and surfaces failures as error strings.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Game is the authoritative snapshot for one game.
type Game struct {
	ID      string       `json:"id"`
	Name    string       `json:"game_name"`
	Players []GamePlayer `json:"players"`
	Rounds  []Round      `json:"rounds"`
}

type GamePlayer struct {
	ID      string  `json:"id"`
	Order   int     `json:"player_order"`
	Active  bool    `json:"is_active"`
	Name    string  `json:"player_name"`
	Color   string  `json:"player_color,omitempty"`
	Emoji   string  `json:"player_emoji,omitempty"`
	Balance float64 `json:"balance"`
}

// Round is one recorded hand. Deltas maps player id to the money change the
// backend computed for that hand.
type Round struct {
	ID       string             `json:"id"`
	Seq      int                `json:"round_seq"`
	WinnerID string             `json:"winner_id"`
	LoserID  string             `json:"loser_id,omitempty"`
	Score    int                `json:"score"`
	Deltas   map[string]float64 `json:"deltas"`
}

// PlayerState is one tuple of the bulk order update.
type PlayerState struct {
	ID     string `json:"id"`
	Order  int    `json:"player_order"`
	Active bool   `json:"is_active"`
}

type NewPlayer struct {
	Name   string `json:"player_name"`
	Color  string `json:"player_color,omitempty"`
	Emoji  string `json:"player_emoji,omitempty"`
	Active bool   `json:"is_active"`
	Order  int    `json:"player_order"`
}

// Game fetches the game snapshot by id. Reading needs no token.
func (c *Client) Game(ctx context.Context, gameID string) (*Game, error) {
	var game Game
	if err := c.do(ctx, http.MethodGet, "/games/"+gameID, "", nil, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// UpdatePlayerOrder persists the whole roster's {id, order, active} tuples
// in one call. Requires the game master token.
func (c *Client) UpdatePlayerOrder(ctx context.Context, gameID, token string, players []PlayerState) error {
	body := struct {
		Players []PlayerState `json:"players"`
	}{Players: players}
	return c.do(ctx, http.MethodPut, "/games/"+gameID+"/players/order", token, body, nil)
}

// AddPlayer asks the game service to create a player and returns the created
// record. Callers should reload the full snapshot rather than trust a local
// optimistic copy.
func (c *Client) AddPlayer(ctx context.Context, gameID, token string, p NewPlayer) (*GamePlayer, error) {
	var created GamePlayer
	if err := c.do(ctx, http.MethodPost, "/games/"+gameID+"/players", token, p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("game service: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
