package types

import (
	"github.com/KayiuTommyLI/mjkit-backend/internal/roster"
	"github.com/KayiuTommyLI/mjkit-backend/internal/session"
)

type ClientMessage struct {
	Type      string `json:"type"`
	PlayerID  string `json:"player_id,omitempty"`
	DraggedID string `json:"dragged_id,omitempty"`
	TargetID  string `json:"target_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Color     string `json:"color,omitempty"`
	Emoji     string `json:"emoji,omitempty"`
}

type ServerMessage struct {
	Type    string          `json:"type"` // "RosterSnapshot" | "Error"
	Version int             `json:"version,omitempty"`
	Players []roster.Player `json:"players,omitempty"`
	Notice  *session.Notice `json:"notice,omitempty"`
	Error   string          `json:"error,omitempty"`
}
