package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/KayiuTommyLI/mjkit-backend/internal/hub"
	"github.com/KayiuTommyLI/mjkit-backend/internal/roster"
	"github.com/KayiuTommyLI/mjkit-backend/internal/session"
	"github.com/KayiuTommyLI/mjkit-backend/internal/types"
)

func Handler(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.URL.Query().Get("game")
		if gameID == "" {
			http.Error(w, "missing game", http.StatusBadRequest)
			return
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.EnsureSession{GameID: gameID, Reply: reply}
		sess := <-reply
		if sess == nil {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan session.Snapshot, 8)
		clientID := uuid.NewString()

		sess.Inbox() <- session.Join{ClientID: clientID, Outbox: out}
		defer func() { sess.Inbox() <- session.Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				msg := types.ServerMessage{
					Type:    "RosterSnapshot",
					Version: snap.Version,
					Players: snap.Roster.Players,
					Notice:  snap.Notice,
				}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (session.Leave in defer):
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"bad json"}`))
				continue
			}

			msg, ok := toSessionMsg(cm)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"unknown type"}`))
				continue
			}

			sess.Inbox() <- msg
		}
	}
}

func toSessionMsg(m types.ClientMessage) (session.Msg, bool) {
	switch m.Type {
	case "ToggleActive":
		return session.FromClient{Cmd: roster.Command{
			Type:     roster.CmdToggleActive,
			PlayerID: m.PlayerID,
		}}, true
	case "Reorder":
		return session.FromClient{Cmd: roster.Command{
			Type:      roster.CmdReorder,
			DraggedID: m.DraggedID,
			TargetID:  m.TargetID,
		}}, true
	case "AddPlayer":
		return session.CreatePlayer{Name: m.Name, Color: m.Color, Emoji: m.Emoji}, true
	case "Save":
		return session.SaveRoster{}, true
	case "Reload":
		return session.Reload{}, true
	default:
		return nil, false
	}
}
