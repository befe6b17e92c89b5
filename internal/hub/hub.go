package hub

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/KayiuTommyLI/mjkit-backend/internal/gameclient"
	"github.com/KayiuTommyLI/mjkit-backend/internal/session"
	"github.com/KayiuTommyLI/mjkit-backend/internal/tokens"
)

type HubMsg interface{ isHubMsg() }

type GetSession struct {
	GameID string
	Reply  chan *session.Session
}

// EnsureSession returns the running session for a game, fetching the game
// snapshot from the game service and starting one if needed. Reply receives
// nil when the game cannot be loaded.
type EnsureSession struct {
	GameID string
	Reply  chan *session.Session
}

type RemoveSession struct {
	GameID string
}

type ShutdownHub struct{}

func (GetSession) isHubMsg()    {}
func (EnsureSession) isHubMsg() {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	client   *gameclient.Client
	tokens   tokens.Store
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, client *gameclient.Client, store tokens.Store, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		client:   client,
		tokens:   store,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case GetSession:
				msg.Reply <- h.sessions[msg.GameID] // May be nil

			case EnsureSession:
				if s := h.sessions[msg.GameID]; s != nil {
					msg.Reply <- s
					break
				}
				msg.Reply <- h.startSession(msg.GameID)

			case RemoveSession:
				delete(h.sessions, msg.GameID)

			case ShutdownHub:
				for _, s := range h.sessions {
					s.Inbox() <- session.Shutdown{}
				}
				clear(h.sessions)
				h.cancel()
			}
		}
	}
}

func (h *Hub) startSession(gameID string) *session.Session {
	ctx, cancel := context.WithTimeout(h.ctx, 10*time.Second)
	defer cancel()

	game, err := h.client.Game(ctx, gameID)
	if err != nil {
		h.log.Warn("game load failed", zap.String("gameID", gameID), zap.Error(err))
		return nil
	}

	s := session.New(h.ctx, gameID, game, session.Deps{
		Client: h.client,
		Tokens: h.tokens,
		Log:    h.log,
	})
	h.sessions[gameID] = s
	h.log.Info("session started", zap.String("gameID", gameID))
	return s
}
