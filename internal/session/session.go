package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/KayiuTommyLI/mjkit-backend/internal/gameclient"
	"github.com/KayiuTommyLI/mjkit-backend/internal/roster"
	"github.com/KayiuTommyLI/mjkit-backend/internal/tokens"
)

// DefaultNoticeTTL is how long a notice stays on snapshots before the
// session clears it.
const DefaultNoticeTTL = 5 * time.Second

type Msg interface{ isSessionMsg() }

// FromClient carries a roster command from a connected client.
type FromClient struct {
	Cmd roster.Command
}

func (FromClient) isSessionMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isSessionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

// SaveRoster persists the whole roster's {id, order, active} tuples to the
// game service. Fire and forget: failures become a notice, never a retry.
type SaveRoster struct{}

func (SaveRoster) isSessionMsg() {}

// CreatePlayer asks the game service for a new player, then reloads the
// authoritative snapshot.
type CreatePlayer struct {
	Name  string
	Color string
	Emoji string
}

func (CreatePlayer) isSessionMsg() {}

// Reload replaces local state with a fresh snapshot from the game service.
type Reload struct{}

func (Reload) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isSessionMsg() {}

// noticeExpired is the auto-dismiss tick. Gen guards against a stale timer
// clearing a newer notice.
type noticeExpired struct{ gen int }

func (noticeExpired) isSessionMsg() {}

type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a transient human-readable message: auto-balance promotions and
// demotions, validation failures, save results.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

type Snapshot struct {
	Version int
	Roster  roster.Roster
	Notice  *Notice
}

type View struct {
	Version    int
	NumClients int
	Roster     roster.Roster
	Notice     *Notice
}

// Deps are the external collaborators a session needs.
type Deps struct {
	Client    *gameclient.Client
	Tokens    tokens.Store
	Log       *zap.Logger
	NoticeTTL time.Duration // zero means DefaultNoticeTTL
}

// Session owns one game's roster state. All mutation flows through the
// inbox and is applied by a single goroutine, so the balancer never sees
// concurrent edits.
type Session struct {
	inbox     chan Msg
	gameID    string
	state     roster.Roster
	version   int
	clients   map[string]chan Snapshot
	notice    *Notice
	noticeGen int
	deps      Deps
	ctx       context.Context
	cancel    context.CancelFunc
}

// New starts a session from a freshly fetched game snapshot. An unbalanced
// snapshot is corrected immediately and the correction shows up as the
// initial notice.
func New(parent context.Context, gameID string, game *gameclient.Game, deps Deps) *Session {
	ctx, cancel := context.WithCancel(parent)
	if deps.NoticeTTL <= 0 {
		deps.NoticeTTL = DefaultNoticeTTL
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	s := &Session{
		inbox:   make(chan Msg, 64),
		gameID:  gameID,
		clients: make(map[string]chan Snapshot),
		deps:    deps,
		ctx:     ctx,
		cancel:  cancel,
	}
	s.installSnapshot(game)

	go s.loop()
	return s
}

// Inbox exposes the message channel to the transport layer and tests.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

func (s *Session) GameID() string { return s.gameID }

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- s.snapshot()

			case Leave:
				delete(s.clients, msg.ClientID)

			case FromClient:
				s.handleCommand(msg.Cmd)

			case SaveRoster:
				s.handleSave()

			case CreatePlayer:
				s.handleCreatePlayer(msg)

			case Reload:
				s.handleReload()

			case GetState:
				msg.Reply <- View{
					Version:    s.version,
					NumClients: len(s.clients),
					Roster:     s.state,
					Notice:     s.notice,
				}

			case noticeExpired:
				if msg.gen != s.noticeGen || s.notice == nil {
					break // superseded; a newer notice owns the timer now
				}
				s.notice = nil
				s.version++
				s.broadcast()

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) handleCommand(cmd roster.Command) {
	events, next, err := roster.Apply(s.state, cmd)
	if err != nil {
		// Validation failures are user-facing notices, not faults.
		s.setNotice(NoticeError, err.Error())
		s.version++
		s.broadcast()
		return
	}
	s.state = next
	s.applyEvents(events)
	s.version++
	s.broadcast()
}

func (s *Session) handleSave() {
	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()

	token, ok, err := s.deps.Tokens.Token(ctx, s.gameID)
	if err != nil {
		s.deps.Log.Warn("token lookup failed", zap.String("gameID", s.gameID), zap.Error(err))
		s.setNotice(NoticeError, "could not read game master token")
	} else if !ok || token == "" {
		s.setNotice(NoticeError, "master privileges required")
	} else if err := s.deps.Client.UpdatePlayerOrder(ctx, s.gameID, token, s.playerStates()); err != nil {
		s.deps.Log.Warn("save failed", zap.String("gameID", s.gameID), zap.Error(err))
		s.setNotice(NoticeError, err.Error())
	} else {
		s.setNotice(NoticeInfo, "player order saved")
	}

	s.version++
	s.broadcast()
}

func (s *Session) handleCreatePlayer(msg CreatePlayer) {
	if err := roster.ValidateAdd(s.state, msg.Name); err != nil {
		s.setNotice(NoticeError, err.Error())
		s.version++
		s.broadcast()
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()

	token, ok, err := s.deps.Tokens.Token(ctx, s.gameID)
	if err != nil || !ok || token == "" {
		s.setNotice(NoticeError, "master privileges required")
		s.version++
		s.broadcast()
		return
	}

	created, err := s.deps.Client.AddPlayer(ctx, s.gameID, token, gameclient.NewPlayer{
		Name:   strings.TrimSpace(msg.Name),
		Color:  msg.Color,
		Emoji:  msg.Emoji,
		Active: false,
		Order:  len(s.state.Players),
	})
	if err != nil {
		s.deps.Log.Warn("add player failed", zap.String("gameID", s.gameID), zap.Error(err))
		s.setNotice(NoticeError, err.Error())
		s.version++
		s.broadcast()
		return
	}
	s.deps.Log.Info("player created",
		zap.String("gameID", s.gameID),
		zap.String("playerID", created.ID),
	)

	// The backend owns the roster; reload instead of trusting our copy.
	s.handleReload()
}

func (s *Session) handleReload() {
	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()

	game, err := s.deps.Client.Game(ctx, s.gameID)
	if err != nil {
		s.deps.Log.Warn("reload failed", zap.String("gameID", s.gameID), zap.Error(err))
		s.setNotice(NoticeError, err.Error())
		s.version++
		s.broadcast()
		return
	}

	s.installSnapshot(game)
	s.version++
	s.broadcast()
}

// installSnapshot replaces the roster with the backend snapshot, balancing
// it if it arrives with more or fewer than four seated players.
func (s *Session) installSnapshot(game *gameclient.Game) {
	players := make([]roster.Player, 0, len(game.Players))
	for _, p := range game.Players {
		players = append(players, roster.Player{
			ID:      p.ID,
			Order:   p.Order,
			Active:  p.Active,
			Name:    p.Name,
			Color:   p.Color,
			Emoji:   p.Emoji,
			Balance: p.Balance,
		})
	}

	events, next, err := roster.Apply(roster.Roster{}, roster.Command{
		Type:    roster.CmdLoadSnapshot,
		Players: players,
	})
	if err != nil {
		// LoadSnapshot has no failure mode today; guard anyway.
		s.deps.Log.Error("snapshot install failed", zap.String("gameID", s.gameID), zap.Error(err))
		return
	}
	s.state = next
	s.applyEvents(events)
}

// applyEvents turns balancer events into the current notice.
func (s *Session) applyEvents(events []roster.Event) {
	for _, ev := range events {
		switch ev.Type {
		case roster.EvtPlayersPromoted:
			s.setNotice(NoticeInfo, fmt.Sprintf("activated %d player(s): %s",
				len(ev.Names), strings.Join(ev.Names, ", ")))
		case roster.EvtPlayersDemoted:
			s.setNotice(NoticeInfo, fmt.Sprintf("deactivated %d player(s): %s",
				len(ev.Names), strings.Join(ev.Names, ", ")))
		}
	}
}

// setNotice replaces the current notice and arms its auto-dismiss. The
// generation counter makes a superseded timer's fire a no-op.
func (s *Session) setNotice(level NoticeLevel, message string) {
	s.notice = &Notice{Level: level, Message: message}
	s.noticeGen++
	gen := s.noticeGen
	time.AfterFunc(s.deps.NoticeTTL, func() {
		select {
		case s.inbox <- noticeExpired{gen: gen}:
		case <-s.ctx.Done():
		}
	})
}

func (s *Session) playerStates() []gameclient.PlayerState {
	states := make([]gameclient.PlayerState, 0, len(s.state.Players))
	for _, p := range s.state.Players {
		states = append(states, gameclient.PlayerState{
			ID:     p.ID,
			Order:  p.Order,
			Active: p.Active,
		})
	}
	return states
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{Version: s.version, Roster: s.state, Notice: s.notice}
}

func (s *Session) broadcast() {
	snap := s.snapshot()
	for id, ch := range s.clients {
		select {
		case ch <- snap:
			// ok
		default:
			// Client is slow/full - drop them.
			s.deps.Log.Warn("dropping slow client",
				zap.String("gameID", s.gameID),
				zap.String("clientID", id),
			)
			close(ch)
			delete(s.clients, id)
		}
	}
}

func (s *Session) shutdown() {
	for id, ch := range s.clients {
		close(ch) // Tell client no more snapshots
		delete(s.clients, id)
	}
	s.cancel()
}
