package roster

import (
	"errors"
	"slices"
	"strings"
)

var ErrUnknownPlayer = errors.New("unknown player")
var ErrNoSubstitute = errors.New("cannot deactivate: no substitute available")
var ErrEmptyName = errors.New("player name must not be empty")
var ErrRosterFull = errors.New("roster is full")
var ErrUnsupportedCommand = errors.New("unsupported command")

// ActiveSeats is the number of seated players a mahjong table needs.
const ActiveSeats = 4

// MaxPlayers is the hard cap on roster size, active or not.
const MaxPlayers = 10

// Player is one roster entry. Order is the dense zero-based position in the
// full sequence; for active players it doubles as the seating position.
// Name, Color, Emoji and Balance are display attributes the balancer never
// touches.
type Player struct {
	ID      string  `json:"id"`
	Order   int     `json:"player_order"`
	Active  bool    `json:"is_active"`
	Name    string  `json:"player_name"`
	Color   string  `json:"player_color,omitempty"`
	Emoji   string  `json:"player_emoji,omitempty"`
	Balance float64 `json:"balance"`
}

// Roster is the full ordered player list for one game. Slice position is the
// source of truth for sequence; Order fields are kept dense and equal to the
// index after every successful mutation.
type Roster struct {
	Players []Player
}

type CommandType string

const (
	CmdToggleActive CommandType = "ToggleActive"
	CmdReorder      CommandType = "Reorder"
	CmdAutoBalance  CommandType = "AutoBalance"
	CmdAddPlayer    CommandType = "AddPlayer"
	CmdLoadSnapshot CommandType = "LoadSnapshot"
)

type Command struct {
	Type      CommandType
	PlayerID  string
	DraggedID string
	TargetID  string
	Name      string
	Color     string
	Emoji     string
	Players   []Player // LoadSnapshot only
}

type EventType string

const (
	EvtPlayersPromoted EventType = "PlayersPromoted"
	EvtPlayersDemoted  EventType = "PlayersDemoted"
	EvtRosterChanged   EventType = "RosterChanged"
)

// Event is a side effect of a successful command. Promotion/demotion events
// carry the affected player names for user-facing notification; display and
// dismissal timing belong to the consumer.
type Event struct {
	Type  EventType
	Names []string
}

// Apply runs one command against the roster and returns the emitted events
// and the new roster. On error the returned roster is the input, unchanged.
func Apply(r Roster, cmd Command) ([]Event, Roster, error) {
	switch cmd.Type {
	case CmdToggleActive:
		return applyToggle(r, cmd.PlayerID)

	case CmdReorder:
		return applyReorder(r, cmd.DraggedID, cmd.TargetID)

	case CmdAutoBalance:
		next := clone(r)
		events := rebalance(&next)
		if len(events) == 0 {
			return nil, r, nil
		}
		renumber(&next)
		return events, next, nil

	case CmdAddPlayer:
		return applyAdd(r, cmd)

	case CmdLoadSnapshot:
		next := Roster{Players: slices.Clone(cmd.Players)}
		slices.SortStableFunc(next.Players, func(a, b Player) int {
			return a.Order - b.Order
		})
		renumber(&next)
		events := rebalance(&next)
		return events, next, nil

	default:
		return nil, r, ErrUnsupportedCommand
	}
}

func applyToggle(r Roster, id string) ([]Event, Roster, error) {
	i := indexOf(r, id)
	if i < 0 {
		return nil, r, ErrUnknownPlayer
	}

	next := clone(r)
	active := activeCount(next)

	if !next.Players[i].Active {
		// Activating: make room by benching the last-seated player first.
		if active >= ActiveSeats {
			if j := lastActiveIndex(next); j >= 0 {
				next.Players[j].Active = false
			}
		}
		next.Players[i].Active = true
	} else {
		if active > ActiveSeats {
			// Transient over-full state: plain deactivation is enough.
			next.Players[i].Active = false
		} else {
			// Exactly four seated: a substitute must take the seat.
			j := firstInactiveIndex(next)
			if j < 0 {
				return nil, r, ErrNoSubstitute
			}
			next.Players[j].Active = true
			next.Players[i].Active = false
		}
	}

	renumber(&next)
	return []Event{{Type: EvtRosterChanged}}, next, nil
}

func applyReorder(r Roster, draggedID, targetID string) ([]Event, Roster, error) {
	if draggedID == targetID {
		return nil, r, nil
	}
	from := indexOf(r, draggedID)
	if from < 0 {
		return nil, r, ErrUnknownPlayer
	}
	to := indexOf(r, targetID)
	if to < 0 {
		return nil, r, nil
	}

	next := clone(r)
	moved := next.Players[from]
	// Crossing the active/inactive boundary by drag reassigns membership.
	moved.Active = next.Players[to].Active
	next.Players = slices.Delete(next.Players, from, from+1)
	next.Players = slices.Insert(next.Players, to, moved)
	renumber(&next)

	// A boundary-crossing drag can leave the table over- or under-seated;
	// fix it in the same step so callers never observe the violation.
	events := []Event{{Type: EvtRosterChanged}}
	events = append(events, rebalance(&next)...)
	return events, next, nil
}

func applyAdd(r Roster, cmd Command) ([]Event, Roster, error) {
	name := strings.TrimSpace(cmd.Name)
	if err := ValidateAdd(r, name); err != nil {
		return nil, r, err
	}

	next := clone(r)
	next.Players = append(next.Players, Player{
		ID:     cmd.PlayerID,
		Order:  len(next.Players),
		Active: false,
		Name:   name,
		Color:  cmd.Color,
		Emoji:  cmd.Emoji,
	})
	// An inactive append can never disturb the four seats, so no rebalance.
	return []Event{{Type: EvtRosterChanged}}, next, nil
}

// ValidateAdd checks the addPlayer preconditions without mutating anything.
// Used both by Apply and by callers that delegate the actual creation to the
// game service before reloading the roster.
func ValidateAdd(r Roster, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if len(r.Players) >= MaxPlayers {
		return ErrRosterFull
	}
	return nil
}

// rebalance flips active flags until exactly ActiveSeats players are seated:
// lowest-positioned benched players are promoted, highest-positioned seated
// players are demoted. Positions themselves are untouched.
func rebalance(r *Roster) []Event {
	active := activeCount(*r)
	if active == ActiveSeats {
		return nil
	}

	var events []Event
	if active < ActiveSeats {
		var names []string
		for i := 0; i < len(r.Players) && active < ActiveSeats; i++ {
			if !r.Players[i].Active {
				r.Players[i].Active = true
				names = append(names, r.Players[i].Name)
				active++
			}
		}
		if len(names) > 0 {
			events = append(events, Event{Type: EvtPlayersPromoted, Names: names})
		}
	} else {
		var names []string
		for i := len(r.Players) - 1; i >= 0 && active > ActiveSeats; i-- {
			if r.Players[i].Active {
				r.Players[i].Active = false
				names = append(names, r.Players[i].Name)
				active--
			}
		}
		events = append(events, Event{Type: EvtPlayersDemoted, Names: names})
	}
	return events
}
