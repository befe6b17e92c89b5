package roster

import "slices"

func clone(r Roster) Roster {
	return Roster{Players: slices.Clone(r.Players)}
}

func indexOf(r Roster, id string) int {
	return slices.IndexFunc(r.Players, func(p Player) bool { return p.ID == id })
}

func activeCount(r Roster) int {
	n := 0
	for _, p := range r.Players {
		if p.Active {
			n++
		}
	}
	return n
}

// ActiveCount reports how many players are currently seated.
func ActiveCount(r Roster) int { return activeCount(r) }

// firstInactiveIndex is the lowest-positioned benched player, -1 if none.
func firstInactiveIndex(r Roster) int {
	return slices.IndexFunc(r.Players, func(p Player) bool { return !p.Active })
}

// lastActiveIndex is the highest-positioned seated player, -1 if none.
func lastActiveIndex(r Roster) int {
	for i := len(r.Players) - 1; i >= 0; i-- {
		if r.Players[i].Active {
			return i
		}
	}
	return -1
}

// renumber reassigns Order as the dense 0-based slice index.
func renumber(r *Roster) {
	for i := range r.Players {
		r.Players[i].Order = i
	}
}

// ActiveIDs returns the ids of seated players in sequence order.
func ActiveIDs(r Roster) []string {
	var ids []string
	for _, p := range r.Players {
		if p.Active {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
