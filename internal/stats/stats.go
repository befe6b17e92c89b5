// Package stats holds the small presentation transforms this layer owns:
// the running balance series behind the trend chart and the history table
// rows. All money math happens in the game service; these are pure folds
// over deltas it already computed.
package stats

import (
	"slices"

	"github.com/KayiuTommyLI/mjkit-backend/internal/gameclient"
)

type Point struct {
	Round   int     `json:"round"`
	Balance float64 `json:"balance"`
}

type Series struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Color      string  `json:"player_color,omitempty"`
	Points     []Point `json:"points"`
}

// BalanceSeries accumulates each player's running balance after every round.
// Round 0 is the zero baseline so every line starts at the origin. Series
// come out in roster order.
func BalanceSeries(players []gameclient.GamePlayer, rounds []gameclient.Round) []Series {
	ordered := slices.Clone(players)
	slices.SortStableFunc(ordered, func(a, b gameclient.GamePlayer) int {
		return a.Order - b.Order
	})
	bySeq := slices.Clone(rounds)
	slices.SortStableFunc(bySeq, func(a, b gameclient.Round) int {
		return a.Seq - b.Seq
	})

	series := make([]Series, 0, len(ordered))
	for _, p := range ordered {
		points := make([]Point, 0, len(bySeq)+1)
		points = append(points, Point{Round: 0, Balance: 0})

		running := 0.0
		for i, r := range bySeq {
			running += r.Deltas[p.ID]
			points = append(points, Point{Round: i + 1, Balance: running})
		}

		series = append(series, Series{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Color:      p.Color,
			Points:     points,
		})
	}
	return series
}

type HistoryRow struct {
	Seq    int    `json:"round_seq"`
	Winner string `json:"winner"`
	Loser  string `json:"loser,omitempty"`
	Score  int    `json:"score"`
}

// HistoryRows resolves round records to display names, newest first.
func HistoryRows(players []gameclient.GamePlayer, rounds []gameclient.Round) []HistoryRow {
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}

	ordered := slices.Clone(rounds)
	slices.SortStableFunc(ordered, func(a, b gameclient.Round) int {
		return b.Seq - a.Seq
	})

	rows := make([]HistoryRow, 0, len(ordered))
	for _, r := range ordered {
		rows = append(rows, HistoryRow{
			Seq:    r.Seq,
			Winner: names[r.WinnerID],
			Loser:  names[r.LoserID],
			Score:  r.Score,
		})
	}
	return rows
}
