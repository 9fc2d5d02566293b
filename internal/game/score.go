package game

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
	"github.com/scythe504/sketchparty/internal"
)

// CalculateFinalResults compiles the leaderboard of a finished game. Players
// are ranked by score, ties share a position and keep join order. Caller holds
// room.Mu.
func CalculateFinalResults(room *internal.Room) internal.FinalResults {
	leaderboard := lo.Map(room.Players, func(p *internal.Player, _ int) internal.GameResultData {
		return internal.GameResultData{
			PlayerID: p.Id,
			Username: p.Username,
			Score:    room.Scores[p.Id],
		}
	})

	slices.SortStableFunc(leaderboard, func(a, b internal.GameResultData) int {
		return cmp.Compare(b.Score, a.Score)
	})
	for idx := range leaderboard {
		if idx > 0 && leaderboard[idx].Score == leaderboard[idx-1].Score {
			leaderboard[idx].Position = leaderboard[idx-1].Position
			continue
		}
		leaderboard[idx].Position = idx + 1
	}

	results := internal.FinalResults{
		RoomID:       room.Id,
		RoomName:     room.Settings.Name,
		Leaderboard:  leaderboard,
		RoundsPlayed: max(room.CurrentRound-1, 0),
		TotalPlayers: len(room.Players),
	}
	if len(leaderboard) > 0 {
		mvp := leaderboard[0]
		results.MVP = &mvp
	}
	return results
}
