package game

import (
	"maps"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/sketchparty/internal"
)

// =============================================================================
// GAME FLOW
// =============================================================================

// startRound hands the turn to the next drawer, picks a word and arms the
// timer. A room that dropped below the minimum finishes instead. Caller holds
// room.Mu.
func (d *Directory) startRound(room *internal.Room) {
	if len(room.Players) < internal.MinPlayersToStart {
		log.Info().Str("room", room.Id).Int("players", len(room.Players)).
			Msg("[startRound] not enough players, finishing game")
		d.finishGame(room)
		return
	}

	drawer := room.NextDrawer()
	room.SetDrawer(drawer)

	s := room.Settings
	word := d.opts.Words.Select(s.CustomWords, s.Categories, s.Difficulty, room.UsedWords)
	room.Word = word
	room.UsedWords = append(room.UsedWords, word)
	room.DrawingData = nil
	room.Phase = internal.PhaseDrawing
	room.TimeLeft = s.DrawTime

	d.startRoundTimer(room)

	log.Info().Str("room", room.Id).Int("round", room.CurrentRound).Str("drawer", drawer.Username).
		Msg("[startRound] round started")

	d.broadcastFunc(room, func(to *internal.Player) internal.Message[any] {
		return internal.Message[any]{
			Type: internal.RoundStarted,
			Data: internal.RoundStartedData{
				Room:     d.snapshotFor(room, to.Id),
				Word:     d.wordFor(room, to.Id),
				Drawer:   internal.CreatePlayerSnapshot(drawer),
				Round:    room.CurrentRound,
				Rounds:   s.Rounds,
				TimeLeft: room.TimeLeft,
			},
		}
	}, "")
}

// endRound reveals the word, clears per-round flags and either finishes the
// game or schedules the next round. It is a no-op outside a drawing round, so
// racing triggers end a round once. Caller holds room.Mu.
func (d *Directory) endRound(room *internal.Room, reason internal.RoundEndReason) {
	if !room.IsDrawingPhase() {
		return
	}
	d.cancelRoundTimer(room.Id)

	word := room.Word
	round := room.CurrentRound

	room.Phase = internal.PhaseWaiting
	room.ClearRoundFlags()
	room.DrawingData = nil
	room.Word = ""
	room.TimeLeft = 0
	room.Epoch++

	d.broadcast(room, internal.Message[any]{
		Type: internal.RoundEnded,
		Data: internal.RoundEndedData{
			Word:   word,
			Round:  round,
			Reason: reason,
			Scores: maps.Clone(room.Scores),
		},
	}, "")

	log.Info().Str("room", room.Id).Int("round", round).Str("reason", string(reason)).
		Msg("[endRound] round ended")

	room.CurrentRound++
	if room.CurrentRound > room.Settings.Rounds {
		d.finishGame(room)
		return
	}
	d.scheduleNextRound(room)
}

// finishGame parks the room in the finished state with the final leaderboard.
// Caller holds room.Mu.
func (d *Directory) finishGame(room *internal.Room) {
	d.cancelRoundTimer(room.Id)
	d.cancelNextRound(room.Id)

	room.State = internal.StateFinished
	room.Phase = internal.PhaseWaiting
	room.ClearRoundFlags()
	room.Word = ""
	room.TimeLeft = 0
	room.DrawingData = nil
	room.Epoch++

	results := CalculateFinalResults(room)

	d.broadcastFunc(room, func(to *internal.Player) internal.Message[any] {
		return internal.Message[any]{
			Type: internal.GameFinished,
			Data: internal.GameFinishedData{FinalResults: results, Room: d.snapshotFor(room, to.Id)},
		}
	}, "")

	log.Info().Str("room", room.Id).Int("players", results.TotalPlayers).Msg("[finishGame] game finished")

	if d.opts.OnGameFinished != nil {
		go d.opts.OnGameFinished(results)
	}
}
