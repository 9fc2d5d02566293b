package game

import (
	"github.com/rs/zerolog/log"
	"github.com/scythe504/sketchparty/internal"
)

// =============================================================================
// LOBBY MANAGEMENT
// =============================================================================

// StartGame moves a waiting or finished room into round 1. Scores from an
// earlier game are cleared.
func (d *Directory) StartGame(roomID, connID string) error {
	room, _, err := d.lockHost(roomID, connID)
	if err != nil {
		return err
	}
	defer room.Mu.Unlock()

	if room.State == internal.StatePlaying {
		return internal.ErrGameInProgress
	}
	if len(room.Players) < internal.MinPlayersToStart {
		return internal.ErrNotEnoughPlayers
	}

	d.cancelRoundTimer(room.Id)
	d.cancelNextRound(room.Id)
	room.ResetToLobby()
	room.Epoch++

	room.State = internal.StatePlaying
	room.CurrentRound = 1

	d.broadcastRoomState(room, internal.GameStarted)
	log.Info().Str("room", room.Id).Int("players", len(room.Players)).Int("rounds", room.Settings.Rounds).
		Msg("[StartGame] game started")

	d.startRound(room)
	return nil
}

// RestartGame returns the room to waiting from any state, keeping its players
// and applying optional settings overrides.
func (d *Directory) RestartGame(roomID, connID string, overrides *internal.SettingsUpdate) error {
	room, _, err := d.lockHost(roomID, connID)
	if err != nil {
		return err
	}
	defer room.Mu.Unlock()

	d.cancelRoundTimer(room.Id)
	d.cancelNextRound(room.Id)
	room.ResetToLobby()
	room.Epoch++
	if overrides != nil {
		room.ApplySettings(*overrides)
	}

	d.broadcastRoomState(room, internal.GameRestarted)
	log.Info().Str("room", room.Id).Msg("[RestartGame] room reset to lobby")
	return nil
}
