package game

import (
	"maps"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/sketchparty/internal"
	"github.com/scythe504/sketchparty/internal/utils"
)

const MaxChatLength = 200

// =============================================================================
// GUESS HANDLING
// =============================================================================

// HandleChat treats a message as a guess when it matches the current word and
// the sender may still score; otherwise it is relayed as chat. A correct
// guess is never relayed verbatim.
func (d *Directory) HandleChat(roomID, connID, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return internal.ErrEmptyMessage
	}
	if utf8.RuneCountInString(message) > MaxChatLength {
		message = string([]rune(message)[:MaxChatLength])
	}

	room, player, err := d.lockMember(roomID, connID)
	if err != nil {
		return err
	}
	defer room.Mu.Unlock()

	matches := room.IsDrawingPhase() && room.Word != "" &&
		utils.NormalizeGuess(message) == utils.NormalizeGuess(room.Word)

	if matches && !room.IsDrawer(connID) {
		if player.HasGuessed {
			return internal.ErrAlreadyGuessed
		}
		d.recordGuess(room, player)
		return nil
	}

	d.broadcast(room, internal.Message[any]{
		Type: internal.ChatMessage,
		Data: internal.ChatLineData{
			PlayerID:  player.Id,
			Username:  player.Username,
			Message:   message,
			Timestamp: time.Now().UnixMilli(),
		},
	}, "")
	return nil
}

// recordGuess scores a correct guess and ends the round once every non-drawer
// has guessed. Caller holds room.Mu.
func (d *Directory) recordGuess(room *internal.Room, player *internal.Player) {
	points := room.GuessPoints()
	room.AwardPoints(player, points)
	player.HasGuessed = true

	log.Info().Str("room", room.Id).Str("player", player.Username).Int("points", points).
		Int("timeLeft", room.TimeLeft).Msg("[recordGuess] correct guess")

	d.broadcast(room, internal.Message[any]{
		Type: internal.CorrectGuess,
		Data: internal.CorrectGuessData{
			PlayerID: player.Id,
			Username: player.Username,
			Points:   points,
			Scores:   maps.Clone(room.Scores),
		},
	}, "")

	if room.HasEveryoneGuessed() {
		d.endRound(room, internal.ReasonAllGuessed)
	}
}
