package game

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/scythe504/sketchparty/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinRoom_ConfirmsBeforeNotifyingOthers(t *testing.T) {
	h := newHarness(t)
	room := h.createRoom(internal.RoomSettings{}, "alice")

	h.send("bob", internal.JoinRoom, internal.JoinRoomData{RoomId: room.Id, Player: internal.PlayerInfo{Name: " Bob ", Avatar: "fox"}})

	joined := h.conn("bob").last(t, internal.RoomJoined).Data.(internal.RoomJoinedData)
	assert.Equal(t, room.Id, joined.RoomId)
	assert.Len(t, joined.Room.Players, 2)
	assert.Equal(t, 0, h.conn("bob").count(internal.PlayerJoined))

	notice := h.conn("alice").last(t, internal.PlayerJoined).Data.(internal.PlayerJoinedData)
	assert.Equal(t, "bob", notice.Player.ID)
	assert.Equal(t, "Bob", notice.Player.Username)
	assert.Equal(t, "fox", notice.Player.Avatar)
	assert.Equal(t, 2, notice.PlayerCount)
	assert.True(t, notice.CanStart)
	requireInvariants(t, room)
}

func TestJoinRoom_Idempotent(t *testing.T) {
	h := newHarness(t)
	room := h.createRoom(internal.RoomSettings{}, "alice", "bob")

	h.send("bob", internal.JoinRoom, internal.JoinRoomData{RoomId: room.Id})

	assert.Equal(t, 2, h.conn("bob").count(internal.RoomJoined))
	assert.Equal(t, 1, h.conn("alice").count(internal.PlayerJoined))
	assert.Len(t, playerIDs(room), 2)
	requireInvariants(t, room)
}

func TestJoinRoom_MigratesFromOtherRoom(t *testing.T) {
	h := newHarness(t)
	first := h.createRoom(internal.RoomSettings{}, "alice", "bob")
	second := h.createRoom(internal.RoomSettings{}, "carol")

	h.send("bob", internal.JoinRoom, internal.JoinRoomData{RoomId: second.Id})

	assert.Equal(t, second.Id, h.dir.SeatOf("bob"))
	assert.Equal(t, []string{"alice"}, playerIDs(first))
	assert.Equal(t, []string{"carol", "bob"}, playerIDs(second))
	assert.Equal(t, "bob", h.conn("alice").last(t, internal.PlayerLeft).Data.(internal.PlayerLeftData).PlayerID)
	requireInvariants(t, first)
	requireInvariants(t, second)
}

func TestJoinRoom_Rejections(t *testing.T) {
	h := newHarness(t)
	full := h.createRoom(internal.RoomSettings{MaxPlayers: 2}, "alice", "bob")
	private := h.createRoom(internal.RoomSettings{IsPrivate: true, Password: "hunter2"}, "carol")

	h.send("dave", internal.JoinRoom, internal.JoinRoomData{RoomId: full.Id})
	assert.Equal(t, internal.CodePrecondition, h.conn("dave").lastError(t).Code)
	assert.Equal(t, internal.ErrRoomFull.Error(), h.conn("dave").lastError(t).Message)

	h.send("dave", internal.JoinRoom, internal.JoinRoomData{RoomId: private.Id, Password: "nope"})
	assert.Equal(t, internal.ErrWrongPassword.Error(), h.conn("dave").lastError(t).Message)

	h.send("dave", internal.JoinRoom, internal.JoinRoomData{RoomId: "ZZZZZZ"})
	assert.Equal(t, internal.CodeNotFound, h.conn("dave").lastError(t).Code)

	assert.Empty(t, h.dir.SeatOf("dave"))

	h.send("dave", internal.JoinRoom, internal.JoinRoomData{RoomId: private.Id, Password: "hunter2"})
	assert.Equal(t, private.Id, h.dir.SeatOf("dave"))
}

func TestJoinRoom_FailedMigrationKeepsSeat(t *testing.T) {
	h := newHarness(t)
	home := h.createRoom(internal.RoomSettings{}, "alice", "bob")
	full := h.createRoom(internal.RoomSettings{MaxPlayers: 2}, "carol", "dave")

	h.send("bob", internal.JoinRoom, internal.JoinRoomData{RoomId: full.Id})

	assert.Equal(t, internal.CodePrecondition, h.conn("bob").lastError(t).Code)
	assert.Equal(t, home.Id, h.dir.SeatOf("bob"))
	assert.Equal(t, []string{"alice", "bob"}, playerIDs(home))
}

func TestJoinRoom_LateJoinerGetsDrawingReplay(t *testing.T) {
	h := newHarness(t, slowTimer)
	room := h.createRoom(internal.RoomSettings{}, "alice", "bob")
	h.startGame(room, "alice")

	strokes := []string{`{"x":1,"y":2}`, `{"x":3,"y":4}`}
	for _, s := range strokes {
		h.send("alice", internal.DrawingEvent, internal.DrawingEventData{RoomId: room.Id, Event: json.RawMessage(s)})
	}

	h.send("carol", internal.JoinRoom, internal.JoinRoomData{RoomId: room.Id})

	types := h.conn("carol").types()
	require.Equal(t, []string{internal.RoomJoined, internal.DrawingEvent, internal.DrawingEvent}, types)
	for i, m := range h.conn("carol").messages()[1:] {
		relay := m.Data.(internal.DrawingRelayData)
		assert.JSONEq(t, strokes[i], string(relay.Event))
		assert.Equal(t, "alice", relay.PlayerID)
	}
}

func TestLeaveRoom_WrongRoom(t *testing.T) {
	h := newHarness(t)
	room := h.createRoom(internal.RoomSettings{}, "alice", "bob")
	other := h.createRoom(internal.RoomSettings{}, "carol")

	h.send("bob", internal.LeaveRoom, internal.RoomRefData{RoomId: other.Id})

	assert.Equal(t, internal.CodeNotFound, h.conn("bob").lastError(t).Code)
	assert.Equal(t, room.Id, h.dir.SeatOf("bob"))
}

func TestKickPlayer(t *testing.T) {
	h := newHarness(t)
	room := h.createRoom(internal.RoomSettings{}, "alice", "bob", "carol")
	for _, c := range h.conns {
		c.reset()
	}

	h.send("alice", internal.KickPlayer, internal.KickPlayerData{RoomId: room.Id, PlayerId: "bob"})

	assert.Equal(t, []string{"alice", "carol"}, playerIDs(room))
	assert.Empty(t, h.dir.SeatOf("bob"))
	assert.Equal(t, []string{internal.Kicked}, h.conn("bob").types())
	assert.Equal(t, []string{internal.PlayerLeft}, h.conn("alice").types())
	assert.Equal(t, []string{internal.PlayerLeft}, h.conn("carol").types())

	left := h.conn("carol").last(t, internal.PlayerLeft).Data.(internal.PlayerLeftData)
	assert.Equal(t, "bob", left.PlayerID)
	assert.True(t, left.Kicked)
	requireInvariants(t, room)
}

func TestKickPlayer_Rejections(t *testing.T) {
	h := newHarness(t)
	room := h.createRoom(internal.RoomSettings{}, "alice", "bob")

	h.send("bob", internal.KickPlayer, internal.KickPlayerData{RoomId: room.Id, PlayerId: "alice"})
	assert.Equal(t, internal.CodeUnauthorized, h.conn("bob").lastError(t).Code)

	h.send("alice", internal.KickPlayer, internal.KickPlayerData{RoomId: room.Id, PlayerId: "zed"})
	assert.Equal(t, internal.CodeNotFound, h.conn("alice").lastError(t).Code)

	h.send("alice", internal.KickPlayer, internal.KickPlayerData{RoomId: room.Id, PlayerId: "alice"})
	assert.Equal(t, internal.CodePrecondition, h.conn("alice").lastError(t).Code)

	assert.Len(t, playerIDs(room), 2)
}

func TestUpdateRoom_PartialAndHostOnly(t *testing.T) {
	h := newHarness(t)
	room := h.createRoom(internal.RoomSettings{Name: "before", Rounds: 3}, "alice", "bob")

	raw := `{"type":"update-room","data":{"roomId":"` + room.Id + `","settings":{"name":"after","drawTime":5000,"difficulty":"bogus"}}}`
	h.router.HandleMessage(h.conn("alice"), []byte(raw))

	updated := h.conn("bob").last(t, internal.RoomUpdated).Data.(internal.RoomStateData)
	assert.Equal(t, "after", updated.Room.Settings.Name)
	assert.Equal(t, internal.MaxDrawTime, updated.Room.Settings.DrawTime)
	assert.Equal(t, 3, updated.Room.Settings.Rounds)
	assert.Equal(t, internal.DifficultyMixed, updated.Room.Settings.Difficulty)

	h.send("bob", internal.UpdateRoom, internal.UpdateRoomData{RoomId: room.Id})
	assert.Equal(t, internal.CodeUnauthorized, h.conn("bob").lastError(t).Code)
}

func TestDrawing_OnlyDrawerRelays(t *testing.T) {
	h := newHarness(t, slowTimer)
	room := h.createRoom(internal.RoomSettings{}, "alice", "bob", "carol")
	h.startGame(room, "alice")

	h.send("alice", internal.DrawingEvent, internal.DrawingEventData{RoomId: room.Id, Event: json.RawMessage(`{"line":[0,0,5,5]}`)})
	h.send("bob", internal.DrawingEvent, internal.DrawingEventData{RoomId: room.Id, Event: json.RawMessage(`{"line":[1,1]}`)})

	assert.Equal(t, 0, h.conn("alice").count(internal.DrawingEvent))
	assert.Equal(t, 1, h.conn("bob").count(internal.DrawingEvent))
	assert.Equal(t, 1, h.conn("carol").count(internal.DrawingEvent))
	assert.Equal(t, internal.CodeUnauthorized, h.conn("bob").lastError(t).Code)
	assert.Len(t, inspect(room, func(r *internal.Room) []internal.CanvasEvent { return r.DrawingData }), 1)

	oversized := json.RawMessage(`"` + strings.Repeat("a", internal.MaxCanvasEventSize) + `"`)
	h.send("alice", internal.DrawingEvent, internal.DrawingEventData{RoomId: room.Id, Event: oversized})
	assert.Equal(t, internal.CodeMalformed, h.conn("alice").lastError(t).Code)

	h.send("alice", internal.ClearCanvas, internal.RoomRefData{RoomId: room.Id})
	assert.Equal(t, 1, h.conn("carol").count(internal.CanvasCleared))
	assert.Equal(t, 0, h.conn("alice").count(internal.CanvasCleared))
	assert.Empty(t, inspect(room, func(r *internal.Room) []internal.CanvasEvent { return r.DrawingData }))

	h.send("carol", internal.ClearCanvas, internal.RoomRefData{RoomId: room.Id})
	assert.Equal(t, internal.CodeUnauthorized, h.conn("carol").lastError(t).Code)
}

func TestDrawing_RejectedOutsideRound(t *testing.T) {
	h := newHarness(t)
	room := h.createRoom(internal.RoomSettings{}, "alice", "bob")

	h.send("alice", internal.DrawingEvent, internal.DrawingEventData{RoomId: room.Id, Event: json.RawMessage(`{}`)})

	assert.Equal(t, internal.CodeUnauthorized, h.conn("alice").lastError(t).Code)
	assert.Equal(t, 0, h.conn("bob").count(internal.DrawingEvent))
}

func TestRouter_MalformedInput(t *testing.T) {
	h := newHarness(t)
	c := h.conn("alice")

	h.router.HandleMessage(c, []byte(`{not json`))
	assert.Equal(t, internal.CodeMalformed, c.lastError(t).Code)

	h.router.HandleMessage(c, []byte(`{"type":"fly-away","data":{}}`))
	assert.Equal(t, internal.CodeMalformed, c.lastError(t).Code)
	assert.Contains(t, c.lastError(t).Message, "fly-away")

	h.router.HandleMessage(c, []byte(`{"type":"join-room","data":"oops"}`))
	assert.Equal(t, internal.CodeMalformed, c.lastError(t).Code)

	h.router.HandleMessage(c, []byte(`{"type":"start-game"}`))
	assert.Equal(t, internal.CodeMalformed, c.lastError(t).Code)

	assert.Equal(t, 4, c.count(internal.ErrorEvent))
}

func TestRouter_GetPublicRoomsWithoutData(t *testing.T) {
	h := newHarness(t)
	h.createRoom(internal.RoomSettings{}, "alice")
	c := h.conn("zed")

	h.router.HandleMessage(c, []byte(`{"type":"get-public-rooms"}`))

	rooms := c.last(t, internal.PublicRooms).Data.(internal.PublicRoomsData).Rooms
	assert.Len(t, rooms, 1)
}

func TestHideWord_MasksForGuessers(t *testing.T) {
	h := newHarness(t, slowTimer, func(o *Options) { o.HideWord = true })
	room := h.createRoom(internal.RoomSettings{CustomWords: []string{"kite"}}, "alice", "bob")
	// no categories and an empty tier leave only the custom word
	inspect(room, func(r *internal.Room) bool { r.Settings.Difficulty = "none"; return true })
	h.startGame(room, "alice")

	drawer := h.conn("alice").last(t, internal.RoundStarted).Data.(internal.RoundStartedData)
	guesser := h.conn("bob").last(t, internal.RoundStarted).Data.(internal.RoundStartedData)

	assert.Equal(t, "kite", drawer.Word)
	assert.Equal(t, "kite", drawer.Room.CurrentWord)
	assert.Equal(t, "_ _ _ _", guesser.Word)
	assert.Equal(t, "_ _ _ _", guesser.Room.CurrentWord)
	assert.NotContains(t, guesser.Room.UsedWords, "kite")
	assert.Equal(t, []string{"kite"}, drawer.Room.UsedWords)
}
