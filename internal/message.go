package internal

import "encoding/json"

type Message[T any] struct {
	Type string `json:"type"`
	Data T      `json:"data"`
}

// Inbound intents
const (
	CreateRoom     = "create-room"
	JoinRoom       = "join-room"
	LeaveRoom      = "leave-room"
	UpdateRoom     = "update-room"
	RestartGame    = "restart-game"
	StartGame      = "start-game"
	ChatMessage    = "chat-message"
	DrawingEvent   = "drawing-event"
	ClearCanvas    = "clear-canvas"
	KickPlayer     = "kick-player"
	GetPublicRooms = "get-public-rooms"
)

// Outbound events
const (
	RoomCreated       = "room-created"
	RoomJoined        = "room-joined"
	PlayerJoined      = "player-joined"
	PlayerLeft        = "player-left"
	RoomUpdated       = "room-updated"
	GameRestarted     = "game-restarted"
	GameStarted       = "game-started"
	RoundStarted      = "round-started"
	TimerUpdate       = "timer-update"
	RoundEnded        = "round-ended"
	GameFinished      = "game-finished"
	CorrectGuess      = "correct-guess"
	CanvasCleared     = "canvas-cleared"
	Kicked            = "kicked"
	PublicRooms       = "public-rooms"
	ErrorEvent        = "error"
	ServerStatsUpdate = "server-stats"
)

type PlayerInfo struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type CreateRoomData struct {
	Settings RoomSettings `json:"settings"`
	Player   PlayerInfo   `json:"player"`
}

type JoinRoomData struct {
	RoomId   string     `json:"roomId"`
	Password string     `json:"password"`
	Player   PlayerInfo `json:"player"`
}

type RoomRefData struct {
	RoomId string `json:"roomId"`
}

type UpdateRoomData struct {
	RoomId   string         `json:"roomId"`
	Settings SettingsUpdate `json:"settings"`
}

type RestartGameData struct {
	RoomId   string          `json:"roomId"`
	Settings *SettingsUpdate `json:"settings,omitempty"`
}

type ChatMessageData struct {
	RoomId  string `json:"roomId"`
	Message string `json:"message"`
}

type DrawingEventData struct {
	RoomId string          `json:"roomId"`
	Event  json.RawMessage `json:"event"`
}

type KickPlayerData struct {
	RoomId   string `json:"roomId"`
	PlayerId string `json:"playerId"`
}

// Outbound payloads

type RoomCreatedData struct {
	RoomId   string       `json:"roomId"`
	PlayerId string       `json:"playerId"`
	Room     RoomSnapshot `json:"room"`
}

type RoomJoinedData struct {
	RoomId   string       `json:"roomId"`
	PlayerId string       `json:"playerId"`
	Room     RoomSnapshot `json:"room"`
}

type PlayerJoinedData struct {
	Player      PlayerSnapshot `json:"player"`
	PlayerCount int            `json:"playerCount"`
	CanStart    bool           `json:"canStart"`
	Room        RoomSnapshot   `json:"room"`
}

type PlayerLeftData struct {
	PlayerID    string       `json:"playerId"`
	Username    string       `json:"name"`
	PlayerCount int          `json:"playerCount"`
	NewHostID   string       `json:"newHostId,omitempty"`
	Kicked      bool         `json:"kicked,omitempty"`
	Room        RoomSnapshot `json:"room"`
}

type RoomStateData struct {
	Room RoomSnapshot `json:"room"`
}

type RoundStartedData struct {
	Room     RoomSnapshot   `json:"room"`
	Word     string         `json:"word"`
	Drawer   PlayerSnapshot `json:"drawer"`
	Round    int            `json:"round"`
	Rounds   int            `json:"rounds"`
	TimeLeft int            `json:"timeLeft"`
}

type TimerUpdateData struct {
	TimeLeft int       `json:"timeLeft"`
	Phase    GamePhase `json:"phase"`
}

type RoundEndReason string

const (
	ReasonTimeout    RoundEndReason = "timeout"
	ReasonAllGuessed RoundEndReason = "all-guessed"
	ReasonDrawerLeft RoundEndReason = "drawer-left"
	ReasonNoGuessers RoundEndReason = "no-guessers"
)

type RoundEndedData struct {
	Word   string         `json:"word"`
	Round  int            `json:"round"`
	Reason RoundEndReason `json:"reason"`
	Scores map[string]int `json:"scores"`
}

type GameFinishedData struct {
	FinalResults
	Room RoomSnapshot `json:"room"`
}

type CorrectGuessData struct {
	PlayerID string         `json:"playerId"`
	Username string         `json:"name"`
	Points   int            `json:"points"`
	Scores   map[string]int `json:"scores"`
}

type ChatLineData struct {
	PlayerID  string `json:"playerId"`
	Username  string `json:"name"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type DrawingRelayData struct {
	PlayerID string      `json:"playerId"`
	Event    CanvasEvent `json:"event"`
}

type CanvasClearedData struct {
	PlayerID string `json:"playerId"`
}

type KickedData struct {
	RoomId string `json:"roomId"`
	Reason string `json:"reason"`
}

type PublicRoomsData struct {
	Rooms []RoomSummary `json:"rooms"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
