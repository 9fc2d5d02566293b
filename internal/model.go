package internal

import (
	"sync"
)

const (
	DefaultMaxPlayers = 8
	DefaultRounds     = 3
	DefaultDrawTime   = 80
	MinPlayersToStart = 2

	MinRounds     = 1
	MaxRounds     = 20
	MinDrawTime   = 15
	MaxDrawTime   = 300
	MinMaxPlayers = 2
	MaxMaxPlayers = 20

	MinGuessPoints = 10
)

type GameState string

const (
	StateWaiting  GameState = "waiting"
	StatePlaying  GameState = "playing"
	StateFinished GameState = "finished"
)

type GamePhase string

const (
	PhaseWaiting GamePhase = "waiting"
	PhaseDrawing GamePhase = "drawing"
)

type WordDifficulty string

const (
	DifficultyEasy   WordDifficulty = "easy"
	DifficultyMedium WordDifficulty = "medium"
	DifficultyHard   WordDifficulty = "hard"
	DifficultyMixed  WordDifficulty = "mixed"
)

type WordCategory string

const (
	CategoryAnimals  WordCategory = "animals"
	CategoryFood     WordCategory = "food"
	CategoryObjects  WordCategory = "objects"
	CategoryNature   WordCategory = "nature"
	CategorySports   WordCategory = "sports"
	CategoryVehicles WordCategory = "vehicles"
	CategoryJobs     WordCategory = "jobs"
	CategoryPlaces   WordCategory = "places"
)

// RoomSettings is the host-controlled configuration of a room.
type RoomSettings struct {
	Name        string         `json:"name"`
	MaxPlayers  int            `json:"maxPlayers"`
	IsPrivate   bool           `json:"isPrivate"`
	Password    string         `json:"password,omitempty"`
	CustomWords []string       `json:"customWords"`
	Rounds      int            `json:"rounds"`
	DrawTime    int            `json:"drawTime"`
	Categories  []WordCategory `json:"categories"`
	Difficulty  WordDifficulty `json:"difficulty"`
}

// SettingsUpdate carries a partial settings change. Nil fields are left as is.
type SettingsUpdate struct {
	Name        *string         `json:"name,omitempty"`
	MaxPlayers  *int            `json:"maxPlayers,omitempty"`
	IsPrivate   *bool           `json:"isPrivate,omitempty"`
	Password    *string         `json:"password,omitempty"`
	CustomWords *[]string       `json:"customWords,omitempty"`
	Rounds      *int            `json:"rounds,omitempty"`
	DrawTime    *int            `json:"drawTime,omitempty"`
	Categories  *[]WordCategory `json:"categories,omitempty"`
	Difficulty  *WordDifficulty `json:"difficulty,omitempty"`
}

type Room struct {
	Id       string
	Settings RoomSettings

	// Membership, in join order. Order drives drawer rotation and host succession.
	Players []*Player
	Scores  map[string]int

	// Game State
	State        GameState
	Phase        GamePhase
	CurrentRound int
	Current      *Player
	Word         string
	TimeLeft     int
	UsedWords    []string

	// Drawing log for the current round, replayed to late joiners
	DrawingData []CanvasEvent

	// Rotation bookkeeping for the drawer that held the last turn
	LastDrawerId    string
	LastDrawerIndex int

	// Epoch is bumped on every round end, restart and teardown. Delayed
	// continuations compare it to detect that the room moved on.
	Epoch  uint64
	Closed bool

	// Concurrency control
	Mu sync.Mutex
}

// RoomSnapshot is the wire projection of a Room.
type RoomSnapshot struct {
	Id           string           `json:"id"`
	Settings     RoomSettings     `json:"settings"`
	Players      []PlayerSnapshot `json:"players"`
	Scores       map[string]int   `json:"scores"`
	GameState    GameState        `json:"gameState"`
	GamePhase    GamePhase        `json:"gamePhase"`
	CurrentRound int              `json:"currentRound"`
	CurrentDraw  *PlayerSnapshot  `json:"currentDrawer"`
	CurrentWord  string           `json:"currentWord,omitempty"`
	TimeLeft     int              `json:"timeLeft"`
	UsedWords    []string         `json:"usedWords"`
}

// RoomSummary is the public-lobby projection of a Room.
type RoomSummary struct {
	Id           string         `json:"id"`
	Name         string         `json:"name"`
	PlayerCount  int            `json:"playerCount"`
	MaxPlayers   int            `json:"maxPlayers"`
	GameState    GameState      `json:"gameState"`
	GamePhase    GamePhase      `json:"gamePhase"`
	CurrentRound int            `json:"currentRound"`
	Rounds       int            `json:"rounds"`
	Difficulty   WordDifficulty `json:"difficulty"`
	Categories   []WordCategory `json:"categories"`
	HostName     string         `json:"hostName"`
	HasPassword  bool           `json:"hasPassword"`
}

type GameResultData struct {
	PlayerID string `json:"playerId"`
	Username string `json:"name"`
	Score    int    `json:"score"`
	Position int    `json:"position"`
}

type FinalResults struct {
	RoomID       string           `json:"roomId"`
	RoomName     string           `json:"roomName"`
	Leaderboard  []GameResultData `json:"leaderboard"`
	MVP          *GameResultData  `json:"mvp,omitempty"`
	RoundsPlayed int              `json:"roundsPlayed"`
	TotalPlayers int              `json:"totalPlayers"`
}

// ServerStats is the periodic telemetry payload.
type ServerStats struct {
	Rooms       int `json:"rooms"`
	Players     int `json:"players"`
	ActiveGames int `json:"activeGames"`
}

// Response wraps every JSON body served over plain HTTP.
type Response struct {
	StatusCode    int   `json:"status_code"`
	RespStartTime int64 `json:"resp_time_start_ms"`
	RespEndTime   int64 `json:"resp_time_end_ms"`
	NetRespTime   int64 `json:"net_resp_time_ms"`
	Data          any   `json:"data"`
}

type HealthData struct {
	Status string `json:"status"`
	ServerStats
	Uptime string `json:"uptime"`
}
