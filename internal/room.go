package internal

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// NewRoom builds a room with host as its sole, host-flagged member.
func NewRoom(id string, settings RoomSettings, host *Player) *Room {
	host.IsHost = true
	host.Score = 0
	host.ResetRoundState()

	return &Room{
		Id:        id,
		Settings:  NormalizeSettings(settings),
		Players:   []*Player{host},
		Scores:    map[string]int{host.Id: 0},
		State:     StateWaiting,
		Phase:     PhaseWaiting,
		UsedWords: []string{},
	}
}

// NormalizeSettings fills defaults and clamps every field into its legal range.
func NormalizeSettings(s RoomSettings) RoomSettings {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		s.Name = "Untitled Room"
	}
	if s.MaxPlayers == 0 {
		s.MaxPlayers = DefaultMaxPlayers
	}
	if s.Rounds == 0 {
		s.Rounds = DefaultRounds
	}
	if s.DrawTime == 0 {
		s.DrawTime = DefaultDrawTime
	}
	s.MaxPlayers = clamp(s.MaxPlayers, MinMaxPlayers, MaxMaxPlayers)
	s.Rounds = clamp(s.Rounds, MinRounds, MaxRounds)
	s.DrawTime = clamp(s.DrawTime, MinDrawTime, MaxDrawTime)
	s.Password = strings.TrimSpace(s.Password)
	s.CustomWords = CleanWords(s.CustomWords)
	s.Categories = KnownCategories(s.Categories)
	if !s.Difficulty.Valid() {
		s.Difficulty = DifficultyMixed
	}
	return s
}

// ApplySettings merges the provided fields into the room's settings. Fields
// that fail validation are skipped; the rest still apply.
func (r *Room) ApplySettings(u SettingsUpdate) {
	s := &r.Settings
	if u.Name != nil {
		if name := strings.TrimSpace(*u.Name); name != "" {
			s.Name = name
		}
	}
	if u.MaxPlayers != nil {
		s.MaxPlayers = max(clamp(*u.MaxPlayers, MinMaxPlayers, MaxMaxPlayers), len(r.Players))
	}
	if u.IsPrivate != nil {
		s.IsPrivate = *u.IsPrivate
	}
	if u.Password != nil {
		s.Password = strings.TrimSpace(*u.Password)
	}
	if u.CustomWords != nil {
		s.CustomWords = CleanWords(*u.CustomWords)
	}
	if u.Rounds != nil {
		s.Rounds = clamp(*u.Rounds, MinRounds, MaxRounds)
	}
	if u.DrawTime != nil {
		s.DrawTime = clamp(*u.DrawTime, MinDrawTime, MaxDrawTime)
	}
	if u.Categories != nil {
		s.Categories = KnownCategories(*u.Categories)
	}
	if u.Difficulty != nil && u.Difficulty.Valid() {
		s.Difficulty = *u.Difficulty
	}
}

func (d WordDifficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyMixed:
		return true
	}
	return false
}

func (c WordCategory) Valid() bool {
	return slices.Contains(AllCategories, c)
}

var AllCategories = []WordCategory{
	CategoryAnimals, CategoryFood, CategoryObjects, CategoryNature,
	CategorySports, CategoryVehicles, CategoryJobs, CategoryPlaces,
}

// KnownCategories drops unknown and repeated categories.
func KnownCategories(in []WordCategory) []WordCategory {
	return lo.Uniq(lo.Filter(in, func(c WordCategory, _ int) bool {
		return c.Valid()
	}))
}

// CleanWords trims custom words and drops blanks and duplicates.
func CleanWords(in []string) []string {
	words := lo.FilterMap(in, func(w string, _ int) (string, bool) {
		w = strings.TrimSpace(w)
		return w, w != ""
	})
	return lo.Uniq(words)
}

func clamp(v, lower, upper int) int {
	return min(max(v, lower), upper)
}

func (r *Room) FindPlayer(id string) (*Player, int) {
	for i, p := range r.Players {
		if p.Id == id {
			return p, i
		}
	}
	return nil, -1
}

func (r *Room) HasPlayer(id string) bool {
	_, i := r.FindPlayer(id)
	return i >= 0
}

func (r *Room) Host() *Player {
	for _, p := range r.Players {
		if p.IsHost {
			return p
		}
	}
	return nil
}

func (r *Room) IsHost(id string) bool {
	p, _ := r.FindPlayer(id)
	return p != nil && p.IsHost
}

func (r *Room) IsDrawer(id string) bool {
	return r.Current != nil && r.Current.Id == id
}

func (r *Room) IsFull() bool {
	return len(r.Players) >= r.Settings.MaxPlayers
}

func (r *Room) IsEmpty() bool {
	return len(r.Players) == 0
}

func (r *Room) CanStartGame() bool {
	return len(r.Players) >= MinPlayersToStart && r.State != StatePlaying
}

func (r *Room) IsDrawingPhase() bool {
	return r.State == StatePlaying && r.Phase == PhaseDrawing
}

// AddPlayer appends p with a zeroed score. The first member of an empty room
// becomes host.
func (r *Room) AddPlayer(p *Player) {
	p.Score = 0
	p.IsHost = len(r.Players) == 0
	p.ResetRoundState()
	r.Players = append(r.Players, p)
	r.Scores[p.Id] = 0
}

// RemovePlayer deletes the player and its score in one step, handing the host
// flag to the new first member when needed. Returns nil if id is not a member.
func (r *Room) RemovePlayer(id string) *Player {
	p, idx := r.FindPlayer(id)
	if p == nil {
		return nil
	}

	r.Players = slices.Delete(r.Players, idx, idx+1)
	delete(r.Scores, id)

	if r.Current == p {
		r.Current = nil
		p.IsDrawing = false
	}
	if p.IsHost && len(r.Players) > 0 {
		r.Players[0].IsHost = true
	}
	p.IsHost = false
	return p
}

// AwardPoints is the only path that changes a score, so the score table and
// the player's own field cannot diverge.
func (r *Room) AwardPoints(p *Player, points int) {
	r.Scores[p.Id] += points
	p.Score = r.Scores[p.Id]
}

// GuessPoints is max(10, floor(timeLeft/2)).
func (r *Room) GuessPoints() int {
	return max(MinGuessPoints, r.TimeLeft/2)
}

// HasEveryoneGuessed reports whether every non-drawer has guessed. A room with
// no non-drawers counts as everyone having guessed.
func (r *Room) HasEveryoneGuessed() bool {
	for _, player := range r.Players {
		if player != r.Current && !player.HasGuessed {
			return false
		}
	}
	return true
}

// NextDrawer picks the player after the previous drawer. If the previous
// drawer has left, the player who slid into its slot is next.
func (r *Room) NextDrawer() *Player {
	n := len(r.Players)
	if n == 0 {
		return nil
	}
	if r.LastDrawerId == "" {
		return r.Players[0]
	}
	if _, idx := r.FindPlayer(r.LastDrawerId); idx >= 0 {
		return r.Players[(idx+1)%n]
	}
	return r.Players[r.LastDrawerIndex%n]
}

// SetDrawer marks p as the sole drawer and remembers its slot for rotation.
func (r *Room) SetDrawer(p *Player) {
	for _, player := range r.Players {
		player.ResetRoundState()
	}
	p.IsDrawing = true
	r.Current = p
	_, r.LastDrawerIndex = r.FindPlayer(p.Id)
	r.LastDrawerId = p.Id
}

// ClearRoundFlags clears drawing and guessed flags on every member.
func (r *Room) ClearRoundFlags() {
	for _, player := range r.Players {
		player.ResetRoundState()
	}
	r.Current = nil
}

func (r *Room) ResetScores() {
	for _, player := range r.Players {
		player.Score = 0
		r.Scores[player.Id] = 0
	}
}

// ResetToLobby returns the room to waiting, keeping its members.
func (r *Room) ResetToLobby() {
	r.State = StateWaiting
	r.Phase = PhaseWaiting
	r.CurrentRound = 0
	r.Word = ""
	r.TimeLeft = 0
	r.UsedWords = []string{}
	r.DrawingData = nil
	r.LastDrawerId = ""
	r.LastDrawerIndex = 0
	r.ClearRoundFlags()
	r.ResetScores()
}

func (r *Room) PlayerSnapshots() []PlayerSnapshot {
	return lo.Map(r.Players, func(p *Player, _ int) PlayerSnapshot {
		return CreatePlayerSnapshot(p)
	})
}

// Snapshot projects the room for the wire. When mask is set, the current word
// is replaced by its masked form.
func (r *Room) Snapshot(mask func(string) string) RoomSnapshot {
	snap := RoomSnapshot{
		Id:           r.Id,
		Settings:     r.Settings,
		Players:      r.PlayerSnapshots(),
		Scores:       make(map[string]int, len(r.Scores)),
		GameState:    r.State,
		GamePhase:    r.Phase,
		CurrentRound: r.CurrentRound,
		CurrentWord:  r.Word,
		TimeLeft:     r.TimeLeft,
		UsedWords:    slices.Clone(r.UsedWords),
	}
	snap.Settings.Password = ""
	snap.Settings.CustomWords = slices.Clone(r.Settings.CustomWords)
	snap.Settings.Categories = slices.Clone(r.Settings.Categories)
	for id, score := range r.Scores {
		snap.Scores[id] = score
	}
	if r.Current != nil {
		drawer := CreatePlayerSnapshot(r.Current)
		snap.CurrentDraw = &drawer
	}
	if mask != nil && r.Word != "" {
		snap.CurrentWord = mask(r.Word)
		// the running round's word is the last used one
		if n := len(snap.UsedWords); n > 0 && snap.UsedWords[n-1] == r.Word {
			snap.UsedWords = snap.UsedWords[:n-1]
		}
	}
	return snap
}

func (r *Room) Summary() RoomSummary {
	summary := RoomSummary{
		Id:           r.Id,
		Name:         r.Settings.Name,
		PlayerCount:  len(r.Players),
		MaxPlayers:   r.Settings.MaxPlayers,
		GameState:    r.State,
		GamePhase:    r.Phase,
		CurrentRound: r.CurrentRound,
		Rounds:       r.Settings.Rounds,
		Difficulty:   r.Settings.Difficulty,
		Categories:   slices.Clone(r.Settings.Categories),
		HasPassword:  r.Settings.Password != "",
	}
	if host := r.Host(); host != nil {
		summary.HostName = host.Username
	}
	return summary
}
