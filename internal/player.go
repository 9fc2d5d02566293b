package internal

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength = 20
	DefaultName   = "Player"
)

type Player struct {
	Id         string `json:"id"`
	Username   string `json:"name"`
	Avatar     string `json:"avatar"`
	Score      int    `json:"score"`
	IsHost     bool   `json:"isHost"`
	IsDrawing  bool   `json:"isDrawing"`
	HasGuessed bool   `json:"hasGuessed"`
}

type PlayerSnapshot struct {
	ID         string `json:"id"`
	Username   string `json:"name"`
	Avatar     string `json:"avatar"`
	Score      int    `json:"score"`
	IsHost     bool   `json:"isHost"`
	IsDrawing  bool   `json:"isDrawing"`
	HasGuessed bool   `json:"hasGuessed"`
}

// NewPlayer builds a fresh, unseated player for the given connection id.
func NewPlayer(id, name, avatar string) *Player {
	return &Player{
		Id:       id,
		Username: CleanName(name),
		Avatar:   strings.TrimSpace(avatar),
	}
}

// CleanName trims a display name and caps its length.
func CleanName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	return name
}

func (p *Player) ResetRoundState() {
	p.IsDrawing = false
	p.HasGuessed = false
}

func CreatePlayerSnapshot(p *Player) PlayerSnapshot {
	return PlayerSnapshot{
		ID:         p.Id,
		Username:   p.Username,
		Avatar:     p.Avatar,
		Score:      p.Score,
		IsHost:     p.IsHost,
		IsDrawing:  p.IsDrawing,
		HasGuessed: p.HasGuessed,
	}
}
