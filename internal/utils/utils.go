package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	roomCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	RoomCodeLength  = 6
)

// GenerateRoomCode returns a random code from a fixed alphabet.
func GenerateRoomCode() (string, error) {
	code := make([]byte, RoomCodeLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeCharset))))
		if err != nil {
			return "", err
		}
		code[i] = roomCodeCharset[num.Int64()]
	}
	return string(code), nil
}

// GetMaskedWord converts word to underscores for display, keeping spaces and
// punctuation, e.g. "ice cream" -> "_ _ _   _ _ _ _ _".
func GetMaskedWord(word string) string {
	if word == "" {
		return ""
	}

	runes := []rune(word)
	masked := make([]string, 0, len(runes))
	for _, r := range runes {
		switch {
		case r == ' ':
			masked = append(masked, " ")
		case strings.ContainsRune("-'.,!?", r):
			masked = append(masked, string(r))
		default:
			masked = append(masked, "_")
		}
	}
	return strings.Join(masked, " ")
}

// NormalizeGuess folds a guess or a word for comparison.
func NormalizeGuess(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FormatUptime renders d as "1 hour, 2 minutes, 3 seconds".
func FormatUptime(d time.Duration) string {
	seconds := int(d.Seconds()) % 60
	minutes := int(d.Minutes()) % 60
	hours := int(d.Hours())
	switch {
	case hours > 0:
		return fmt.Sprintf("%d hour%s, %d minute%s, %d second%s",
			hours, plural(hours),
			minutes, plural(minutes),
			seconds, plural(seconds))
	case minutes > 0:
		return fmt.Sprintf("%d minute%s, %d second%s",
			minutes, plural(minutes),
			seconds, plural(seconds))
	default:
		return fmt.Sprintf("%d second%s", seconds, plural(seconds))
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
