package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoomCode(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		code, err := GenerateRoomCode()
		require.NoError(t, err)
		assert.Len(t, code, RoomCodeLength)
		for _, r := range code {
			assert.Contains(t, roomCodeCharset, string(r))
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 90)
}

func TestGetMaskedWord(t *testing.T) {
	cases := []struct {
		word     string
		expected string
	}{
		{"", ""},
		{"cat", "_ _ _"},
		{"ice cream", "_ _ _   _ _ _ _ _"},
		{"t-rex", "_ - _ _ _"},
		{"café", "_ _ _ _"},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, GetMaskedWord(c.word), c.word)
	}
}

func TestNormalizeGuess(t *testing.T) {
	assert.Equal(t, "pizza", NormalizeGuess("  PiZZa \n"))
}

func TestFormatUptime(t *testing.T) {
	cases := []struct {
		dur      time.Duration
		expected string
	}{
		{time.Second * 5, "5 seconds"},
		{time.Second * 65, "1 minute, 5 seconds"},
		{time.Second * 3665, "1 hour, 1 minute, 5 seconds"},
		{time.Second * 3600, "1 hour, 0 minutes, 0 seconds"},
		{time.Second * 1, "1 second"},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, FormatUptime(c.dur))
	}
}
