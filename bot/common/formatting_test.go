package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBalance(t *testing.T) {
	tests := []struct {
		name     string
		balance  int64
		expected string
	}{
		{"zero", 0, "0"},
		{"small", 35, "35"},
		{"thousands", 1500, "1,500"},
		{"millions", 1234567, "1,234,567"},
		{"negative", -15, "-15"},
		{"negative thousands", -1500, "-1,500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatBalance(tt.balance))
		})
	}
}

func TestFormatSigned(t *testing.T) {
	assert.Equal(t, "+15", FormatSigned(15))
	assert.Equal(t, "-50", FormatSigned(-50))
	assert.Equal(t, "+0", FormatSigned(0))
}

func TestFormatDiscordTimestamp(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	assert.Equal(t, "<t:1700000000:R>", FormatDiscordTimestamp(ts, "R"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
}
