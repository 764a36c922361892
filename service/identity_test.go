package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "alice", NormalizeUsername("@Alice"))
	assert.Equal(t, "alice", NormalizeUsername("  ALICE "))
	assert.Equal(t, NormalizeUsername("@Straße"), NormalizeUsername("STRASSE"))
}

func TestMatchesEntry(t *testing.T) {
	p := NewPrincipal("123", "Alice")

	assert.True(t, matchesEntry("123", p))
	assert.True(t, matchesEntry("@alice", p))
	assert.False(t, matchesEntry("@bob", p))
	assert.False(t, matchesEntry("", p))
	assert.False(t, matchesEntry("@", NewPrincipal("123", "")))
}
