package service

import (
	"strings"

	"golang.org/x/text/cases"
)

type principal struct {
	identity    string
	displayName string
}

func (p principal) Identity() string    { return p.identity }
func (p principal) DisplayName() string { return p.displayName }

// NewPrincipal wraps a transport identity and its display name
func NewPrincipal(identity, displayName string) Principal {
	return principal{identity: strings.TrimSpace(identity), displayName: strings.TrimSpace(displayName)}
}

// IsUsernameRef reports whether s is an @username reference rather than an identity
func IsUsernameRef(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "@")
}

// NormalizeUsername strips the @ prefix and case-folds, so "@Alice" and
// "alice" compare equal
func NormalizeUsername(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "@")
	return cases.Fold().String(s)
}

// matchesEntry reports whether a static authority list entry names p
func matchesEntry(entry string, p Principal) bool {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return false
	}
	if IsUsernameRef(entry) {
		name := NormalizeUsername(p.DisplayName())
		return name != "" && name == NormalizeUsername(entry)
	}
	return entry == p.Identity()
}

func matchesAny(entries []string, p Principal) bool {
	for _, e := range entries {
		if matchesEntry(e, p) {
			return true
		}
	}
	return false
}
