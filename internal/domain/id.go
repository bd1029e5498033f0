package domain

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffixLength   = 8
)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	nonIDCharacter = regexp.MustCompile(`[^a-zA-Z0-9-]`)
)

// randomSuffix returns a short random identifier segment. Collisions are
// accepted as negligible at this length (36^8 combinations).
func randomSuffix() string {
	b := make([]byte, suffixLength)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the process has bigger problems;
		// fall back to a time-derived suffix rather than panicking.
		return fmt.Sprintf("%x", time.Now().UnixNano())[:suffixLength]
	}
	for i := range b {
		b[i] = suffixAlphabet[int(b[i])%len(suffixAlphabet)]
	}
	return string(b)
}

// sanitizeTitle collapses whitespace runs into single hyphens. Other
// characters are kept as-is so board ids stay recognizable.
func sanitizeTitle(title string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(title), "-")
}

// sanitizeName collapses whitespace runs into hyphens and strips every
// character outside [A-Za-z0-9-].
func sanitizeName(name string) string {
	s := whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "-")
	return nonIDCharacter.ReplaceAllString(s, "")
}

// NewBoardID builds a board identifier of the form
// "<sanitized-title>:<dd-mm-yyyy>:<suffix>". The date segment is the
// creation date and is never recomputed afterwards.
func NewBoardID(title string, at time.Time) string {
	return fmt.Sprintf("%s:%s:%s", sanitizeTitle(title), at.Format("02-01-2006"), randomSuffix())
}

// NewParticipantID builds a participant identifier of the form
// "<sanitized-name>-<suffix>".
func NewParticipantID(name string) string {
	return fmt.Sprintf("%s-%s", sanitizeName(name), randomSuffix())
}
