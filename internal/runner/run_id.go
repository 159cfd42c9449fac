package runner

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

const runIDSuffixBytes = 3

// NewRunID returns a timestamp-derived run ID with a short random suffix so
// two runs started within the same second stay distinct.
func NewRunID() (string, error) {
	return NewRunIDWithRand(time.Now().UTC(), rand.Reader)
}

// NewRunIDWithRand builds a run ID from an explicit clock and random source.
func NewRunIDWithRand(now time.Time, r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("random reader is nil")
	}
	buf := make([]byte, runIDSuffixBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return FormatRunID(now, hex.EncodeToString(buf)), nil
}

// FormatRunID renders a run ID. The timestamp prefix makes lexicographic
// order match chronological order.
func FormatRunID(now time.Time, suffix string) string {
	return now.UTC().Format("2006-01-02T15-04-05Z") + "-" + suffix
}
