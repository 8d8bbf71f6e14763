package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// NewKeyCode returns a short uppercase hex code for activation keys.
// Shorter than NewID so it stays typeable; collisions are handled by
// the unique index on the code column.
func (g *RandomGenerator) NewKeyCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
