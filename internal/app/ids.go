package app

import (
	"crypto/rand"
	"fmt"
)

// DefaultRoomCodeLength is the default length for room codes
const DefaultRoomCodeLength = 6

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// IDGenerator produces candidate room IDs. Uniqueness is checked by the
// directory, so generators may repeat.
type IDGenerator interface {
	NewID() (string, error)
}

// IDGeneratorFunc adapts a function to IDGenerator
type IDGeneratorFunc func() (string, error)

// NewID calls f
func (f IDGeneratorFunc) NewID() (string, error) {
	return f()
}

// RoomCodeGenerator draws random codes from RoomCodeChars
type RoomCodeGenerator struct {
	Length int
}

// NewID generates a random room code
func (g RoomCodeGenerator) NewID() (string, error) {
	n := g.Length
	if n <= 0 {
		n = DefaultRoomCodeLength
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate room code: %w", err)
	}

	code := make([]byte, n)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code), nil
}
