package domain

import "time"

// GuessRecord is one guess in a session's log. Marks stay nil until the guess
// has been evaluated.
type GuessRecord struct {
	Guesser   string    `json:"guesser"`
	Word      string    `json:"word"`
	Marks     []Mark    `json:"marks,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// newGuessRecord creates a pending guess
func newGuessRecord(guesser, word string) *GuessRecord {
	return &GuessRecord{
		Guesser:   guesser,
		Word:      word,
		Timestamp: time.Now(),
	}
}

// IsPending returns true while the guess awaits evaluation
func (g *GuessRecord) IsPending() bool {
	return g.Marks == nil
}
