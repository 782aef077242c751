package domain

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Mark is the evaluation of one letter of a guess
type Mark string

const (
	MarkExact   Mark = "exact"   // right letter, right position
	MarkPresent Mark = "present" // letter occurs elsewhere in the secret
	MarkAbsent  Mark = "absent"  // no unclaimed occurrence left
)

// Valid reports whether m is one of the known marks
func (m Mark) Valid() bool {
	return m == MarkExact || m == MarkPresent || m == MarkAbsent
}

// Evaluate scores guess against secret. Both must already be normalized and of
// equal rune length.
//
// Exact matches are resolved first and removed from the pool of secret letters.
// The remaining positions are then scanned left to right: a letter is marked
// present while an unclaimed occurrence of it is still in the pool, otherwise
// absent. A letter is never credited more times than it occurs in the secret.
func Evaluate(guess, secret string) []Mark {
	g := []rune(guess)
	s := []rune(secret)
	marks := make([]Mark, len(g))

	pool := make(map[rune]int, len(s))
	for i := range g {
		if i >= len(s) {
			break
		}
		if g[i] == s[i] {
			marks[i] = MarkExact
			continue
		}
		pool[s[i]]++
	}

	for i, r := range g {
		if marks[i] == MarkExact {
			continue
		}
		if pool[r] > 0 {
			marks[i] = MarkPresent
			pool[r]--
		} else {
			marks[i] = MarkAbsent
		}
	}

	return marks
}

// IsSolved returns true if every mark is an exact match
func IsSolved(marks []Mark) bool {
	return len(marks) > 0 && lo.EveryBy(marks, func(m Mark) bool {
		return m == MarkExact
	})
}

// SameMarks compares two feedback sequences position by position
func SameMarks(a, b []Mark) bool {
	return slices.Equal(a, b)
}

// NormalizeWord trims surrounding space and upper-cases the word
func NormalizeWord(word string) string {
	return strings.ToUpper(strings.TrimSpace(word))
}

// WordLength counts letters, not bytes
func WordLength(word string) int {
	return utf8.RuneCountInString(word)
}
