package domain

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

// MaxParticipants is the number of players in a room
const MaxParticipants = 2

// FeedbackMode selects who evaluates a guess
type FeedbackMode string

const (
	FeedbackAuto   FeedbackMode = "auto"   // the server evaluates every guess
	FeedbackManual FeedbackMode = "manual" // the opponent submits marks, checked against Evaluate
)

// ParseFeedbackMode validates a configured feedback mode
func ParseFeedbackMode(s string) (FeedbackMode, error) {
	switch FeedbackMode(s) {
	case FeedbackAuto, FeedbackManual:
		return FeedbackMode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFeedbackMode, s)
	}
}

// Settings holds configurable game parameters
type Settings struct {
	WordLength int          `json:"wordLength"`
	Feedback   FeedbackMode `json:"feedbackMode"`
}

// DefaultSettings returns the default game settings
func DefaultSettings() Settings {
	return Settings{
		WordLength: 5,
		Feedback:   FeedbackAuto,
	}
}

// Session is one room from creation to termination. It is not safe for
// concurrent use; the owner serialises calls (see app.Room).
//
// Every operation either applies completely and returns the notifications to
// deliver, or returns an error and leaves the session untouched.
type Session struct {
	ID        string
	CreatedAt time.Time

	settings     Settings
	participants []*Participant
	phase        Phase
	turn         int
	guesses      []*GuessRecord
	winner       string
	abandoned    bool
	lastActive   time.Time
}

// NewSession creates an empty session with the given room ID
func NewSession(id string, settings Settings) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		CreatedAt:    now,
		settings:     settings,
		participants: make([]*Participant, 0, MaxParticipants),
		phase:        PhaseWaiting,
		guesses:      make([]*GuessRecord, 0),
		lastActive:   now,
	}
}

// Open seats the creator in an empty session
func (s *Session) Open(creatorID string) ([]Envelope, error) {
	if s.phase.IsTerminal() {
		return nil, ErrGameAlreadyFinished
	}
	if len(s.participants) != 0 {
		return nil, ErrWrongPhase
	}

	s.participants = append(s.participants, newParticipant(creatorID))
	s.touch()

	return []Envelope{{
		To: creatorID,
		Notification: RoomCreated{
			RoomID:       s.ID,
			WordLength:   s.settings.WordLength,
			FeedbackMode: s.settings.Feedback,
		},
	}}, nil
}

// Join seats the second participant
func (s *Session) Join(participantID string) ([]Envelope, error) {
	if s.phase.IsTerminal() {
		return nil, ErrGameAlreadyFinished
	}
	if s.participant(participantID) != nil {
		return nil, ErrAlreadyInRoom
	}
	if len(s.participants) == 0 {
		return nil, ErrRoomNotFound
	}
	if len(s.participants) >= MaxParticipants {
		return nil, ErrRoomFull
	}

	s.participants = append(s.participants, newParticipant(participantID))
	s.setPhase(PhaseFull)
	s.touch()

	return s.toAll(RoomJoined{
		RoomID:       s.ID,
		Participants: s.participantInfos(),
		WordLength:   s.settings.WordLength,
	}), nil
}

// CommitWord sets a participant's secret word. Once both words are in, the
// creator holds the first turn.
func (s *Session) CommitWord(participantID, word string) ([]Envelope, error) {
	p := s.participant(participantID)
	if p == nil {
		return nil, ErrParticipantNotFound
	}
	if s.phase.IsTerminal() {
		return nil, ErrGameAlreadyFinished
	}
	if p.IsReady() {
		return nil, ErrAlreadyCommitted
	}
	if s.phase != PhaseFull && s.phase != PhaseCommitting {
		return nil, ErrWrongPhase
	}

	word = NormalizeWord(word)
	if WordLength(word) != s.settings.WordLength {
		return nil, ErrInvalidWordLength
	}

	p.commit(word)
	s.touch()

	allReady := lo.EveryBy(s.participants, func(p *Participant) bool {
		return p.IsReady()
	})

	out := s.toAll(WordCommitted{
		ParticipantID: participantID,
		AllReady:      allReady,
	})

	if !allReady {
		s.setPhase(PhaseCommitting)
		return out, nil
	}

	s.turn = 0
	s.setPhase(PhaseTurn)

	return append(out, s.toAll(GameStarted{FirstTurn: s.participants[s.turn].ID})...), nil
}

// Guess submits the active participant's guess of the opponent's word. In
// automatic mode the guess is evaluated immediately; in manual mode it stays
// pending until the opponent submits matching feedback.
func (s *Session) Guess(participantID, word string) ([]Envelope, error) {
	if s.participant(participantID) == nil {
		return nil, ErrParticipantNotFound
	}
	if s.phase.IsTerminal() {
		return nil, ErrGameAlreadyFinished
	}
	if _, pending := s.PendingGuess(); pending || s.phase == PhaseAwaitingFeedback {
		return nil, ErrGuessPending
	}
	if s.phase != PhaseTurn || s.ActiveParticipant() != participantID {
		return nil, ErrNotYourTurn
	}

	word = NormalizeWord(word)
	if WordLength(word) != s.settings.WordLength {
		return nil, ErrInvalidWordLength
	}

	record := newGuessRecord(participantID, word)
	s.guesses = append(s.guesses, record)
	s.touch()

	if s.settings.Feedback == FeedbackManual {
		s.setPhase(PhaseAwaitingFeedback)
		return s.toAll(GuessPending{
			Guesser: participantID,
			Word:    word,
		}), nil
	}

	opponent := s.opponent(participantID)
	return s.resolve(record, Evaluate(word, opponent.word)), nil
}

// SubmitFeedback resolves the pending guess with the evaluator's marks. The
// marks must equal what Evaluate produces for the evaluator's secret word.
func (s *Session) SubmitFeedback(participantID string, marks []Mark) ([]Envelope, error) {
	p := s.participant(participantID)
	if p == nil {
		return nil, ErrParticipantNotFound
	}
	if s.phase.IsTerminal() {
		return nil, ErrGameAlreadyFinished
	}
	if s.settings.Feedback != FeedbackManual || s.phase != PhaseAwaitingFeedback {
		return nil, ErrWrongPhase
	}

	pending, _ := s.PendingGuess()
	if pending.Guesser == participantID {
		return nil, ErrNotYourTurn
	}

	expected := Evaluate(pending.Word, p.word)
	if !SameMarks(expected, marks) {
		return nil, ErrFeedbackMismatch
	}

	s.touch()

	// pending is a copy; resolve the record held in the log
	return s.resolve(s.guesses[len(s.guesses)-1], expected), nil
}

// resolve records marks for a guess and either ends the game or passes the turn
func (s *Session) resolve(record *GuessRecord, marks []Mark) []Envelope {
	record.Marks = marks

	out := s.toAll(GuessMade{
		Guesser: record.Guesser,
		Word:    record.Word,
		Marks:   marks,
	})

	if IsSolved(marks) {
		s.winner = record.Guesser
		s.setPhase(PhaseFinished)
		return append(out, s.toAll(GameOver{
			Winner: s.winner,
			Words:  s.words(),
		})...)
	}

	s.turn = (s.turn + 1) % len(s.participants)
	s.setPhase(PhaseTurn)

	return append(out, s.toAll(TurnChanged{Next: s.ActiveParticipant()})...)
}

// Leave ends the session because participantID disconnected. The remaining
// participant, if any, is told once. Leaving a finished session is a no-op.
func (s *Session) Leave(participantID string) []Envelope {
	if s.participant(participantID) == nil || s.phase.IsTerminal() {
		return nil
	}

	s.abandoned = true
	s.setPhase(PhaseFinished)

	opponent := s.opponent(participantID)
	if opponent == nil {
		return nil
	}

	return []Envelope{{
		To:           opponent.ID,
		Notification: OpponentDisconnected{ParticipantID: participantID},
	}}
}

// Close ends the session on the server's behalf and tells every participant why
func (s *Session) Close(reason string) []Envelope {
	if s.phase.IsTerminal() {
		return nil
	}

	s.abandoned = true
	s.setPhase(PhaseFinished)

	return s.toAll(RoomClosed{
		RoomID: s.ID,
		Reason: reason,
	})
}

// Phase returns the current phase
func (s *Session) Phase() Phase {
	return s.phase
}

// Settings returns the settings the session was created with
func (s *Session) Settings() Settings {
	return s.settings
}

// IsFinished returns true once the session reached its terminal phase
func (s *Session) IsFinished() bool {
	return s.phase.IsTerminal()
}

// Winner returns the winning participant ID, empty if none
func (s *Session) Winner() string {
	return s.winner
}

// Abandoned returns true if the session ended without a winner
func (s *Session) Abandoned() bool {
	return s.abandoned
}

// CanJoin checks if a second participant can still join
func (s *Session) CanJoin() bool {
	return s.phase == PhaseWaiting && len(s.participants) == 1
}

// ParticipantCount returns the number of seated participants
func (s *Session) ParticipantCount() int {
	return len(s.participants)
}

// ParticipantIDs returns participant IDs in seating order
func (s *Session) ParticipantIDs() []string {
	return lo.Map(s.participants, func(p *Participant, _ int) string {
		return p.ID
	})
}

// HasParticipant checks if the given ID is seated in this session
func (s *Session) HasParticipant(participantID string) bool {
	return s.participant(participantID) != nil
}

// ActiveParticipant returns the ID of the participant holding the turn, empty
// when no turn is in play
func (s *Session) ActiveParticipant() string {
	if s.phase != PhaseTurn && s.phase != PhaseAwaitingFeedback {
		return ""
	}
	return s.participants[s.turn].ID
}

// PendingGuess returns a copy of the unevaluated guess, if there is one
func (s *Session) PendingGuess() (GuessRecord, bool) {
	if len(s.guesses) == 0 {
		return GuessRecord{}, false
	}
	last := s.guesses[len(s.guesses)-1]
	if !last.IsPending() {
		return GuessRecord{}, false
	}
	return *last, true
}

// Guesses returns a copy of the guess log
func (s *Session) Guesses() []GuessRecord {
	return lo.Map(s.guesses, func(g *GuessRecord, _ int) GuessRecord {
		c := *g
		c.Marks = append([]Mark(nil), g.Marks...)
		return c
	})
}

// LastActive returns when the session last accepted an action
func (s *Session) LastActive() time.Time {
	return s.lastActive
}

func (s *Session) participant(id string) *Participant {
	p, _ := lo.Find(s.participants, func(p *Participant) bool {
		return p.ID == id
	})
	return p
}

func (s *Session) opponent(id string) *Participant {
	p, _ := lo.Find(s.participants, func(p *Participant) bool {
		return p.ID != id
	})
	return p
}

func (s *Session) participantInfos() []ParticipantInfo {
	return lo.Map(s.participants, func(p *Participant, _ int) ParticipantInfo {
		return p.ToInfo()
	})
}

func (s *Session) words() map[string]string {
	return lo.Associate(s.participants, func(p *Participant) (string, string) {
		return p.ID, p.word
	})
}

func (s *Session) toAll(n Notification) []Envelope {
	return lo.Map(s.participants, func(p *Participant, _ int) Envelope {
		return Envelope{To: p.ID, Notification: n}
	})
}

// setPhase moves the state machine forward. Transitions are decided by the
// operations above; an illegal one is a programming error.
func (s *Session) setPhase(target Phase) {
	if !s.phase.CanTransitionTo(target) {
		panic(fmt.Sprintf("session %s: invalid phase transition %s -> %s", s.ID, s.phase, target))
	}
	s.phase = target
}

func (s *Session) touch() {
	s.lastActive = time.Now()
}
