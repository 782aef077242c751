package domain

import "errors"

// Domain errors
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrAlreadyInRoom       = errors.New("already in a room")
	ErrInvalidWordLength   = errors.New("word has the wrong length")
	ErrAlreadyCommitted    = errors.New("word already committed")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrGuessPending        = errors.New("a guess is awaiting feedback")
	ErrGameAlreadyFinished = errors.New("game already finished")
	ErrWrongPhase          = errors.New("invalid action for current phase")
	ErrFeedbackMismatch    = errors.New("feedback does not match the secret word")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrUnknownFeedbackMode = errors.New("unknown feedback mode")
)

// ErrorKind is the code reported to a participant whose action was rejected
type ErrorKind string

const (
	KindRoomNotFound        ErrorKind = "ROOM_NOT_FOUND"
	KindRoomFull            ErrorKind = "ROOM_FULL"
	KindAlreadyInRoom       ErrorKind = "ALREADY_IN_ROOM"
	KindInvalidWordLength   ErrorKind = "INVALID_WORD_LENGTH"
	KindAlreadyCommitted    ErrorKind = "ALREADY_COMMITTED"
	KindNotYourTurn         ErrorKind = "NOT_YOUR_TURN"
	KindGuessPending        ErrorKind = "GUESS_PENDING"
	KindGameAlreadyFinished ErrorKind = "GAME_ALREADY_FINISHED"
	KindWrongPhase          ErrorKind = "WRONG_PHASE"
	KindFeedbackMismatch    ErrorKind = "FEEDBACK_MISMATCH"
	KindInvalidMessage      ErrorKind = "INVALID_MESSAGE"
	KindRateLimited         ErrorKind = "RATE_LIMITED"
	KindInternal            ErrorKind = "INTERNAL_ERROR"
)

// KindOf maps an error returned by a session or dispatcher operation to its kind.
// Unrecognised errors are reported as KindInternal.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrParticipantNotFound):
		return KindRoomNotFound
	case errors.Is(err, ErrRoomFull):
		return KindRoomFull
	case errors.Is(err, ErrAlreadyInRoom):
		return KindAlreadyInRoom
	case errors.Is(err, ErrInvalidWordLength):
		return KindInvalidWordLength
	case errors.Is(err, ErrAlreadyCommitted):
		return KindAlreadyCommitted
	case errors.Is(err, ErrNotYourTurn):
		return KindNotYourTurn
	case errors.Is(err, ErrGuessPending):
		return KindGuessPending
	case errors.Is(err, ErrGameAlreadyFinished):
		return KindGameAlreadyFinished
	case errors.Is(err, ErrWrongPhase):
		return KindWrongPhase
	case errors.Is(err, ErrFeedbackMismatch):
		return KindFeedbackMismatch
	default:
		return KindInternal
	}
}
