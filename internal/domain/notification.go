package domain

// Notification is an outbound message for one participant. The set of
// notifications is closed: every variant is listed in NotificationVisitor, so
// adding one breaks every visitor until it handles the new kind.
type Notification interface {
	Accept(v NotificationVisitor)
	isNotification()
}

// NotificationVisitor handles every notification kind
type NotificationVisitor interface {
	VisitConnected(Connected)
	VisitRoomCreated(RoomCreated)
	VisitRoomJoined(RoomJoined)
	VisitWordCommitted(WordCommitted)
	VisitGameStarted(GameStarted)
	VisitGuessPending(GuessPending)
	VisitGuessMade(GuessMade)
	VisitTurnChanged(TurnChanged)
	VisitGameOver(GameOver)
	VisitOpponentDisconnected(OpponentDisconnected)
	VisitRoomClosed(RoomClosed)
	VisitActionRejected(ActionRejected)
}

// Envelope addresses a notification to a participant
type Envelope struct {
	To           string
	Notification Notification
}

// Connected greets a new connection with its participant ID
type Connected struct {
	ParticipantID string `json:"participantId"`
}

// RoomCreated is sent to the creator
type RoomCreated struct {
	RoomID       string       `json:"roomId"`
	WordLength   int          `json:"wordLength"`
	FeedbackMode FeedbackMode `json:"feedbackMode"`
}

// RoomJoined is sent to both participants once the room is full
type RoomJoined struct {
	RoomID       string            `json:"roomId"`
	Participants []ParticipantInfo `json:"participants"`
	WordLength   int               `json:"wordLength"`
}

// WordCommitted announces that a participant is ready
type WordCommitted struct {
	ParticipantID string `json:"participantId"`
	AllReady      bool   `json:"allReady"`
}

// GameStarted names the participant holding the first turn
type GameStarted struct {
	FirstTurn string `json:"firstTurn"`
}

// GuessPending announces a guess that awaits the opponent's marks (manual mode)
type GuessPending struct {
	Guesser string `json:"guesser"`
	Word    string `json:"word"`
}

// GuessMade carries an evaluated guess
type GuessMade struct {
	Guesser string `json:"guesser"`
	Word    string `json:"word"`
	Marks   []Mark `json:"marks"`
}

// TurnChanged names the participant allowed to guess next
type TurnChanged struct {
	Next string `json:"next"`
}

// GameOver reveals the winner and both secret words keyed by participant
type GameOver struct {
	Winner string            `json:"winner"`
	Words  map[string]string `json:"words"`
}

// OpponentDisconnected tells the survivor that the room has ended
type OpponentDisconnected struct {
	ParticipantID string `json:"participantId"`
}

// RoomClosed is sent when the server tears a room down on its own
type RoomClosed struct {
	RoomID string `json:"roomId"`
	Reason string `json:"reason"`
}

// ActionRejected reports why an action failed; only the actor receives it
type ActionRejected struct {
	Code    ErrorKind `json:"code"`
	Message string    `json:"message"`
}

func (n Connected) Accept(v NotificationVisitor)            { v.VisitConnected(n) }
func (n RoomCreated) Accept(v NotificationVisitor)          { v.VisitRoomCreated(n) }
func (n RoomJoined) Accept(v NotificationVisitor)           { v.VisitRoomJoined(n) }
func (n WordCommitted) Accept(v NotificationVisitor)        { v.VisitWordCommitted(n) }
func (n GameStarted) Accept(v NotificationVisitor)          { v.VisitGameStarted(n) }
func (n GuessPending) Accept(v NotificationVisitor)         { v.VisitGuessPending(n) }
func (n GuessMade) Accept(v NotificationVisitor)            { v.VisitGuessMade(n) }
func (n TurnChanged) Accept(v NotificationVisitor)          { v.VisitTurnChanged(n) }
func (n GameOver) Accept(v NotificationVisitor)             { v.VisitGameOver(n) }
func (n OpponentDisconnected) Accept(v NotificationVisitor) { v.VisitOpponentDisconnected(n) }
func (n RoomClosed) Accept(v NotificationVisitor)           { v.VisitRoomClosed(n) }
func (n ActionRejected) Accept(v NotificationVisitor)       { v.VisitActionRejected(n) }

func (Connected) isNotification()            {}
func (RoomCreated) isNotification()          {}
func (RoomJoined) isNotification()           {}
func (WordCommitted) isNotification()        {}
func (GameStarted) isNotification()          {}
func (GuessPending) isNotification()         {}
func (GuessMade) isNotification()            {}
func (TurnChanged) isNotification()          {}
func (GameOver) isNotification()             {}
func (OpponentDisconnected) isNotification() {}
func (RoomClosed) isNotification()           {}
func (ActionRejected) isNotification()       {}

// NewRejection builds the ActionRejected notification for err
func NewRejection(err error) ActionRejected {
	kind := KindOf(err)
	msg := err.Error()
	if kind == KindInternal {
		msg = "internal error"
	}
	return ActionRejected{
		Code:    kind,
		Message: msg,
	}
}
