package domain

// Action is an inbound request from a participant's connection. Like
// Notification the set is closed; ActionHandler lists every kind.
type Action interface {
	Apply(h ActionHandler) error
	Name() string
	isAction()
}

// ActionHandler handles every action kind
type ActionHandler interface {
	HandleCreateRoom(CreateRoom) error
	HandleJoinRoom(JoinRoom) error
	HandleCommitWord(CommitWord) error
	HandleGuess(Guess) error
	HandleSubmitFeedback(SubmitFeedback) error
	HandleDisconnect(Disconnect) error
}

// CreateRoom opens a new room with the caller as creator
type CreateRoom struct{}

// JoinRoom enters an existing room as the second participant
type JoinRoom struct {
	RoomID string
}

// CommitWord sets the caller's secret word
type CommitWord struct {
	Word string
}

// Guess submits a guess of the opponent's word
type Guess struct {
	Word string
}

// SubmitFeedback supplies marks for the opponent's pending guess (manual mode)
type SubmitFeedback struct {
	Marks []Mark
}

// Disconnect is raised by the transport when the connection goes away
type Disconnect struct{}

func (a CreateRoom) Apply(h ActionHandler) error     { return h.HandleCreateRoom(a) }
func (a JoinRoom) Apply(h ActionHandler) error       { return h.HandleJoinRoom(a) }
func (a CommitWord) Apply(h ActionHandler) error     { return h.HandleCommitWord(a) }
func (a Guess) Apply(h ActionHandler) error          { return h.HandleGuess(a) }
func (a SubmitFeedback) Apply(h ActionHandler) error { return h.HandleSubmitFeedback(a) }
func (a Disconnect) Apply(h ActionHandler) error     { return h.HandleDisconnect(a) }

func (CreateRoom) Name() string     { return "create_room" }
func (JoinRoom) Name() string       { return "join_room" }
func (CommitWord) Name() string     { return "commit_word" }
func (Guess) Name() string          { return "guess" }
func (SubmitFeedback) Name() string { return "submit_feedback" }
func (Disconnect) Name() string     { return "disconnect" }

func (CreateRoom) isAction()     {}
func (JoinRoom) isAction()       {}
func (CommitWord) isAction()     {}
func (Guess) isAction()          {}
func (SubmitFeedback) isAction() {}
func (Disconnect) isAction()     {}
