package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wordduel/internal/domain"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgCreateRoom     MessageType = "create_room"
	MsgJoinRoom       MessageType = "join_room"
	MsgCommitWord     MessageType = "commit_word"
	MsgGuess          MessageType = "guess"
	MsgSubmitFeedback MessageType = "submit_feedback"
	MsgPing           MessageType = "ping"
)

// Server → Client message types
const (
	MsgConnected            MessageType = "connected"
	MsgRoomCreated          MessageType = "room_created"
	MsgRoomJoined           MessageType = "room_joined"
	MsgWordCommitted        MessageType = "word_committed"
	MsgGameStarted          MessageType = "game_started"
	MsgGuessPending         MessageType = "guess_pending"
	MsgGuessMade            MessageType = "guess_made"
	MsgTurnChanged          MessageType = "turn_changed"
	MsgGameOver             MessageType = "game_over"
	MsgOpponentDisconnected MessageType = "opponent_disconnected"
	MsgRoomClosed           MessageType = "room_closed"
	MsgActionRejected       MessageType = "action_rejected"
	MsgPong                 MessageType = "pong"
)

var (
	ErrMalformedMessage   = errors.New("malformed message")
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrInvalidPayload     = errors.New("invalid payload")
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// JoinRoomPayload is the payload for join_room message
type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
}

// WordPayload is the payload for commit_word and guess messages
type WordPayload struct {
	Word string `json:"word"`
}

// SubmitFeedbackPayload is the payload for submit_feedback message
type SubmitFeedbackPayload struct {
	Marks []domain.Mark `json:"marks"`
}

// decodeMessage parses one inbound frame. A ping yields a nil action.
func decodeMessage(data []byte) (MessageType, domain.Action, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return "", nil, ErrMalformedMessage
	}

	switch msg.Type {
	case MsgPing:
		return msg.Type, nil, nil

	case MsgCreateRoom:
		return msg.Type, domain.CreateRoom{}, nil

	case MsgJoinRoom:
		var p JoinRoomPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return msg.Type, nil, err
		}
		return msg.Type, domain.JoinRoom{RoomID: p.RoomID}, nil

	case MsgCommitWord:
		var p WordPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return msg.Type, nil, err
		}
		return msg.Type, domain.CommitWord{Word: p.Word}, nil

	case MsgGuess:
		var p WordPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return msg.Type, nil, err
		}
		return msg.Type, domain.Guess{Word: p.Word}, nil

	case MsgSubmitFeedback:
		var p SubmitFeedbackPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return msg.Type, nil, err
		}
		for _, m := range p.Marks {
			if !m.Valid() {
				return msg.Type, nil, fmt.Errorf("%w: unknown mark %q", ErrInvalidPayload, m)
			}
		}
		return msg.Type, domain.SubmitFeedback{Marks: p.Marks}, nil

	default:
		return msg.Type, nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}
}

func decodePayload(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: payload is required", ErrInvalidPayload)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// encodeNotification wraps a notification in its wire envelope
func encodeNotification(n domain.Notification) *ServerMessage {
	var e encoder
	n.Accept(&e)
	return NewServerMessage(e.msgType, e.payload)
}

// encoder names each notification on the wire
type encoder struct {
	msgType MessageType
	payload interface{}
}

func (e *encoder) set(t MessageType, payload interface{}) {
	e.msgType = t
	e.payload = payload
}

func (e *encoder) VisitConnected(n domain.Connected)         { e.set(MsgConnected, n) }
func (e *encoder) VisitRoomCreated(n domain.RoomCreated)     { e.set(MsgRoomCreated, n) }
func (e *encoder) VisitRoomJoined(n domain.RoomJoined)       { e.set(MsgRoomJoined, n) }
func (e *encoder) VisitWordCommitted(n domain.WordCommitted) { e.set(MsgWordCommitted, n) }
func (e *encoder) VisitGameStarted(n domain.GameStarted)     { e.set(MsgGameStarted, n) }
func (e *encoder) VisitGuessPending(n domain.GuessPending)   { e.set(MsgGuessPending, n) }
func (e *encoder) VisitGuessMade(n domain.GuessMade)         { e.set(MsgGuessMade, n) }
func (e *encoder) VisitTurnChanged(n domain.TurnChanged)     { e.set(MsgTurnChanged, n) }
func (e *encoder) VisitGameOver(n domain.GameOver)           { e.set(MsgGameOver, n) }
func (e *encoder) VisitRoomClosed(n domain.RoomClosed)       { e.set(MsgRoomClosed, n) }
func (e *encoder) VisitActionRejected(n domain.ActionRejected) {
	e.set(MsgActionRejected, n)
}
func (e *encoder) VisitOpponentDisconnected(n domain.OpponentDisconnected) {
	e.set(MsgOpponentDisconnected, n)
}
