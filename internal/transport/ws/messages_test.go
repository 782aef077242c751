package ws

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"wordduel/internal/domain"
)

func TestDecodeMessage(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantType   MessageType
		wantAction domain.Action
		wantErr    error
	}{
		{
			name:     "ping",
			input:    `{"type":"ping"}`,
			wantType: MsgPing,
		},
		{
			name:       "create room",
			input:      `{"type":"create_room"}`,
			wantType:   MsgCreateRoom,
			wantAction: domain.CreateRoom{},
		},
		{
			name:       "join room",
			input:      `{"type":"join_room","payload":{"roomId":"ABC123"}}`,
			wantType:   MsgJoinRoom,
			wantAction: domain.JoinRoom{RoomID: "ABC123"},
		},
		{
			name:       "commit word",
			input:      `{"type":"commit_word","payload":{"word":"apple"}}`,
			wantType:   MsgCommitWord,
			wantAction: domain.CommitWord{Word: "apple"},
		},
		{
			name:       "guess",
			input:      `{"type":"guess","payload":{"word":"crane"}}`,
			wantType:   MsgGuess,
			wantAction: domain.Guess{Word: "crane"},
		},
		{
			name:     "submit feedback",
			input:    `{"type":"submit_feedback","payload":{"marks":["exact","present","absent"]}}`,
			wantType: MsgSubmitFeedback,
			wantAction: domain.SubmitFeedback{Marks: []domain.Mark{
				domain.MarkExact, domain.MarkPresent, domain.MarkAbsent,
			}},
		},
		{
			name:    "not json",
			input:   `hello`,
			wantErr: ErrMalformedMessage,
		},
		{
			name:     "unknown type",
			input:    `{"type":"cast_vote"}`,
			wantType: "cast_vote",
			wantErr:  ErrUnknownMessageType,
		},
		{
			name:     "missing payload",
			input:    `{"type":"guess"}`,
			wantType: MsgGuess,
			wantErr:  ErrInvalidPayload,
		},
		{
			name:     "wrong payload shape",
			input:    `{"type":"commit_word","payload":{"word":5}}`,
			wantType: MsgCommitWord,
			wantErr:  ErrInvalidPayload,
		},
		{
			name:     "unknown mark",
			input:    `{"type":"submit_feedback","payload":{"marks":["exact","green"]}}`,
			wantType: MsgSubmitFeedback,
			wantErr:  ErrInvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgType, action, err := decodeMessage([]byte(tt.input))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if msgType != tt.wantType {
				t.Errorf("type = %q, want %q", msgType, tt.wantType)
			}
			if !reflect.DeepEqual(action, tt.wantAction) {
				t.Errorf("action = %#v, want %#v", action, tt.wantAction)
			}
		})
	}
}

func TestEncodeNotification(t *testing.T) {
	msg := encodeNotification(domain.GuessMade{
		Guesser: "alice",
		Word:    "CRATE",
		Marks:   []domain.Mark{domain.MarkExact, domain.MarkAbsent},
	})

	if msg.Type != MsgGuessMade {
		t.Errorf("type = %q, want %q", msg.Type, MsgGuessMade)
	}
	if msg.Timestamp == "" {
		t.Error("timestamp is empty")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Type    string `json:"type"`
		Payload struct {
			Guesser string   `json:"guesser"`
			Word    string   `json:"word"`
			Marks   []string `json:"marks"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != "guess_made" || decoded.Payload.Guesser != "alice" || decoded.Payload.Word != "CRATE" {
		t.Errorf("decoded = %+v", decoded)
	}
	if !reflect.DeepEqual(decoded.Payload.Marks, []string{"exact", "absent"}) {
		t.Errorf("marks = %v", decoded.Payload.Marks)
	}
}

func TestEncodeNotificationTypes(t *testing.T) {
	tests := []struct {
		n    domain.Notification
		want MessageType
	}{
		{domain.Connected{}, MsgConnected},
		{domain.RoomCreated{}, MsgRoomCreated},
		{domain.RoomJoined{}, MsgRoomJoined},
		{domain.WordCommitted{}, MsgWordCommitted},
		{domain.GameStarted{}, MsgGameStarted},
		{domain.GuessPending{}, MsgGuessPending},
		{domain.GuessMade{}, MsgGuessMade},
		{domain.TurnChanged{}, MsgTurnChanged},
		{domain.GameOver{}, MsgGameOver},
		{domain.OpponentDisconnected{}, MsgOpponentDisconnected},
		{domain.RoomClosed{}, MsgRoomClosed},
		{domain.ActionRejected{}, MsgActionRejected},
	}

	for _, tt := range tests {
		if got := encodeNotification(tt.n).Type; got != tt.want {
			t.Errorf("%T encoded as %q, want %q", tt.n, got, tt.want)
		}
	}
}
