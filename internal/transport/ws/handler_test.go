package ws

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"wordduel/internal/app"
	"wordduel/internal/domain"
)

type wireMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ids := app.IDGeneratorFunc(func() (string, error) { return "ABC123", nil })
	dir := app.NewRoomDirectory(ids, logger)
	dispatcher := app.NewDispatcher(dir, app.NewConnectionRegistry(), domain.DefaultSettings(), 0, logger)

	srv := httptest.NewServer(NewHandler(dispatcher, opts, logger))
	t.Cleanup(func() {
		srv.Close()
		dispatcher.Close()
	})
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType MessageType, payload interface{}) {
	t.Helper()

	msg := map[string]interface{}{"type": msgType}
	if payload != nil {
		msg["payload"] = payload
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

func expect(t *testing.T, conn *websocket.Conn, want MessageType, payload interface{}) {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg wireMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("waiting for %s: %v", want, err)
	}
	if msg.Type != want {
		t.Fatalf("got %s %s, want %s", msg.Type, msg.Payload, want)
	}
	if payload != nil {
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			t.Fatalf("decode %s payload: %v", want, err)
		}
	}
}

func connected(t *testing.T, conn *websocket.Conn) string {
	t.Helper()

	var p domain.Connected
	expect(t, conn, MsgConnected, &p)
	if p.ParticipantID == "" {
		t.Fatal("connected without a participant ID")
	}
	return p.ParticipantID
}

func TestWebSocketGame(t *testing.T) {
	srv := newTestServer(t, Options{})

	alice := dial(t, srv)
	aliceID := connected(t, alice)
	bob := dial(t, srv)
	bobID := connected(t, bob)

	send(t, alice, MsgCreateRoom, nil)
	var created domain.RoomCreated
	expect(t, alice, MsgRoomCreated, &created)
	if created.RoomID != "ABC123" || created.WordLength != 5 {
		t.Fatalf("room_created = %+v", created)
	}

	send(t, bob, MsgJoinRoom, JoinRoomPayload{RoomID: "abc123"})
	var joined domain.RoomJoined
	expect(t, alice, MsgRoomJoined, &joined)
	expect(t, bob, MsgRoomJoined, nil)
	if len(joined.Participants) != 2 {
		t.Fatalf("participants = %+v", joined.Participants)
	}

	send(t, alice, MsgCommitWord, WordPayload{Word: "apple"})
	expect(t, alice, MsgWordCommitted, nil)
	expect(t, bob, MsgWordCommitted, nil)

	send(t, bob, MsgCommitWord, WordPayload{Word: "crane"})
	var committed domain.WordCommitted
	expect(t, alice, MsgWordCommitted, &committed)
	if !committed.AllReady {
		t.Error("second commit not reported as allReady")
	}
	var started domain.GameStarted
	expect(t, alice, MsgGameStarted, &started)
	if started.FirstTurn != aliceID {
		t.Errorf("first turn = %s, want creator %s", started.FirstTurn, aliceID)
	}
	expect(t, bob, MsgWordCommitted, nil)
	expect(t, bob, MsgGameStarted, nil)

	send(t, bob, MsgGuess, WordPayload{Word: "apple"})
	var rejected domain.ActionRejected
	expect(t, bob, MsgActionRejected, &rejected)
	if rejected.Code != domain.KindNotYourTurn {
		t.Errorf("code = %s, want %s", rejected.Code, domain.KindNotYourTurn)
	}

	send(t, alice, MsgGuess, WordPayload{Word: "crane"})
	var made domain.GuessMade
	expect(t, bob, MsgGuessMade, &made)
	if made.Guesser != aliceID || made.Word != "CRANE" {
		t.Errorf("guess_made = %+v", made)
	}
	var over domain.GameOver
	expect(t, bob, MsgGameOver, &over)
	if over.Winner != aliceID || over.Words[bobID] != "CRANE" {
		t.Errorf("game_over = %+v", over)
	}
}

func TestWebSocketDisconnect(t *testing.T) {
	srv := newTestServer(t, Options{})

	alice := dial(t, srv)
	aliceID := connected(t, alice)
	bob := dial(t, srv)
	connected(t, bob)

	send(t, alice, MsgCreateRoom, nil)
	expect(t, alice, MsgRoomCreated, nil)
	send(t, bob, MsgJoinRoom, JoinRoomPayload{RoomID: "ABC123"})
	expect(t, bob, MsgRoomJoined, nil)

	alice.Close()

	var left domain.OpponentDisconnected
	expect(t, bob, MsgOpponentDisconnected, &left)
	if left.ParticipantID != aliceID {
		t.Errorf("participant = %s, want %s", left.ParticipantID, aliceID)
	}
}

func TestWebSocketInvalidMessage(t *testing.T) {
	srv := newTestServer(t, Options{})
	conn := dial(t, srv)
	connected(t, conn)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	var rejected domain.ActionRejected
	expect(t, conn, MsgActionRejected, &rejected)
	if rejected.Code != domain.KindInvalidMessage {
		t.Errorf("code = %s, want %s", rejected.Code, domain.KindInvalidMessage)
	}

	send(t, conn, MsgPing, nil)
	expect(t, conn, MsgPong, nil)
}

func TestWebSocketRateLimit(t *testing.T) {
	srv := newTestServer(t, Options{MessageRate: 0.001, MessageBurst: 1})
	conn := dial(t, srv)
	connected(t, conn)

	send(t, conn, MsgPing, nil)
	expect(t, conn, MsgPong, nil)

	send(t, conn, MsgPing, nil)
	var rejected domain.ActionRejected
	expect(t, conn, MsgActionRejected, &rejected)
	if rejected.Code != domain.KindRateLimited {
		t.Errorf("code = %s, want %s", rejected.Code, domain.KindRateLimited)
	}
}
