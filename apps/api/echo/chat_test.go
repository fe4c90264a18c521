package echoapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/frostwarlord/portal/core/user"
)

func wsURL(srv *httptest.Server, token string) string {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/socket"
	if token != "" {
		url += "?token=" + token
	}
	return url
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	if err != nil {
		t.Fatalf("dialing: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) chatEnvelope {
	t.Helper()

	var envelope chatEnvelope
	if err := conn.ReadJSON(&envelope); err != nil {
		t.Fatalf("reading envelope: %v", err)
	}
	return envelope
}

func Test_chatApi_auth(t *testing.T) {
	env := setup(t)
	srv := httptest.NewServer(env.app)
	defer srv.Close()

	tests := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage token", "garbage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, res, err := websocket.DefaultDialer.Dial(wsURL(srv, tt.token), nil)
			if err == nil {
				t.Fatal("handshake succeeded, want rejection")
			}
			if res == nil || res.StatusCode != http.StatusUnauthorized {
				t.Errorf("handshake response = %v, want 401", res)
			}
		})
	}

	// unknown subject
	ghost := user.User{ID: "no-such-user", Name: "Ghost", Email: "ghost@test.cd"}
	_, res, err := websocket.DefaultDialer.Dial(wsURL(srv, env.getToken(t, ghost)), nil)
	if err == nil {
		t.Fatal("handshake succeeded for unknown user, want rejection")
	}
	if res == nil || res.StatusCode != http.StatusUnauthorized {
		t.Errorf("handshake response = %v, want 401", res)
	}
}

func Test_chatApi_welcomeAndHistory(t *testing.T) {
	env := setup(t)
	srv := httptest.NewServer(env.app)
	defer srv.Close()

	usr := env.createUser(t, "Kai", "kai@test.cd", "Str0ng!Pass", true, false)
	conn := dial(t, srv, env.getToken(t, usr))

	welcome := readEnvelope(t, conn)
	if welcome.Type != evtConnected {
		t.Fatalf("Type = %q, want %q", welcome.Type, evtConnected)
	}
	if !strings.Contains(welcome.Content, usr.Name) {
		t.Errorf("welcome %q does not greet %q", welcome.Content, usr.Name)
	}

	// empty room has an empty, non-null history
	if err := conn.WriteJSON(chatEnvelope{Type: evtLoadMessages}); err != nil {
		t.Fatalf("writing load_messages: %v", err)
	}
	history := readEnvelope(t, conn)
	if history.Type != evtMessageHistory {
		t.Fatalf("Type = %q, want %q", history.Type, evtMessageHistory)
	}
	if history.Messages == nil || len(history.Messages) != 0 {
		t.Errorf("Messages = %v, want []", history.Messages)
	}
}

func Test_chatApi_broadcast(t *testing.T) {
	env := setup(t)
	srv := httptest.NewServer(env.app)
	defer srv.Close()

	kai := env.createUser(t, "Kai", "kai@test.cd", "Str0ng!Pass", true, false)
	mira := env.createUser(t, "Mira", "mira@test.cd", "Str0ng!Pass", true, false)

	kaiConn := dial(t, srv, env.getToken(t, kai))
	miraConn := dial(t, srv, env.getToken(t, mira))
	readEnvelope(t, kaiConn)  // welcome
	readEnvelope(t, miraConn) // welcome

	if err := kaiConn.WriteJSON(chatEnvelope{Type: evtSendMessage, Content: "scrim at 8?"}); err != nil {
		t.Fatalf("writing send_message: %v", err)
	}

	// both peers receive the broadcast, sender included
	for _, conn := range []*websocket.Conn{kaiConn, miraConn} {
		got := readEnvelope(t, conn)
		if got.Type != evtMessage {
			t.Fatalf("Type = %q, want %q", got.Type, evtMessage)
		}
		if got.Message == nil {
			t.Fatal("Message is nil")
		}
		if got.Message.Content != "scrim at 8?" || got.Message.SenderID != kai.ID {
			t.Errorf("unexpected message: %+v", got.Message)
		}
		if got.Message.SenderName != kai.Name {
			t.Errorf("SenderName = %q, want %q", got.Message.SenderName, kai.Name)
		}
	}

	// whitespace-only messages are dropped without a broadcast
	if err := kaiConn.WriteJSON(chatEnvelope{Type: evtSendMessage, Content: "   "}); err != nil {
		t.Fatalf("writing send_message: %v", err)
	}
	if err := kaiConn.WriteJSON(chatEnvelope{Type: evtSendMessage, Content: "gg"}); err != nil {
		t.Fatalf("writing send_message: %v", err)
	}
	got := readEnvelope(t, miraConn)
	if got.Message == nil || got.Message.Content != "gg" {
		t.Errorf("next broadcast = %+v, want the non-empty message", got.Message)
	}
}

func Test_chatApi_historyReplay(t *testing.T) {
	env := setup(t)
	srv := httptest.NewServer(env.app)
	defer srv.Close()

	kai := env.createUser(t, "Kai", "kai@test.cd", "Str0ng!Pass", true, false)
	kaiConn := dial(t, srv, env.getToken(t, kai))
	readEnvelope(t, kaiConn) // welcome

	const sent = 5
	for i := 0; i < sent; i++ {
		if err := kaiConn.WriteJSON(chatEnvelope{Type: evtSendMessage, Content: fmt.Sprintf("msg %d", i)}); err != nil {
			t.Fatalf("writing send_message: %v", err)
		}
		readEnvelope(t, kaiConn) // own broadcast
	}

	// a late joiner replays the backlog oldest first
	mira := env.createUser(t, "Mira", "mira@test.cd", "Str0ng!Pass", true, false)
	miraConn := dial(t, srv, env.getToken(t, mira))
	readEnvelope(t, miraConn) // welcome

	if err := miraConn.WriteJSON(chatEnvelope{Type: evtLoadMessages}); err != nil {
		t.Fatalf("writing load_messages: %v", err)
	}
	history := readEnvelope(t, miraConn)
	if history.Type != evtMessageHistory {
		t.Fatalf("Type = %q, want %q", history.Type, evtMessageHistory)
	}
	if len(history.Messages) != sent {
		t.Fatalf("len(Messages) = %v, want %v", len(history.Messages), sent)
	}
	for i, msg := range history.Messages {
		if want := fmt.Sprintf("msg %d", i); msg.Content != want {
			t.Errorf("Messages[%d].Content = %q, want %q", i, msg.Content, want)
		}
	}
}
