package echoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/frostwarlord/portal/core/chat"
)

// chat events
const (
	evtConnected      = "connected"
	evtLoadMessages   = "load_messages"
	evtSendMessage    = "send_message"
	evtMessage        = "message"
	evtMessageHistory = "message_history"
	evtError          = "error"
)

type (
	chatApi struct {
		deps ServerDeps
		room *Room
	}

	// chatEnvelope is the wire format for both directions; only the
	// fields relevant to the event type are set.
	chatEnvelope struct {
		Type     string         `json:"type"`
		Content  string         `json:"content,omitempty"`
		Message  *chat.Message  `json:"message,omitempty"`
		Messages []chat.Message `json:"messages"`
		Error    string         `json:"error,omitempty"`
	}
)

func registerChatAPI(g *echo.Group, room *Room, deps ServerDeps) {
	api := chatApi{deps: deps, room: room}
	g.GET("/socket", api.socket)
}

func (api *chatApi) socket(ctx echo.Context) error {
	// the auth middleware cannot run on a websocket handshake; verify
	// the token ourselves before upgrading
	raw := ctx.QueryParam("token")
	if raw == "" {
		if auth := ctx.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
			raw = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if raw == "" {
		return errUnauthorized
	}
	claims, err := parseToken(api.deps.Conf, raw)
	if err != nil {
		return errUnauthorized
	}
	usr, err := api.deps.UserSvc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errUnauthorized
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true }, // auth is token-based
	}
	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return errors.Wrap(err, "upgrading connection")
	}

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	client := api.room.Join(conn, usr)
	api.deps.Logger.Info(fmt.Sprintf("chat: %s joined the room", usr.Email))

	_ = client.Send(chatEnvelope{
		Type:    evtConnected,
		Content: fmt.Sprintf("Welcome to the team chat, %s!", usr.Name),
	})

	// block until the peer disconnects; the request context dies with the
	// handler, so service calls use their own
	api.readPump(client)
	return nil
}

func (api *chatApi) readPump(client *Client) {
	defer api.room.Leave(client)

	for {
		msgType, payload, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				api.deps.Logger.Warn(fmt.Sprintf("chat: read error for %s: %v", client.usr.Email, err))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var envelope chatEnvelope
		if err := json.Unmarshal(payload, &envelope); err != nil {
			continue // silently drop malformed payloads
		}

		switch envelope.Type {
		case evtLoadMessages:
			api.sendHistory(client)
		case evtSendMessage:
			api.handleMessage(client, envelope.Content)
		}
	}
}

func (api *chatApi) sendHistory(client *Client) {
	history, err := api.deps.ChatSvc.History(context.Background())
	if err != nil {
		api.deps.Logger.Error(fmt.Sprintf("chat: loading history: %v", err), err)
		_ = client.Send(chatEnvelope{Type: evtError, Error: "could not load message history"})
		return
	}
	if history == nil {
		history = []chat.Message{}
	}
	_ = client.Send(chatEnvelope{Type: evtMessageHistory, Messages: history})
}

func (api *chatApi) handleMessage(client *Client, content string) {
	msg, err := api.deps.ChatSvc.Save(context.Background(), content, client.usr)
	if err != nil {
		if errors.Cause(err) == chat.ErrEmptyMessage {
			return // silently drop
		}
		api.deps.Logger.Error(fmt.Sprintf("chat: saving message: %v", err), err, client.usr)
		_ = client.Send(chatEnvelope{Type: evtError, Error: "could not send message"})
		return
	}
	api.room.Broadcast(chatEnvelope{Type: evtMessage, Message: &msg})
}
