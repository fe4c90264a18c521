package echoapi

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/frostwarlord/portal/core"
	"github.com/frostwarlord/portal/core/user"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

type (
	// Room is the single shared chat room. Every connected Client is a
	// member; a Broadcast reaches all of them, the sender included.
	Room struct {
		mu      sync.RWMutex
		clients map[*Client]bool
		logger  core.Logger
	}

	Client struct {
		conn *websocket.Conn
		send chan []byte
		usr  user.User
		room *Room

		closeOnce sync.Once
	}
)

func NewRoom(logger core.Logger) *Room {
	return &Room{
		clients: make(map[*Client]bool),
		logger:  logger,
	}
}

func (r *Room) Join(conn *websocket.Conn, usr user.User) *Client {
	client := &Client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		usr:  usr,
		room: r,
	}

	r.mu.Lock()
	r.clients[client] = true
	r.mu.Unlock()

	go client.writePump()
	return client
}

func (r *Room) Leave(client *Client) {
	r.mu.Lock()
	_, ok := r.clients[client]
	delete(r.clients, client)
	r.mu.Unlock()

	if ok {
		client.close()
		r.logger.Info(fmt.Sprintf("chat: %s left the room", client.usr.Email))
	}
}

// Broadcast sends v to every member. A member whose send buffer is full
// cannot keep up and is dropped from the room.
func (r *Room) Broadcast(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		r.logger.Error(fmt.Sprintf("chat: marshaling broadcast: %v", err), err)
		return
	}

	r.mu.RLock()
	clients := make([]*Client, 0, len(r.clients))
	for client := range r.clients {
		clients = append(clients, client)
	}
	r.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- payload:
		default: // slow consumer
			r.Leave(client)
		}
	}
}

// Len reports the current number of members.
func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

func (r *Room) CloseAll() {
	r.mu.Lock()
	clients := make([]*Client, 0, len(r.clients))
	for client := range r.clients {
		clients = append(clients, client)
	}
	r.clients = make(map[*Client]bool)
	r.mu.Unlock()

	for _, client := range clients {
		client.close()
	}
}

// Send queues v for this client only; used for direct replies such as
// the history replay. The error is best-effort: a full buffer drops the
// payload.
func (c *Client) Send(v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case c.send <- payload:
		return nil
	default:
		return fmt.Errorf("chat: send buffer full for %s", c.usr.Email)
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
