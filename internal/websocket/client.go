package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Client is one websocket connection, a member of exactly one group. The
// read pump handles inbound messages on its own goroutine so a slow store
// call never stalls other connections.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	group string

	// roomCode is set for room-group clients, empty for standalone sessions.
	roomCode string
}

func NewRoomClient(hub *Hub, conn *websocket.Conn, roomCode string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		group:    RoomGroup(roomCode),
		roomCode: roomCode,
	}
}

func NewStandaloneClient(hub *Hub, conn *websocket.Conn, sessionID string) *Client {
	return &Client{
		hub:   hub,
		conn:  conn,
		send:  make(chan []byte, 256),
		group: StandaloneGroup(sessionID),
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Leave(c.group, c)
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("invalid message")
			continue
		}

		// Standalone sessions only listen; rooms drive the game.
		if c.roomCode == "" {
			continue
		}

		c.dispatch(&msg)
	}
}

// dispatch runs one message through the hub. A panic in handling becomes an
// error event on this connection only; the connection and the rest of the
// room stay up.
func (c *Client) dispatch(msg *ClientMessage) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("panic handling %s message: %v", msg.Type, r)
			c.sendError("internal error")
		}
	}()

	c.hub.handleMessage(context.Background(), c, msg)
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue drops the message if the client's buffer is full rather than block
// a broadcast on one slow reader.
func (c *Client) enqueue(data []byte) {
	defer func() {
		// The send channel closes when the read pump exits; losing the race
		// against a disconnecting client is fine.
		recover()
	}()

	select {
	case c.send <- data:
	default:
		log.Printf("dropping message to slow client in %s", c.group)
	}
}

// SendInitialState pushes the connect-time snapshot to this client alone.
func (c *Client) SendInitialState(state *RoomStateMessage) {
	c.sendJSON(state)
}

func (c *Client) sendJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to marshal message: %v", err)
		return
	}
	c.enqueue(data)
}

func (c *Client) sendError(message string) {
	c.sendJSON(NewErrorMessage(message))
}
