package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dom/truth-dare-game/internal/websocket"
	gorillaWS "github.com/gorilla/websocket"
)

// WSMessage is a received server message: the envelope type plus the raw
// bytes for per-type decoding.
type WSMessage struct {
	Type string
	Raw  json.RawMessage
}

// Decode unmarshals the raw message into out
func (m *WSMessage) Decode(t *testing.T, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(m.Raw, out); err != nil {
		t.Fatalf("failed to decode %s message: %v", m.Type, err)
	}
}

// WSClient is a test WebSocket client
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *WSMessage
	errors   chan error
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan *WSMessage, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// readPump reads messages from the WebSocket connection
func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		select {
		case <-c.done:
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				select {
				case <-c.done:
					return
				case c.errors <- err:
				}
				return
			}

			var envelope struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(data, &envelope); err != nil {
				c.errors <- err
				continue
			}

			msg := &WSMessage{Type: envelope.Type, Raw: data}
			select {
			case c.messages <- msg:
			case <-c.done:
				return
			}
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

// Send writes an arbitrary JSON message to the server
func (c *WSClient) Send(msg interface{}) {
	c.t.Helper()

	data, err := json.Marshal(msg)
	if err != nil {
		c.t.Fatalf("failed to marshal message: %v", err)
	}

	c.mu.Lock()
	err = c.conn.WriteMessage(gorillaWS.TextMessage, data)
	c.mu.Unlock()

	if err != nil {
		c.t.Fatalf("failed to send message: %v", err)
	}
}

// JoinRoom sends a join_room message
func (c *WSClient) JoinRoom(playerID string) {
	c.Send(websocket.ClientMessage{
		Type:     websocket.MessageTypeJoinRoom,
		PlayerID: playerID,
	})
}

// StartGame sends a start_game message
func (c *WSClient) StartGame() {
	c.Send(websocket.ClientMessage{Type: websocket.MessageTypeStartGame})
}

// GetState sends a get_state message
func (c *WSClient) GetState() {
	c.Send(websocket.ClientMessage{Type: websocket.MessageTypeGetState})
}

// Choose sends a choose_truth_dare message
func (c *WSClient) Choose(playerID, choice string) {
	c.Send(websocket.ClientMessage{
		Type:     websocket.MessageTypeChooseTruthDare,
		PlayerID: playerID,
		Choice:   choice,
	})
}

// SubmitAnswer sends a submit_answer message
func (c *WSClient) SubmitAnswer(playerID, answerText string) {
	c.Send(websocket.ClientMessage{
		Type:       websocket.MessageTypeSubmitAnswer,
		PlayerID:   playerID,
		AnswerText: answerText,
	})
}

// NextMessage waits for the very next message, whatever its type
func (c *WSClient) NextMessage(timeout time.Duration) *WSMessage {
	c.t.Helper()

	select {
	case msg := <-c.messages:
		if msg == nil {
			c.t.Fatal("connection closed while waiting for a message")
		}
		return msg
	case err := <-c.errors:
		c.t.Fatalf("error while waiting for a message: %v", err)
	case <-time.After(timeout):
		c.t.Fatal("timeout waiting for a message")
	}
	return nil
}

// ExpectMessage waits for a message of the specified type, skipping others
func (c *WSClient) ExpectMessage(msgType string, timeout time.Duration) *WSMessage {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				c.t.Fatalf("connection closed while waiting for %s", msgType)
			}
			if msg.Type == msgType {
				return msg
			}
		case err := <-c.errors:
			c.t.Fatalf("error while waiting for %s: %v", msgType, err)
		case <-deadline:
			c.t.Fatalf("timeout waiting for message type %s", msgType)
		}
	}
}

// ExpectRoomState waits for and decodes a room_state message
func (c *WSClient) ExpectRoomState(timeout time.Duration) *websocket.RoomStateMessage {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeRoomState, timeout)

	var state websocket.RoomStateMessage
	msg.Decode(c.t, &state)
	return &state
}

// ExpectQuestionSent waits for and decodes a question_sent message
func (c *WSClient) ExpectQuestionSent(timeout time.Duration) *websocket.QuestionSentMessage {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeQuestionSent, timeout)

	var sent websocket.QuestionSentMessage
	msg.Decode(c.t, &sent)
	return &sent
}

// ExpectAnswerSubmitted waits for and decodes an answer_submitted message
func (c *WSClient) ExpectAnswerSubmitted(timeout time.Duration) *websocket.AnswerSubmittedMessage {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeAnswerSubmitted, timeout)

	var submitted websocket.AnswerSubmittedMessage
	msg.Decode(c.t, &submitted)
	return &submitted
}

// ExpectInjectedQuestion waits for and decodes an admin_question_injected message
func (c *WSClient) ExpectInjectedQuestion(timeout time.Duration) *websocket.AdminQuestionInjectedMessage {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeAdminQuestionInjected, timeout)

	var injected websocket.AdminQuestionInjectedMessage
	msg.Decode(c.t, &injected)
	return &injected
}

// ExpectError waits for and decodes an error message
func (c *WSClient) ExpectError(timeout time.Duration) *websocket.ErrorMessage {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeError, timeout)

	var errMsg websocket.ErrorMessage
	msg.Decode(c.t, &errMsg)
	return &errMsg
}

// ExpectNoMessage verifies no messages arrive within the timeout
func (c *WSClient) ExpectNoMessage(timeout time.Duration) {
	c.t.Helper()

	select {
	case msg := <-c.messages:
		if msg != nil {
			c.t.Fatalf("unexpected message received: %s", msg.Type)
		}
	case <-time.After(timeout):
	}
}

// DrainMessages drains buffered messages, waiting for the channel to settle
func (c *WSClient) DrainMessages() {
	deadline := time.After(100 * time.Millisecond)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				return
			}
			deadline = time.After(50 * time.Millisecond)
		case <-deadline:
			return
		case <-c.done:
			return
		}
	}
}
