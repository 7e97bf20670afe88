package messenger

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/models"
	chatws "github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/websocket"
)

// EventHandler receives inbound transport events. *Session satisfies it.
type EventHandler interface {
	HandleMessage(message models.ChatMessage)
	HandlePresence(userID int64, online bool)
}

// WSTransport is the gorilla/websocket Transport implementation,
// speaking the hub's event frames. Connection failures are not retried;
// reconnecting is the caller's decision.
type WSTransport struct {
	endpoint string
	token    string
	handler  EventHandler
	log      *logrus.Entry

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWSTransport takes the ws:// or wss:// endpoint of the hub and the
// bearer token identifying this user.
func NewWSTransport(endpoint, token string, handler EventHandler) *WSTransport {
	return &WSTransport{
		endpoint: endpoint,
		token:    token,
		handler:  handler,
		log:      logrus.WithField("component", "ws_transport"),
	}
}

func (t *WSTransport) Connect(ctx context.Context) error {
	target := t.endpoint + "?token=" + url.QueryEscape(t.token)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", t.endpoint, err)
	}

	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()

	go t.readLoop(conn)
	return nil
}

func (t *WSTransport) readLoop(conn *websocket.Conn) {
	for {
		var event chatws.Event
		if err := conn.ReadJSON(&event); err != nil {
			return
		}

		switch event.Type {
		case chatws.EventMessage:
			if event.Message == nil {
				continue
			}
			t.handler.HandleMessage(*event.Message)
		case chatws.EventUserOnline, chatws.EventUserOffline:
			userID, err := strconv.ParseInt(event.UserID, 10, 64)
			if err != nil {
				continue
			}
			t.handler.HandlePresence(userID, event.Type == chatws.EventUserOnline)
		case chatws.EventError:
			t.log.WithField("content", event.Content).Warn("server rejected event")
		}
	}
}

// SendEvent notifies the receiver about an already-persisted message.
func (t *WSTransport) SendEvent(receiverID int64, message models.ChatMessage) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return fmt.Errorf("transport not connected")
	}

	return t.conn.WriteJSON(chatws.Event{
		Type:       chatws.EventMessage,
		ReceiverID: strconv.FormatInt(receiverID, 10),
		Message:    &message,
	})
}

func (t *WSTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}
