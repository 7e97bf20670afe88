package chatws

import (
	"encoding/json"
	"strconv"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/models"
	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/services"
)

const (
	EventMessage     = "message"
	EventUserOnline  = "user-online"
	EventUserOffline = "user-offline"
	EventError       = "error"
)

// Event is the frame exchanged over the live channel. A message event
// carries the already-persisted message; the hub never stores anything.
type Event struct {
	Type       string              `json:"type"`
	UserID     string              `json:"user_id,omitempty"`
	ReceiverID string              `json:"receiver_id,omitempty"`
	Message    *models.ChatMessage `json:"message,omitempty"`
	Content    string              `json:"content,omitempty"`
	Timestamp  string              `json:"timestamp,omitempty"`
}

type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Event
	log        *logrus.Entry
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Event, 64),
		log:        logrus.WithField("component", "chat_hub"),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			if len(set) == 1 {
				// First connection for this user: everyone learns they
				// came online.
				h.sendToAll(&Event{Type: EventUserOnline, UserID: client.userID})
			}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
				h.sendToAll(&Event{Type: EventUserOffline, UserID: client.userID})
			}
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) deliver(event *Event) {
	encoded, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).Error("encode event")
		return
	}

	switch event.Type {
	case EventMessage:
		h.sendToUser(event.ReceiverID, encoded)
	case EventUserOnline, EventUserOffline:
		h.sendToAllEncoded(encoded)
	}
}

func (h *Hub) sendToAll(event *Event) {
	encoded, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).Error("encode event")
		return
	}
	h.sendToAllEncoded(encoded)
}

func (h *Hub) sendToAllEncoded(payload []byte) {
	for userID := range h.clients {
		h.sendToUser(userID, payload)
	}
}

func (h *Hub) sendToUser(userID string, payload []byte) {
	set, ok := h.clients[userID]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, userID)
	}
}

// ReadPump forwards post-send notifications. Delivery is best effort on
// top of durable storage, so a frame whose message was never persisted
// has no business here: the sender id must match the connection's user.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming Event
		if err := json.Unmarshal(payload, &incoming); err != nil {
			writeError(c, "invalid event payload")
			continue
		}
		if incoming.Type != EventMessage {
			writeError(c, "unsupported event type")
			continue
		}
		if incoming.Message == nil || incoming.Message.ID <= 0 {
			writeError(c, "missing message")
			continue
		}
		if strconv.FormatInt(incoming.Message.SenderID, 10) != c.userID {
			writeError(c, "sender mismatch")
			continue
		}
		receiverID, err := strconv.ParseInt(incoming.ReceiverID, 10, 64)
		if err != nil || receiverID <= 0 {
			writeError(c, "invalid receiver id")
			continue
		}

		c.hub.broadcast <- &Event{
			Type:       EventMessage,
			ReceiverID: incoming.ReceiverID,
			Message:    incoming.Message,
			Timestamp:  services.FormatChatTimestamp(incoming.Message.CreatedAt),
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func writeError(client *Client, message string) {
	payload, err := json.Marshal(Event{
		Type:      EventError,
		Content:   message,
		Timestamp: services.FormatChatTimestamp(time.Now().UTC()),
	})
	if err != nil {
		return
	}
	select {
	case client.send <- payload:
	default:
		client.hub.Unregister(client)
	}
}
