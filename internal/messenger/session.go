package messenger

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/models"
)

var (
	ErrEmptyMessage   = errors.New("message content is empty")
	ErrNoConversation = errors.New("no conversation selected")
)

// Transport is the live channel beneath a session: one persistent
// connection that delivers pushed events and carries the post-send
// notification. Inbound events reach the session through its
// HandleMessage / HandlePresence methods.
type Transport interface {
	Connect(ctx context.Context) error
	SendEvent(receiverID int64, message models.ChatMessage) error
	Close() error
}

// Session is one user's messaging state: the conversation cache, the
// presence set, at most one selected conversation and the compose
// draft. Sends are pessimistic — the draft is only cleared after the
// server has accepted the message, and the live notification is only
// emitted for an accepted message.
type Session struct {
	userID    int64
	api       API
	transport Transport
	store     *Store
	presence  *PresenceTracker
	log       *logrus.Entry

	mu       sync.Mutex
	selected *models.ConversationSummary
	draft    string
}

func NewSession(userID int64, api API, transport Transport) *Session {
	return &Session{
		userID:    userID,
		api:       api,
		transport: transport,
		store:     NewStore(api),
		presence:  NewPresenceTracker(),
		log:       logrus.WithFields(logrus.Fields{"component": "messenger", "user_id": userID}),
	}
}

// Start opens the live connection. The server announces this user's
// presence to peers as a side effect of connecting.
func (s *Session) Start(ctx context.Context) error {
	return s.transport.Connect(ctx)
}

func (s *Session) Close() error {
	return s.transport.Close()
}

func (s *Session) Store() *Store { return s.store }

func (s *Session) Conversations(ctx context.Context) ([]models.ConversationSummary, error) {
	return s.store.Conversations(ctx)
}

// Select makes conversation the active one and loads its history.
func (s *Session) Select(ctx context.Context, conversation models.ConversationSummary) ([]models.ChatMessage, error) {
	s.mu.Lock()
	s.selected = &conversation
	s.mu.Unlock()

	return s.store.Messages(ctx, conversation.Partner.ID)
}

// Open deep-links straight to a partner. If the partner has no
// conversation yet, a placeholder summary with no last message and a
// zero unread count is synthesized so the view has something to select.
func (s *Session) Open(ctx context.Context, partnerID int64) (*models.ConversationSummary, []models.ChatMessage, error) {
	conversations, err := s.store.Conversations(ctx)
	if err != nil {
		return nil, nil, err
	}

	var selected *models.ConversationSummary
	for i := range conversations {
		if conversations[i].Partner.ID == partnerID {
			selected = &conversations[i]
			break
		}
	}

	if selected == nil {
		partner, err := s.api.GetPartner(ctx, partnerID)
		if err != nil {
			return nil, nil, err
		}
		selected = &models.ConversationSummary{Partner: *partner}
	}

	messages, err := s.Select(ctx, *selected)
	if err != nil {
		return nil, nil, err
	}
	return selected, messages, nil
}

func (s *Session) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

func (s *Session) Current() *models.ConversationSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	copied := *s.selected
	return &copied
}

func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Send persists the current draft to the selected partner. On success
// the draft is cleared, both caches are invalidated so unread counts
// and previews reconcile against the server, and one live notification
// is emitted for the created message. On failure the draft is left
// untouched and nothing is emitted.
func (s *Session) Send(ctx context.Context) (*models.ChatMessage, error) {
	s.mu.Lock()
	selected := s.selected
	content := strings.TrimSpace(s.draft)
	s.mu.Unlock()

	if selected == nil {
		return nil, ErrNoConversation
	}
	if content == "" {
		return nil, ErrEmptyMessage
	}

	message, err := s.api.SendMessage(ctx, selected.Partner.ID, content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.draft = ""
	s.mu.Unlock()

	s.store.InvalidateMessages(selected.Partner.ID)
	s.store.InvalidateConversations()

	if err := s.transport.SendEvent(selected.Partner.ID, *message); err != nil {
		// The message is already durable; the receiver catches up on
		// their next fetch.
		s.log.WithError(err).Warn("send live notification")
	}

	return message, nil
}

// HandleMessage is the inbound push handler. A message from the
// currently selected partner is appended straight into the cached list;
// every push marks the conversation list stale so previews and unread
// counts refresh.
func (s *Session) HandleMessage(message models.ChatMessage) {
	s.mu.Lock()
	selected := s.selected
	s.mu.Unlock()

	if selected != nil && message.SenderID == selected.Partner.ID {
		s.store.AppendMessage(selected.Partner.ID, message)
	}

	s.store.InvalidateConversations()
}

func (s *Session) HandlePresence(userID int64, online bool) {
	s.presence.Set(userID, online)
}

func (s *Session) IsOnline(userID int64) bool {
	return s.presence.IsOnline(userID)
}
