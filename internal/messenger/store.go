package messenger

import (
	"context"
	"sync"

	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/models"
)

// API is the durable request/response surface the engine consumes. A
// message only counts as delivered once SendMessage has returned it;
// the live channel is a notification layer on top.
type API interface {
	ListConversations(ctx context.Context) ([]models.ConversationSummary, error)
	ListMessages(ctx context.Context, partnerID int64) ([]models.ChatMessage, error)
	SendMessage(ctx context.Context, receiverID int64, content string) (*models.ChatMessage, error)
	GetPartner(ctx context.Context, partnerID int64) (*models.Partner, error)
}

// Store caches conversation summaries and per-partner message lists,
// re-fetching from the API whenever an entry has been invalidated.
// AppendMessage mutates the cache in place so a pushed message shows up
// without a round-trip; the next invalidated read replaces the list
// with the server's canonical copy, which makes appends idempotent with
// respect to a later re-fetch.
type Store struct {
	api API

	mu                 sync.Mutex
	conversations      []models.ConversationSummary
	conversationsValid bool
	messages           map[int64][]models.ChatMessage
	messagesValid      map[int64]bool
}

func NewStore(api API) *Store {
	return &Store{
		api:           api,
		messages:      make(map[int64][]models.ChatMessage),
		messagesValid: make(map[int64]bool),
	}
}

func (s *Store) Conversations(ctx context.Context) ([]models.ConversationSummary, error) {
	s.mu.Lock()
	if s.conversationsValid {
		cached := s.conversations
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	fetched, err := s.api.ListConversations(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.conversations = fetched
	s.conversationsValid = true
	s.mu.Unlock()
	return fetched, nil
}

func (s *Store) Messages(ctx context.Context, partnerID int64) ([]models.ChatMessage, error) {
	s.mu.Lock()
	if s.messagesValid[partnerID] {
		cached := s.messages[partnerID]
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	fetched, err := s.api.ListMessages(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.messages[partnerID] = fetched
	s.messagesValid[partnerID] = true
	s.mu.Unlock()
	return fetched, nil
}

// AppendMessage inserts message into the cached list for partnerID
// without a network call. The list stays non-decreasing in CreatedAt:
// the message is slotted backwards from the tail if an older entry
// arrived late.
func (s *Store) AppendMessage(partnerID int64, message models.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.messages[partnerID]
	pos := len(list)
	for pos > 0 && list[pos-1].CreatedAt.After(message.CreatedAt) {
		pos--
	}

	list = append(list, models.ChatMessage{})
	copy(list[pos+1:], list[pos:])
	list[pos] = message
	s.messages[partnerID] = list
}

// CachedMessages returns the current in-memory list without fetching.
func (s *Store) CachedMessages(partnerID int64) []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages[partnerID]
}

func (s *Store) InvalidateConversations() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversationsValid = false
}

func (s *Store) InvalidateMessages(partnerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messagesValid[partnerID] = false
}
