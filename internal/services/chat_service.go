package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/models"
	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/repository"
)

var (
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrUserNotFound = errors.New("user not found")
)

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type ChatService struct {
	db               *pgxpool.Pool
	conversationRepo *repository.ConversationRepository
	messageRepo      *repository.MessageRepository
	userRepo         userReader
}

// ChatDelivery is the result of a durable send: the stored message plus
// the receiver the live notification should go to.
type ChatDelivery struct {
	Conversation *models.Conversation
	Message      *models.ChatMessage
	ReceiverID   int64
}

func NewChatService(
	db *pgxpool.Pool,
	conversationRepo *repository.ConversationRepository,
	messageRepo *repository.MessageRepository,
	userRepo userReader,
) *ChatService {
	return &ChatService{
		db:               db,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
	}
}

func (s *ChatService) ListConversations(
	ctx context.Context,
	actorID int64,
	role string,
) ([]models.ConversationSummary, error) {
	if !models.ValidRole(role) {
		return nil, ErrForbidden
	}

	return s.conversationRepo.ListForParticipant(ctx, actorID)
}

// GetPartner resolves a user into the partner shape the conversation
// view needs, used when deep-linking to a partner with no history yet.
func (s *ChatService) GetPartner(ctx context.Context, partnerID int64) (*models.User, error) {
	if partnerID <= 0 {
		return nil, ErrInvalidInput
	}

	partner, err := s.userRepo.GetByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return partner, nil
}

// ListMessages returns one ascending page of the actor's history with a
// partner and marks the fetched partner messages read. Page 1 is the
// most recent window; the slice is always ordered oldest to newest. A
// partner with no conversation yet yields an empty page, not an error.
func (s *ChatService) ListMessages(
	ctx context.Context,
	actorID int64,
	role string,
	partnerID int64,
	page int,
	limit int,
) ([]models.ChatMessage, int, error) {
	if !models.ValidRole(role) {
		return nil, 0, ErrForbidden
	}
	if partnerID <= 0 || partnerID == actorID || page <= 0 || limit <= 0 {
		return nil, 0, ErrInvalidInput
	}

	conversation, err := s.conversationRepo.GetByPair(ctx, actorID, partnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []models.ChatMessage{}, 0, nil
		}
		return nil, 0, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMessageRepo := repository.NewMessageRepository(tx)

	total, err := txMessageRepo.CountByConversation(ctx, conversation.ID)
	if err != nil {
		return nil, 0, err
	}

	// Page 1 ends at the newest message; earlier pages walk backwards.
	offset := total - page*limit
	window := limit
	if offset < 0 {
		window += offset
		offset = 0
	}
	if window <= 0 {
		if err := tx.Commit(ctx); err != nil {
			return nil, 0, err
		}
		return []models.ChatMessage{}, total, nil
	}

	messages, err := txMessageRepo.ListByConversation(ctx, conversation.ID, window, offset)
	if err != nil {
		return nil, 0, err
	}

	messageIDs := make([]int64, 0, len(messages))
	for _, message := range messages {
		messageIDs = append(messageIDs, message.ID)
	}

	if err := txMessageRepo.MarkMessagesRead(ctx, messageIDs, actorID); err != nil {
		return nil, 0, err
	}

	for i := range messages {
		if messages[i].SenderID != actorID {
			messages[i].IsRead = true
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// SendMessage durably stores a message for a receiver, creating the
// conversation on first contact. The live notification is the caller's
// job and must only happen after this returns successfully.
func (s *ChatService) SendMessage(
	ctx context.Context,
	actorID int64,
	role string,
	receiverID int64,
	content string,
) (*ChatDelivery, error) {
	if !models.ValidRole(role) {
		return nil, ErrForbidden
	}
	if receiverID <= 0 || receiverID == actorID {
		return nil, ErrInvalidInput
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txConversationRepo := repository.NewConversationRepository(tx)
	txMessageRepo := repository.NewMessageRepository(tx)

	conversation, err := txConversationRepo.GetOrCreateByPair(ctx, actorID, receiverID)
	if err != nil {
		return nil, err
	}

	message, err := txMessageRepo.Create(ctx, conversation.ID, actorID, trimmed)
	if err != nil {
		return nil, err
	}

	if err := txConversationRepo.Touch(ctx, conversation.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &ChatDelivery{
		Conversation: conversation,
		Message:      message,
		ReceiverID:   receiverID,
	}, nil
}

func FormatChatTimestamp(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}
