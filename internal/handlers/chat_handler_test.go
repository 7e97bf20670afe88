package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/models"
	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/services"
	chatws "github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/websocket"
)

type stubChatService struct {
	conversationsResult []models.ConversationSummary
	conversationsErr    error
	messagesResult      []models.ChatMessage
	messagesTotal       int
	messagesErr         error
	sendResult          *services.ChatDelivery
	sendErr             error
	partnerResult       *models.User
	partnerErr          error
	lastActorID         int64
	lastRole            string
	lastPartnerID       int64
	lastReceiverID      int64
	lastContent         string
	lastPage            int
	lastLimit           int
}

func (s *stubChatService) ListConversations(_ context.Context, actorID int64, role string) ([]models.ConversationSummary, error) {
	s.lastActorID = actorID
	s.lastRole = role
	return s.conversationsResult, s.conversationsErr
}

func (s *stubChatService) ListMessages(_ context.Context, actorID int64, role string, partnerID int64, page int, limit int) ([]models.ChatMessage, int, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastPartnerID = partnerID
	s.lastPage = page
	s.lastLimit = limit
	return s.messagesResult, s.messagesTotal, s.messagesErr
}

func (s *stubChatService) SendMessage(_ context.Context, actorID int64, role string, receiverID int64, content string) (*services.ChatDelivery, error) {
	s.lastActorID = actorID
	s.lastRole = role
	s.lastReceiverID = receiverID
	s.lastContent = content
	return s.sendResult, s.sendErr
}

func (s *stubChatService) GetPartner(_ context.Context, partnerID int64) (*models.User, error) {
	s.lastPartnerID = partnerID
	return s.partnerResult, s.partnerErr
}

func chatTestApp(service chatApplicationService, role, userID string) *fiber.App {
	handler := NewChatHandler(service, chatws.NewHub(), "secret")

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("role", role)
		c.Locals("user_id", userID)
		return c.Next()
	})
	app.Get("/api/v1/conversations", handler.ListConversations)
	app.Get("/api/v1/conversations/:partnerId/messages", handler.GetMessages)
	app.Post("/api/v1/messages", handler.SendMessage)
	app.Get("/api/v1/users/:id", handler.GetPartner)
	return app
}

func TestListConversationsReturnsSummaries(t *testing.T) {
	service := &stubChatService{
		conversationsResult: []models.ConversationSummary{
			{
				Partner: models.Partner{ID: 8, Name: "Jean Bosco", Role: models.RoleTrainer},
				LastMessage: &models.ChatMessage{
					ID:        3,
					SenderID:  8,
					Content:   "See you tomorrow",
					CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
				},
				UnreadCount: 2,
			},
		},
	}
	app := chatTestApp(service, models.RoleLearner, "42")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastActorID != 42 || service.lastRole != models.RoleLearner {
		t.Fatalf("unexpected actor context: %d %q", service.lastActorID, service.lastRole)
	}

	var body struct {
		Conversations []models.ConversationSummary `json:"conversations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Conversations) != 1 || body.Conversations[0].UnreadCount != 2 {
		t.Fatalf("unexpected response: %+v", body.Conversations)
	}
	if body.Conversations[0].Partner.Name != "Jean Bosco" {
		t.Fatalf("unexpected partner: %+v", body.Conversations[0].Partner)
	}
}

func TestGetMessagesForwardsPartnerAndPagination(t *testing.T) {
	service := &stubChatService{
		messagesResult: []models.ChatMessage{
			{ID: 5, ConversationID: 11, SenderID: 7, Content: "Hi", CreatedAt: time.Now().UTC()},
		},
		messagesTotal: 120,
	}
	app := chatTestApp(service, models.RoleTrainer, "7")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations/42/messages?page=2&limit=5", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastPartnerID != 42 || service.lastPage != 2 || service.lastLimit != 5 {
		t.Fatalf("unexpected forwarded args: partner=%d page=%d limit=%d", service.lastPartnerID, service.lastPage, service.lastLimit)
	}

	var body struct {
		Messages   []models.ChatMessage  `json:"messages"`
		Pagination models.PaginationMeta `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Messages) != 1 || body.Pagination.Total != 120 || body.Pagination.TotalPages != 24 {
		t.Fatalf("unexpected response body: %+v %+v", body.Messages, body.Pagination)
	}
}

func TestSendMessageReturnsCreatedMessage(t *testing.T) {
	service := &stubChatService{
		sendResult: &services.ChatDelivery{
			Message:    &models.ChatMessage{ID: 9, ConversationID: 4, SenderID: 42, Content: "Hello"},
			ReceiverID: 8,
		},
	}
	app := chatTestApp(service, models.RoleLearner, "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"receiver_id":8,"content":"Hello"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastReceiverID != 8 || service.lastContent != "Hello" {
		t.Fatalf("unexpected forwarded send: receiver=%d content=%q", service.lastReceiverID, service.lastContent)
	}

	var body struct {
		Message models.ChatMessage `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Message.ID != 9 {
		t.Fatalf("unexpected message in response: %+v", body.Message)
	}
}

func TestSendMessageEmptyContentIsBadRequest(t *testing.T) {
	service := &stubChatService{sendErr: services.ErrInvalidInput}
	app := chatTestApp(service, models.RoleLearner, "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"receiver_id":8,"content":"   "}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSendMessageUnknownReceiverIsNotFound(t *testing.T) {
	service := &stubChatService{sendErr: services.ErrUserNotFound}
	app := chatTestApp(service, models.RoleLearner, "42")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"receiver_id":999,"content":"Hello"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetPartnerReturnsProfile(t *testing.T) {
	service := &stubChatService{
		partnerResult: &models.User{ID: 8, Name: "Jean Bosco", Email: "jean@example.com", Role: models.RoleTrainer},
	}
	app := chatTestApp(service, models.RoleLearner, "42")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/8", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		User struct {
			ID    int64  `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.User.ID != 8 || body.User.Role != models.RoleTrainer {
		t.Fatalf("unexpected user payload: %+v", body.User)
	}
}
