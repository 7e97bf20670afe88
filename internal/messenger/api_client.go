package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/models"
)

// RESTClient implements API against the platform's HTTP endpoints.
type RESTClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewRESTClient(baseURL, token string) *RESTClient {
	return &RESTClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: http.DefaultClient,
	}
}

func (c *RESTClient) ListConversations(ctx context.Context) ([]models.ConversationSummary, error) {
	var body struct {
		Conversations []models.ConversationSummary `json:"conversations"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/conversations", nil, &body); err != nil {
		return nil, err
	}
	return body.Conversations, nil
}

func (c *RESTClient) ListMessages(ctx context.Context, partnerID int64) ([]models.ChatMessage, error) {
	var body struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	path := fmt.Sprintf("/api/v1/conversations/%d/messages", partnerID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &body); err != nil {
		return nil, err
	}
	return body.Messages, nil
}

func (c *RESTClient) SendMessage(ctx context.Context, receiverID int64, content string) (*models.ChatMessage, error) {
	payload := map[string]any{
		"receiver_id": receiverID,
		"content":     content,
	}
	var body struct {
		Message *models.ChatMessage `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/messages", payload, &body); err != nil {
		return nil, err
	}
	if body.Message == nil {
		return nil, fmt.Errorf("send message: empty response")
	}
	return body.Message, nil
}

func (c *RESTClient) GetPartner(ctx context.Context, partnerID int64) (*models.Partner, error) {
	var body struct {
		User *models.Partner `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/users/"+strconv.FormatInt(partnerID, 10), nil, &body); err != nil {
		return nil, err
	}
	if body.User == nil {
		return nil, fmt.Errorf("get partner: empty response")
	}
	return body.User, nil
}

func (c *RESTClient) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
