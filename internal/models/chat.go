package models

import "time"

// Conversation pairs two users. The lower id is always stored first so a
// pair maps to exactly one row regardless of who opened the conversation.
type Conversation struct {
	ID        int64     `json:"id"`
	UserOneID int64     `json:"user_one_id"`
	UserTwoID int64     `json:"user_two_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PartnerOf returns the participant that is not userID.
func (c *Conversation) PartnerOf(userID int64) int64 {
	if userID == c.UserOneID {
		return c.UserTwoID
	}
	return c.UserOneID
}

type ChatMessage struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderID       int64     `json:"sender_id"`
	Content        string    `json:"content"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationSummary is the conversation-list entry: who the chat is
// with, its latest message (absent for a brand-new conversation) and how
// many of the partner's messages are still unread.
type ConversationSummary struct {
	Partner     Partner      `json:"partner"`
	LastMessage *ChatMessage `json:"last_message,omitempty"`
	UnreadCount int          `json:"unread_count"`
}
