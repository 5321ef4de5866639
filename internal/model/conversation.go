// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/bioterm/bioterm/internal/backend"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an ordered chat history. Insertion order is
// chronological order; messages are append-only.
type Conversation struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []*Message `json:"messages"`
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message to the conversation.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// AddUserMessage creates and appends a user message.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and appends an assistant message.
func (c *Conversation) AddAssistantMessage(content string) *Message {
	msg := NewAssistantMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddSystemMessage creates and appends a local system message.
func (c *Conversation) AddSystemMessage(content string) *Message {
	msg := NewSystemMessage(content)
	c.AddMessage(msg)
	return msg
}

// GetLastMessage returns the most recent message, or nil if empty.
func (c *Conversation) GetLastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// GetLastAssistantMessage returns the most recent assistant message.
func (c *Conversation) GetLastAssistantMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i]
		}
	}
	return nil
}

// ClearHistory removes all messages from the conversation.
func (c *Conversation) ClearHistory() {
	c.Messages = make([]*Message, 0)
	c.UpdatedAt = time.Now()
}

// GetHistory returns the message history for display.
func (c *Conversation) GetHistory() []*Message {
	return c.Messages
}

// PersistedHistory returns only the messages that belong in stored history
// (user and assistant turns, in order).
func (c *Conversation) PersistedHistory() []*Message {
	out := make([]*Message, 0, len(c.Messages))
	for _, msg := range c.Messages {
		if msg.Role.Persistable() {
			out = append(out, msg)
		}
	}
	return out
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// =============================================================================
// BACKEND CONVERSION
// =============================================================================

// ToBackendMessages converts the conversation to the backend wire format,
// keeping at most the last limit user/assistant turns in original order.
// System messages are always excluded. A limit of 0 or less means no bound.
func (c *Conversation) ToBackendMessages(limit int) []backend.Message {
	persisted := c.PersistedHistory()
	if limit > 0 && len(persisted) > limit {
		persisted = persisted[len(persisted)-limit:]
	}

	messages := make([]backend.Message, 0, len(persisted))
	for _, msg := range persisted {
		if msg.Content == "" {
			continue
		}
		messages = append(messages, backend.Message{
			Role:    msg.Role.String(),
			Content: msg.Content,
		})
	}
	return messages
}

// Preview returns a short preview of the conversation's first user message.
func (c *Conversation) Preview() string {
	for _, msg := range c.Messages {
		if msg.Role == RoleUser && msg.Content != "" {
			return msg.Preview(80)
		}
	}
	return "Empty conversation"
}
