// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the chat backend.
package backend

// =============================================================================
// WIRE TYPES
// =============================================================================

// Message is one turn in the backend wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewUserMessage creates a user message in wire format.
func NewUserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// NewAssistantMessage creates an assistant message in wire format.
func NewAssistantMessage(content string) Message {
	return Message{Role: "assistant", Content: content}
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Messages []Message `json:"messages"`
}

// ChatResponse is the backend's answer. Both fields are optional; an empty
// field produces no assistant turn.
type ChatResponse struct {
	Reply string `json:"reply,omitempty"`
	HTML  string `json:"html,omitempty"`
}

// HasReply reports whether the response carries a textual reply.
func (r *ChatResponse) HasReply() bool {
	return r != nil && r.Reply != ""
}

// HasHTML reports whether the response carries an HTML payload.
func (r *ChatResponse) HasHTML() bool {
	return r != nil && r.HTML != ""
}
