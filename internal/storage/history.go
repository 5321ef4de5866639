// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for chat history.
package storage

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/bioterm/bioterm/internal/backend"
	"github.com/bioterm/bioterm/internal/model"
)

// HistoryKey is the fixed storage key holding the serialized turn sequence.
const HistoryKey = "chat_history"

// MaxContextMessages is the bound on the context window sent to the backend:
// at most this many of the most recent turns accompany each request.
const MaxContextMessages = 20

// =============================================================================
// STORED MESSAGE TYPE
// =============================================================================

// storedMessage is the persisted form of one turn.
type storedMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsHTML    bool      `json:"is_html,omitempty"`
}

// =============================================================================
// HISTORY STORE
// =============================================================================

// History couples an in-memory conversation with its persisted mirror. The
// conversation is the source of truth; every mutation synchronously rewrites
// the stored copy under HistoryKey before returning.
type History struct {
	kv   *KV
	conv *model.Conversation
}

// NewHistory creates a history store over the given key-value store,
// restoring any previously persisted conversation.
func NewHistory(kv *KV) *History {
	h := &History{kv: kv}
	h.conv = h.Restore()
	return h
}

// Conversation returns the in-memory conversation.
func (h *History) Conversation() *model.Conversation {
	return h.conv
}

// =============================================================================
// RESTORE
// =============================================================================

// Restore loads the persisted turn sequence. It fails soft: a missing key,
// a storage error, or unparseable JSON all yield an empty conversation.
func (h *History) Restore() *model.Conversation {
	conv := model.NewConversation()
	h.conv = conv

	raw, err := h.kv.Get(HistoryKey)
	if err != nil {
		return conv
	}

	var stored []storedMessage
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return conv
	}

	for _, sm := range stored {
		role := model.Role(sm.Role)
		if !role.Persistable() {
			continue
		}
		conv.AddMessage(&model.Message{
			ID:        sm.ID,
			Role:      role,
			Content:   sm.Content,
			Timestamp: sm.Timestamp,
			IsHTML:    sm.IsHTML,
		})
	}

	return conv
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Append adds the message to the conversation and synchronously persists
// the full sequence. The in-memory state is updated even when the write
// fails; the returned error is informational.
func (h *History) Append(msg *model.Message) error {
	h.conv.AddMessage(msg)
	if !msg.Role.Persistable() {
		return nil
	}
	return h.persist()
}

// Clear empties the in-memory conversation and removes the persisted copy.
func (h *History) Clear() error {
	h.conv.ClearHistory()
	return h.kv.Delete(HistoryKey)
}

// persist writes the full persisted-role sequence under HistoryKey.
func (h *History) persist() error {
	persisted := h.conv.PersistedHistory()
	stored := make([]storedMessage, 0, len(persisted))
	for _, msg := range persisted {
		stored = append(stored, storedMessage{
			ID:        msg.ID,
			Role:      msg.Role.String(),
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
			IsHTML:    msg.IsHTML,
		})
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return h.kv.Set(HistoryKey, string(data))
}

// =============================================================================
// CONTEXT WINDOW
// =============================================================================

// ContextWindow returns the last MaxContextMessages user/assistant turns in
// original order, ready to send to the backend. It does not mutate state.
func (h *History) ContextWindow() []backend.Message {
	return h.conv.ToBackendMessages(MaxContextMessages)
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportMarkdown renders the persisted history as a markdown document.
func (h *History) ExportMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# Chat history\n\n")
	sb.WriteString("Exported: " + time.Now().Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range h.conv.PersistedHistory() {
		sb.WriteString("**" + msg.Role.DisplayName() + "** (" + msg.Timestamp.Format("2006-01-02 15:04") + "):\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String()
}
