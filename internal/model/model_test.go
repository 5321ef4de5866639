// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "Assistant"},
		{RoleSystem, "System"},
		{Role("tool"), "tool"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.role.DisplayName())
	}
}

func TestRole_Persistable(t *testing.T) {
	assert.True(t, RoleUser.Persistable())
	assert.True(t, RoleAssistant.Persistable())
	assert.False(t, RoleSystem.Persistable(), "system turns are local-only")
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "hello", msg.Content)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.Timestamp.IsZero())
	assert.False(t, msg.IsHTML)

	other := NewUserMessage("hello")
	assert.NotEqual(t, msg.ID, other.ID, "IDs must be unique")
}

func TestNewAssistantHTMLMessage(t *testing.T) {
	msg := NewAssistantHTMLMessage("<p>hi</p>")
	assert.Equal(t, RoleAssistant, msg.Role)
	assert.True(t, msg.IsHTML)
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("a somewhat longer message body")
	assert.Equal(t, "a somewhat longer message body", msg.Preview(100))
	assert.Equal(t, "a somew...", msg.Preview(10))

	// Unicode must truncate on rune boundaries.
	cjk := NewUserMessage("基因組學研究進展報告")
	assert.Equal(t, "基因組學研究進展報告", cjk.Preview(10))
	assert.Equal(t, "基因...", cjk.Preview(5))
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_AppendAndHistory(t *testing.T) {
	conv := NewConversation()
	require.True(t, conv.IsEmpty())

	conv.AddUserMessage("q1")
	conv.AddAssistantMessage("a1")
	conv.AddSystemMessage("notice")

	assert.Equal(t, 3, conv.MessageCount())
	assert.Len(t, conv.GetHistory(), 3)

	persisted := conv.PersistedHistory()
	require.Len(t, persisted, 2, "system turns are excluded from persisted history")
	assert.Equal(t, "q1", persisted[0].Content)
	assert.Equal(t, "a1", persisted[1].Content)
}

func TestConversation_GetLastAssistantMessage(t *testing.T) {
	conv := NewConversation()
	assert.Nil(t, conv.GetLastAssistantMessage())

	conv.AddUserMessage("q")
	conv.AddAssistantMessage("first")
	conv.AddAssistantMessage("second")
	conv.AddSystemMessage("notice")

	last := conv.GetLastAssistantMessage()
	require.NotNil(t, last)
	assert.Equal(t, "second", last.Content)
}

func TestConversation_ClearHistory(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("q")
	conv.ClearHistory()
	assert.True(t, conv.IsEmpty())
}

func TestConversation_ToBackendMessages(t *testing.T) {
	conv := NewConversation()
	for i := 0; i < 15; i++ {
		conv.AddUserMessage("q")
		conv.AddAssistantMessage("a")
	}
	conv.AddSystemMessage("local notice")

	// Unbounded keeps all persistable turns.
	all := conv.ToBackendMessages(0)
	assert.Len(t, all, 30)

	// Bounded keeps the most recent turns in original order.
	windowed := conv.ToBackendMessages(20)
	require.Len(t, windowed, 20)
	assert.Equal(t, "assistant", windowed[len(windowed)-1].Role)
	assert.Equal(t, "user", windowed[0].Role)

	// System content never crosses the wire.
	for _, msg := range windowed {
		assert.NotEqual(t, "system", msg.Role)
	}
}

func TestConversation_Preview(t *testing.T) {
	conv := NewConversation()
	assert.Equal(t, "Empty conversation", conv.Preview())

	conv.AddSystemMessage("notice")
	conv.AddUserMessage("what is a SNP?")
	assert.Equal(t, "what is a SNP?", conv.Preview())
}
