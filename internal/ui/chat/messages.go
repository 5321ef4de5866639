// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// messages.go - Bubble Tea message types for the chat interface.

package chat

import (
	"github.com/bioterm/bioterm/internal/backend"
)

// =============================================================================
// BACKEND MESSAGES
// =============================================================================

// ChatResponseMsg delivers the outcome of a chat request, success or failure.
// Exactly one of Response and Err is set. Seq identifies the conversation
// generation the request was issued against; a response from before a clear
// carries a stale Seq and is discarded.
type ChatResponseMsg struct {
	Response *backend.ChatResponse
	Err      error
	Seq      int
}

// ReachabilityMsg reports the result of the startup connectivity probe.
type ReachabilityMsg struct {
	OK  bool
	Err error
}

// =============================================================================
// UI MESSAGES
// =============================================================================

// noticeExpiredMsg clears a transient status bar notice. Seq guards against
// an old timer clearing a newer notice.
type noticeExpiredMsg struct {
	Seq int
}

// exportedMsg confirms a transcript export.
type exportedMsg struct {
	Path string
	Err  error
}
