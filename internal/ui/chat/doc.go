// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the interactive chat view for the bioterm TUI.
//
// The view is a Bubble Tea model wrapping a viewport (transcript), a text
// input, and a status bar. Sending is single-flight: while a reply is
// pending the view is in StateAwaitingReply and further submissions are
// ignored until the response, success or failure, arrives. Clearing the
// history abandons any pending cycle; a reply from before the clear is
// discarded. Request failures surface as local system notices in the
// transcript and are never persisted to history.
package chat
