// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// A Message is one turn of the conversation, attributed to the user, the
// assistant, or the system. Messages are immutable once created and are only
// ever appended to a Conversation. System messages are local UI notices
// (connection errors, cleared-history confirmations); they are never
// persisted and never sent to the backend.
package model
