// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the chat backend.
//
// The backend exposes a single chat endpoint: POST /chat with a JSON body of
// {"messages": [{role, content}, ...]} carrying the bounded context window,
// answered by {"reply": "...", "html": "..."} where either field may be
// absent. The reply field is markdown text; the html field carries
// backend-built markup (result tables, embedded structure viewers).
package backend
