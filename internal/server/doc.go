// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server implements a local stub backend for development.
//
// Endpoints:
//   - POST /chat   - chat endpoint returning {reply} and/or {html}
//   - GET  /health - health check
//
// The stub answers with canned replies and HTML fragments so the terminal
// client can be exercised without a real analysis backend.
package server
