// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides argument parsing and the non-TUI command handlers:
// one-shot questions, status checks, configuration, and history management.
package cli
