// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the bioterm TUI: the
// header, the bottom status bar, and the waiting spinner shown while a
// reply is pending.
package components
