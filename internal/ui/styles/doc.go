// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the bioterm TUI.
// All colors use Lip Gloss AdaptiveColor so the palette adjusts to light
// and dark terminal backgrounds automatically; the theme can also be
// forced to either mode at runtime.
package styles
