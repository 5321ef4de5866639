// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bioterm/bioterm/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the one-line title bar at the top of the chat view.
type Header struct {
	Title    string
	Subtitle string
	Width    int

	theme *styles.Theme
}

// NewHeader creates the application header.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "bioterm",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetSubtitle sets the secondary text, typically the backend URL.
func (h *Header) SetSubtitle(subtitle string) {
	h.Subtitle = subtitle
}

// SetTheme swaps the theme after a toggle.
func (h *Header) SetTheme(theme *styles.Theme) {
	h.theme = theme
}

// View renders the header line.
func (h *Header) View() string {
	title := h.theme.HeaderTitle.Render(h.Title)
	if h.Subtitle != "" {
		title += " " + h.theme.HeaderSubtitle.Render(h.Subtitle)
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(styles.Overlay).
		Width(h.Width).
		Render(title)
}
