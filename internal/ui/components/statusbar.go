// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bioterm/bioterm/internal/ui/styles"
	"github.com/bioterm/bioterm/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusWaiting
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusWaiting:
		return "Waiting..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns a shape indicator for the status, distinct beyond color.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusWaiting:
		return "~"
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "?"
	}
}

// StatusBar is the bottom status bar: connection state on the left,
// transient notices in the middle, shortcuts on the right.
type StatusBar struct {
	Status        Status
	BackendURL    string
	MessageCount  int
	Notice        string // transient, e.g. "Copied!"
	Width         int
	ShowShortcuts bool

	theme *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status:        StatusReady,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetStatus updates the current status.
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetNotice sets a transient notice. Pass "" to clear it.
func (s *StatusBar) SetNotice(notice string) {
	s.Notice = notice
}

// SetTheme swaps the theme after a toggle.
func (s *StatusBar) SetTheme(theme *styles.Theme) {
	s.theme = theme
}

// View renders the status bar.
func (s *StatusBar) View() string {
	var statusStyle lipgloss.Style
	switch s.Status {
	case StatusReady:
		statusStyle = s.theme.StatusOK
	case StatusWaiting:
		statusStyle = s.theme.StatusWaiting
	case StatusError:
		statusStyle = s.theme.StatusError
	}

	left := statusStyle.Render(s.Status.Icon()+" "+s.Status.String()) +
		"  " + s.theme.ShortcutDesc.Render(s.BackendURL)
	if s.MessageCount > 0 {
		left += "  " + s.theme.ShortcutDesc.Render(strconv.Itoa(s.MessageCount)+" msgs")
	}

	middle := ""
	if s.Notice != "" {
		middle = s.theme.StatusOK.Render(s.Notice)
	}

	right := ""
	if s.ShowShortcuts && s.Width >= 60 {
		right = s.shortcuts()
	}

	// Lay the three segments out across the full width.
	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(middle) - lipgloss.Width(right) - 2
	if gap < 2 {
		// Narrow terminal: drop shortcuts first, then the notice.
		right = ""
		gap = s.Width - lipgloss.Width(left) - lipgloss.Width(middle) - 2
		if gap < 2 {
			middle = ""
			gap = 2
		}
	}
	leftGap := gap / 2
	rightGap := gap - leftGap

	line := left + strings.Repeat(" ", leftGap) + middle + strings.Repeat(" ", rightGap) + right
	return s.theme.StatusBar.Width(s.Width).Render(util.TruncateWidth(line, s.Width-2))
}

// shortcuts renders the keyboard shortcut hints.
func (s *StatusBar) shortcuts() string {
	pairs := []struct{ key, desc string }{
		{"enter", "send"},
		{"^L", "clear"},
		{"^Y", "copy"},
		{"^C", "quit"},
	}

	var parts []string
	for _, p := range pairs {
		parts = append(parts, s.theme.ShortcutKey.Render(p.key)+" "+s.theme.ShortcutDesc.Render(p.desc))
	}
	return strings.Join(parts, "  ")
}
