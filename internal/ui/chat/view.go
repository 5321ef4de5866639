// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bioterm/bioterm/internal/model"
)

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// refreshTranscript re-renders the whole conversation into the viewport and
// rebuilds the code block registry. Rendering is idempotent: the registry is
// reset first so repeated refreshes index the same blocks the same way.
func (m *Model) refreshTranscript() {
	m.codeBlocks = m.codeBlocks[:0]

	history := m.history.Conversation().GetHistory()
	var sb strings.Builder

	for i, msg := range history {
		if i > 0 {
			sb.WriteString("\n")
		}

		label := m.roleLabel(msg.Role)
		timestamp := m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))
		sb.WriteString(label + " " + timestamp + "\n")

		rendered := m.renderer.Render(msg.Role, msg.Content)
		sb.WriteString(strings.TrimRight(rendered.Text, "\n"))
		sb.WriteString("\n")

		// Register this turn's code blocks and tag each with its copy index.
		for _, block := range rendered.CodeBlocks {
			m.codeBlocks = append(m.codeBlocks, block)
			lang := block.Language
			if lang == "" {
				lang = "text"
			}
			tag := fmt.Sprintf("[%d] %s  /copy %d", len(m.codeBlocks), lang, len(m.codeBlocks))
			sb.WriteString(m.theme.CodeBlockTag.Render(tag) + "\n")
		}
	}

	m.viewport.SetContent(sb.String())
	m.statusBar.MessageCount = len(history)
}

func (m *Model) roleLabel(role model.Role) string {
	switch role {
	case model.RoleUser:
		return m.theme.UserLabel.Render(role.DisplayName())
	case model.RoleAssistant:
		return m.theme.AssistantLabel.Render(role.DisplayName())
	default:
		return m.theme.SystemNotice.Render(role.DisplayName())
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View assembles the full-screen layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var waitLine string
	if m.state == StateAwaitingReply {
		waitLine = m.spinner.View()
	}

	inputView := m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.viewport.View(),
		waitLine,
		inputView,
		m.statusBar.View(),
	)
}
