// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bioterm/bioterm/internal/model"
	"github.com/bioterm/bioterm/internal/ui/components"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update handles all Bubble Tea messages for the chat view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReachabilityMsg:
		if !msg.OK {
			m.statusBar.SetStatus(components.StatusError)
			m.history.Append(model.NewSystemMessage(
				"Could not reach the backend at " + m.client.BaseURL() +
					". Messages will fail until it is available."))
			m.refreshTranscript()
			m.viewport.GotoBottom()
		}
		return m, nil

	case ChatResponseMsg:
		return m.handleResponse(msg)

	case noticeExpiredMsg:
		// An old timer must not clear a newer notice.
		if msg.Seq == m.noticeSeq {
			m.statusBar.SetNotice("")
		}
		return m, nil

	case exportedMsg:
		if msg.Err != nil {
			return m, m.setNotice("Export failed: " + msg.Err.Error())
		}
		return m, m.setNotice("Exported to " + msg.Path)
	}

	// Remaining messages drive the animated components.
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey routes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Submit):
		cmd := m.submit()
		return m, cmd

	case key.Matches(msg, m.keyMap.Clear):
		cmd := m.clearHistory()
		return m, cmd

	case key.Matches(msg, m.keyMap.ThemeToggle):
		m.toggleTheme()
		return m, nil

	case key.Matches(msg, m.keyMap.CopyReply):
		return m, m.copyLastReply()

	case key.Matches(msg, m.keyMap.CopyCode):
		return m, m.copyCodeBlock(len(m.codeBlocks))

	case key.Matches(msg, m.keyMap.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.ViewDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Home):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keyMap.End):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// SEND CONTROLLER
// =============================================================================

// submit handles Enter. Empty input is a no-op, and a pending request
// blocks further sends regardless of any UI state. The user turn is
// appended (and persisted) before the request goes out, so it survives
// even if the request fails.
func (m *Model) submit() tea.Cmd {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return nil
	}
	if strings.HasPrefix(content, "/") {
		m.input.Reset()
		return m.handleCommand(content)
	}
	if m.state != StateIdle {
		return nil
	}

	m.input.Reset()

	var cmds []tea.Cmd
	if err := m.history.Append(model.NewUserMessage(content)); err != nil {
		cmds = append(cmds, m.setNotice("Warning: history not saved"))
	}

	m.state = StateAwaitingReply
	m.statusBar.SetStatus(components.StatusWaiting)
	m.refreshTranscript()
	m.viewport.GotoBottom()

	cmds = append(cmds,
		m.spinner.Start(),
		sendChat(m.client, m.history.ContextWindow(), m.sendSeq),
	)
	return tea.Batch(cmds...)
}

// handleResponse processes the reply, success or failure, and returns the
// controller to idle either way. A response from before a clear would land
// an assistant turn on history that no longer holds its question, so stale
// generations are dropped.
func (m Model) handleResponse(msg ChatResponseMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.sendSeq {
		return m, nil
	}

	m.state = StateIdle
	m.spinner.Stop()

	var cmds []tea.Cmd
	appendTurn := func(turn *model.Message) {
		if err := m.history.Append(turn); err != nil {
			cmds = append(cmds, m.setNotice("Warning: history not saved"))
		}
	}

	if msg.Err != nil {
		// Failures become local system notices, never persisted history.
		m.statusBar.SetStatus(components.StatusError)
		appendTurn(model.NewSystemMessage(friendlyError(msg.Err)))
	} else {
		m.statusBar.SetStatus(components.StatusReady)
		appended := false
		if msg.Response.HasReply() {
			appendTurn(model.NewAssistantMessage(msg.Response.Reply))
			appended = true
		}
		if msg.Response.HasHTML() {
			appendTurn(model.NewAssistantHTMLMessage(msg.Response.HTML))
			appended = true
		}
		if !appended {
			appendTurn(model.NewSystemMessage("The backend returned an empty reply."))
		}
	}

	m.refreshTranscript()
	m.viewport.GotoBottom()
	return m, tea.Batch(cmds...)
}

// =============================================================================
// ACTIONS
// =============================================================================

// clearHistory wipes the conversation, both in memory and on disk. Clearing
// while a request is in flight abandons that cycle: the generation bump makes
// handleResponse drop the reply when it arrives.
func (m *Model) clearHistory() tea.Cmd {
	if err := m.history.Clear(); err != nil {
		return m.setNotice("Clear failed: " + err.Error())
	}
	m.sendSeq++
	m.state = StateIdle
	m.spinner.Stop()
	m.codeBlocks = nil
	m.statusBar.SetStatus(components.StatusReady)
	m.refreshTranscript()
	m.viewport.GotoTop()
	return m.setNotice("History cleared")
}

// toggleTheme flips between dark and light mode and re-renders.
func (m *Model) toggleTheme() {
	m.theme.Toggle()
	m.refreshTranscript()
}

// copyLastReply copies the raw content of the most recent assistant turn.
func (m *Model) copyLastReply() tea.Cmd {
	last := m.history.Conversation().GetLastAssistantMessage()
	if last == nil {
		return m.setNotice("Nothing to copy")
	}
	if err := m.copyFunc(last.Content); err != nil {
		return m.setNotice("Copy failed: " + err.Error())
	}
	return m.setNotice("Copied!")
}

// copyCodeBlock copies block n (1-based) from the transcript registry.
func (m *Model) copyCodeBlock(n int) tea.Cmd {
	if n < 1 || n > len(m.codeBlocks) {
		return m.setNotice("No such code block")
	}
	if err := m.copyFunc(m.codeBlocks[n-1].Code); err != nil {
		return m.setNotice("Copy failed: " + err.Error())
	}
	return m.setNotice("Copied code block " + strconv.Itoa(n) + "!")
}

// setNotice shows a transient status bar notice and schedules its expiry.
func (m *Model) setNotice(text string) tea.Cmd {
	m.noticeSeq++
	m.statusBar.SetNotice(text)
	return expireNotice(m.noticeSeq)
}

// resize adjusts the layout after a terminal size change.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true

	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.input.Width = width - 6
	m.renderer.SetWidth(width - 4)

	headerHeight := lipgloss.Height(m.header.View())
	inputHeight := 2  // input line plus top border
	statusHeight := 1 // status bar
	waitHeight := 1   // spinner line, reserved so layout doesn't jump

	vpHeight := height - headerHeight - inputHeight - statusHeight - waitHeight
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight

	m.refreshTranscript()
	m.viewport.GotoBottom()
}
