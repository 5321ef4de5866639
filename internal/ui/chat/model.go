// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bioterm/bioterm/internal/backend"
	"github.com/bioterm/bioterm/internal/config"
	"github.com/bioterm/bioterm/internal/render"
	"github.com/bioterm/bioterm/internal/storage"
	"github.com/bioterm/bioterm/internal/ui/components"
	"github.com/bioterm/bioterm/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the send controller state. The guard lives here, not in
// the input widget: even if the input somehow accepts a submission while a
// reply is pending, the controller refuses it.
type State int

const (
	StateIdle          State = iota // Ready to send
	StateAwaitingReply              // Request in flight
)

// String returns the display name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingReply:
		return "awaiting-reply"
	default:
		return "unknown"
	}
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Send controller state
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int
	ready  bool

	// Conversation history (restored on startup, persisted on append)
	history *storage.History

	// Backend client
	client *backend.Client

	// Reply renderer
	renderer *render.Renderer

	// UI components
	viewport  viewport.Model
	input     textinput.Model
	spinner   components.Spinner
	statusBar *components.StatusBar
	header    *components.Header

	// Key bindings
	keyMap KeyMap

	// Code blocks across the whole transcript, in display order. Rebuilt on
	// every transcript refresh so indices stay stable and never duplicate.
	codeBlocks []render.CodeBlock

	// Transient notice sequencing
	noticeSeq int

	// Conversation generation, bumped on clear. Responses issued against an
	// earlier generation are discarded instead of landing on fresh history.
	sendSeq int

	// Clipboard writer, replaceable in tests
	copyFunc func(string) error
}

// New creates a new chat model.
func New(cfg *config.Config, history *storage.History, client *backend.Client, theme *styles.Theme) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about a gene, variant, or pathway..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	statusBar := components.NewStatusBar(theme)
	statusBar.BackendURL = client.BaseURL()

	header := components.NewHeader(theme)
	header.SetSubtitle(client.BaseURL())

	m := Model{
		state:     StateIdle,
		theme:     theme,
		history:   history,
		client:    client,
		renderer:  render.NewRenderer(cfg.Render.TrustedContent, render.DefaultWidth),
		viewport:  vp,
		input:     ti,
		spinner:   components.NewSpinner(),
		statusBar: statusBar,
		header:    header,
		keyMap:    DefaultKeyMap(),
		copyFunc:  writeClipboard,
	}

	m.refreshTranscript()
	return m
}

// Init starts the cursor blink and probes the backend.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, checkBackend(m.client))
}

// State returns the current send controller state.
func (m Model) State() State {
	return m.state
}

// CodeBlocks returns the transcript's code blocks in display order.
func (m Model) CodeBlocks() []render.CodeBlock {
	return m.codeBlocks
}

// checkBackend probes the backend root endpoint.
func checkBackend(client *backend.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := probeContext()
		defer cancel()
		if err := client.CheckReachable(ctx); err != nil {
			return ReachabilityMsg{OK: false, Err: err}
		}
		return ReachabilityMsg{OK: true}
	}
}

// sendChat posts the context window to the backend. seq stamps the response
// with the conversation generation it belongs to.
func sendChat(client *backend.Client, messages []backend.Message, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(client)
		defer cancel()
		resp, err := client.Chat(ctx, messages)
		if err != nil {
			return ChatResponseMsg{Err: err, Seq: seq}
		}
		return ChatResponseMsg{Response: resp, Seq: seq}
	}
}
