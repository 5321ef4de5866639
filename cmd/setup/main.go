// bioterm-setup - interactive first-run wizard for bioterm.
//
// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bioterm/bioterm/internal/backend"
	"github.com/bioterm/bioterm/internal/config"
	"github.com/bioterm/bioterm/internal/ui/styles"
)

// Wizard steps, in order.
const (
	stepURL = iota
	stepTrusted
	stepProbe
	stepDone
)

type probeResultMsg struct{ err error }

type wizard struct {
	step    int
	input   textinput.Model
	cfg     *config.Config
	probing bool
	probeOK bool
	probeEr string
	saveErr string
}

func newWizard() wizard {
	cfg := config.Default()

	ti := textinput.New()
	ti.Placeholder = cfg.Backend.URL
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()

	return wizard{step: stepURL, input: ti, cfg: cfg}
}

func (w wizard) Init() tea.Cmd {
	return textinput.Blink
}

func (w wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return w, tea.Quit
		case tea.KeyEnter:
			return w.advance()
		}

	case probeResultMsg:
		w.probing = false
		w.probeOK = msg.err == nil
		if msg.err != nil {
			w.probeEr = msg.err.Error()
		}
		w.step = stepDone
		if err := config.Save(w.cfg); err != nil {
			w.saveErr = err.Error()
		}
		return w, nil
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

// advance handles Enter for the current step.
func (w wizard) advance() (tea.Model, tea.Cmd) {
	switch w.step {
	case stepURL:
		if v := strings.TrimSpace(w.input.Value()); v != "" {
			w.cfg.Backend.URL = v
		}
		if err := w.cfg.Validate(); err != nil {
			w.input.SetValue("")
			w.input.Placeholder = "invalid URL, try again (e.g. http://127.0.0.1:8000)"
			return w, nil
		}
		w.input.SetValue("")
		w.input.Placeholder = "y/n"
		w.step = stepTrusted
		return w, nil

	case stepTrusted:
		switch strings.ToLower(strings.TrimSpace(w.input.Value())) {
		case "n", "no":
			w.cfg.Render.TrustedContent = false
		default:
			w.cfg.Render.TrustedContent = true
		}
		w.step = stepProbe
		w.probing = true
		return w, probeBackend(w.cfg)

	case stepDone:
		return w, tea.Quit
	}
	return w, nil
}

func probeBackend(cfg *config.Config) tea.Cmd {
	client := backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
	})
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return probeResultMsg{err: client.CheckReachable(ctx)}
	}
}

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Teal)

func (w wizard) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("bioterm setup") + "\n\n")

	switch w.step {
	case stepURL:
		sb.WriteString("Backend URL (enter for default):\n\n")
		sb.WriteString("  " + w.input.View() + "\n")

	case stepTrusted:
		sb.WriteString("Backend URL: " + w.cfg.Backend.URL + "\n\n")
		sb.WriteString("Render HTML fragments from this backend? [Y/n]\n\n")
		sb.WriteString("  " + w.input.View() + "\n")

	case stepProbe:
		sb.WriteString("Checking backend at " + w.cfg.Backend.URL + " ...\n")

	case stepDone:
		if w.probeOK {
			sb.WriteString(styles.RenderSuccess("backend reachable") + "\n")
		} else {
			sb.WriteString(styles.RenderWarning("backend not reachable yet") + "\n")
			sb.WriteString("  " + w.probeEr + "\n")
			sb.WriteString("  You can start it later; settings are saved either way.\n")
		}
		if w.saveErr != "" {
			sb.WriteString(styles.RenderError("could not save config: "+w.saveErr) + "\n")
		} else {
			sb.WriteString("\nConfiguration written. Run `bioterm` to start chatting.\n")
		}
		sb.WriteString("\nPress enter to exit.\n")
	}

	sb.WriteString("\n(esc to quit)\n")
	return sb.String()
}

func main() {
	if _, err := tea.NewProgram(newWizard()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
