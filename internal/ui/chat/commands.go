// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bioterm/bioterm/internal/model"
	"github.com/bioterm/bioterm/internal/util"
)

// =============================================================================
// SLASH COMMANDS
// =============================================================================

const helpText = `Commands:
  /help            Show this help
  /clear           Clear the conversation history
  /copy [n]        Copy code block n (default: the last one)
  /blocks          List code blocks in the transcript
  /export [path]   Export the conversation as markdown
  /theme           Toggle dark/light theme
  /quit            Exit

Shortcuts: enter send, ctrl+y copy reply, ctrl+b copy last code block,
ctrl+l clear, ctrl+t theme, ctrl+c quit.`

// handleCommand dispatches a line starting with "/".
func (m *Model) handleCommand(line string) tea.Cmd {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/help":
		m.showSystemNotice(helpText)
		return nil

	case "/clear":
		return m.clearHistory()

	case "/copy":
		n := len(m.codeBlocks)
		if len(args) > 0 {
			parsed, err := strconv.Atoi(args[0])
			if err != nil {
				return m.setNotice("Usage: /copy [n]")
			}
			n = parsed
		}
		return m.copyCodeBlock(n)

	case "/blocks":
		m.showSystemNotice(m.describeBlocks())
		return nil

	case "/export":
		path := defaultExportPath()
		if len(args) > 0 {
			path = args[0]
		}
		return exportHistory(m.history.ExportMarkdown(), path)

	case "/theme":
		m.toggleTheme()
		return nil

	case "/quit", "/exit":
		return tea.Quit

	default:
		return m.setNotice("Unknown command " + cmd + " (try /help)")
	}
}

// showSystemNotice drops a local system turn into the transcript. These
// are display-only and never persisted or sent to the backend.
func (m *Model) showSystemNotice(text string) {
	m.history.Append(model.NewSystemMessage(text))
	m.refreshTranscript()
	m.viewport.GotoBottom()
}

// describeBlocks summarizes the copyable code blocks in the transcript.
func (m *Model) describeBlocks() string {
	if len(m.codeBlocks) == 0 {
		return "No code blocks in the transcript."
	}
	var sb strings.Builder
	sb.WriteString("Code blocks:\n")
	for i, b := range m.codeBlocks {
		lang := b.Language
		if lang == "" {
			lang = "text"
		}
		preview := util.TruncateRunes(firstLine(b.Code), 48)
		fmt.Fprintf(&sb, "  [%d] %s  %s\n", i+1, lang, preview)
	}
	sb.WriteString("Copy one with /copy n.")
	return sb.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func defaultExportPath() string {
	name := "bioterm-" + time.Now().Format("20060102-150405") + ".md"
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, name)
}

// exportHistory writes the markdown transcript off the update loop.
func exportHistory(markdown, path string) tea.Cmd {
	return func() tea.Msg {
		err := util.AtomicWriteFile(path, []byte(markdown), 0o644)
		return exportedMsg{Path: path, Err: err}
	}
}
