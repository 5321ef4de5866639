// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question handler.
//
// Sends a single question to the backend and prints the reply. Markdown is
// rendered only when stdout is a TTY so piped output stays clean.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/bioterm/bioterm/internal/backend"
	"github.com/bioterm/bioterm/internal/config"
	"github.com/bioterm/bioterm/internal/model"
	"github.com/bioterm/bioterm/internal/render"
)

// markdownRenderer is the package glamour renderer for terminal output.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(render.DefaultWidth),
	)
	if err != nil {
		// Fall back to plain text when the renderer cannot initialize.
		markdownRenderer = nil
	}
}

// IsStdoutTTY reports whether stdout is attached to a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// HandleAsk sends a one-shot question and prints the response.
func HandleAsk(args Args) {
	if args.Query == "" {
		fmt.Fprintln(os.Stderr, "Usage: bioterm ask \"question\"")
		os.Exit(1)
	}

	cfg := config.Global()
	client := newClient(cfg, args)

	ctx, cancel := context.WithTimeout(context.Background(), client.Timeout())
	defer cancel()

	start := time.Now()
	resp, err := client.Chat(ctx, []backend.Message{
		{Role: model.RoleUser.String(), Content: args.Query},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if args.JSON {
		out, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(out))
		return
	}

	printResponse(cfg, args, resp)

	if args.Verbose {
		fmt.Fprintf(os.Stderr, "\n(%s)\n", time.Since(start).Round(time.Millisecond))
	}
}

// printResponse writes the reply and any HTML fragment to stdout.
func printResponse(cfg *config.Config, args Args, resp *backend.ChatResponse) {
	pretty := IsStdoutTTY() && !args.Raw

	if resp.HasReply() {
		if pretty {
			fmt.Print(renderMarkdown(resp.Reply))
		} else {
			fmt.Println(resp.Reply)
		}
	}

	if resp.HasHTML() {
		if pretty {
			r := render.NewRenderer(cfg.Render.TrustedContent, render.DefaultWidth)
			rendered := r.Render(model.RoleAssistant, resp.HTML)
			fmt.Println(rendered.Text)
		} else {
			fmt.Println(resp.HTML)
		}
	}

	if !resp.HasReply() && !resp.HasHTML() {
		fmt.Fprintln(os.Stderr, "The backend returned an empty reply.")
	}
}

// newClient builds a backend client honoring the --url override.
func newClient(cfg *config.Config, args Args) *backend.Client {
	clientCfg := &backend.ClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
	}
	if args.URL != "" {
		clientCfg.BaseURL = args.URL
	}
	return backend.NewClientWithConfig(clientCfg)
}
