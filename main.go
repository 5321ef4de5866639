// bioterm - a terminal client for the biomedical chat backend.
//
// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bioterm/bioterm/internal/backend"
	"github.com/bioterm/bioterm/internal/cli"
	"github.com/bioterm/bioterm/internal/config"
	"github.com/bioterm/bioterm/internal/server"
	"github.com/bioterm/bioterm/internal/storage"
	"github.com/bioterm/bioterm/internal/ui/chat"
	"github.com/bioterm/bioterm/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdHistory:
		cli.HandleHistory(args)
	case cli.CmdServe:
		runServe()
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}
}

// runTUI starts the full-screen chat interface.
func runTUI(args cli.Args) {
	cfg := config.Global()

	kv, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history store: %v\n", err)
		os.Exit(1)
	}
	defer kv.Close()

	history := storage.NewHistory(kv)

	clientCfg := &backend.ClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
	}
	if args.URL != "" {
		clientCfg.BaseURL = args.URL
	}
	client := backend.NewClientWithConfig(clientCfg)

	theme := themeFor(cfg)
	m := chat.New(cfg, history, client, theme)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the history database. When history is disabled the
// conversation lives in memory only and vanishes on exit.
func openStore(cfg *config.Config) (*storage.KV, error) {
	if !cfg.History.Enabled {
		return storage.OpenKV(":memory:")
	}
	path := cfg.History.Path
	if path == "" {
		var err error
		path, err = storage.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return storage.OpenKV(path)
}

// themeFor maps the configured theme name to a concrete theme.
func themeFor(cfg *config.Config) *styles.Theme {
	switch cfg.UI.Theme {
	case "dark":
		return styles.NewThemeDark(true)
	case "light":
		return styles.NewThemeDark(false)
	default:
		return styles.NewTheme()
	}
}

// runServe starts the local stub backend.
func runServe() {
	s := server.New(server.DefaultPort)
	if err := s.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
