// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// history.go - Conversation history subcommands: show, export, clear.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bioterm/bioterm/internal/config"
	"github.com/bioterm/bioterm/internal/storage"
	"github.com/bioterm/bioterm/internal/util"
)

// HandleHistory dispatches the history subcommands.
func HandleHistory(args Args) {
	history, closeKV := openHistory()
	defer closeKV()

	switch args.Subcommand {
	case "", "show":
		historyShow(args, history)
	case "export":
		historyExport(args, history)
	case "clear":
		if err := history.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !args.Quiet {
			fmt.Println("History cleared.")
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown history subcommand %q (show|export|clear)\n", args.Subcommand)
		os.Exit(1)
	}
}

func historyShow(args Args, history *storage.History) {
	conv := history.Conversation()

	if args.JSON {
		out, _ := json.MarshalIndent(conv.PersistedHistory(), "", "  ")
		fmt.Println(string(out))
		return
	}

	if conv.IsEmpty() {
		fmt.Println("No history.")
		return
	}

	for _, msg := range conv.GetHistory() {
		label := msg.Role.DisplayName()
		fmt.Printf("[%s] %s\n", msg.Timestamp.Format("2006-01-02 15:04"), label)
		fmt.Println(msg.Content)
		fmt.Println()
	}
}

func historyExport(args Args, history *storage.History) {
	path := defaultCLIExportPath()
	if len(args.Rest) > 1 {
		path = args.Rest[1]
	}

	markdown := history.ExportMarkdown()
	if err := util.AtomicWriteFile(path, []byte(markdown), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !args.Quiet {
		fmt.Printf("Exported to %s\n", path)
	}
}

func defaultCLIExportPath() string {
	return "bioterm-history.md"
}

// openHistory opens the persisted conversation, restoring prior turns.
func openHistory() (*storage.History, func()) {
	cfg := config.Global()

	path := cfg.History.Path
	if path == "" {
		var err error
		path, err = storage.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	kv, err := storage.OpenKV(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history: %v\n", err)
		os.Exit(1)
	}

	return storage.NewHistory(kv), func() { kv.Close() }
}
