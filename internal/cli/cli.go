// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Argument parsing and command routing for bioterm.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdStatus
	CmdConfig
	CmdHistory
	CmdServe
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool   // output in JSON format
	URL     string // backend URL override
	Raw     bool   // skip markdown rendering

	// Command-specific
	Query      string
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args remaining after flag parsing
	Rest []string
}

const usageText = `bioterm - a terminal client for the biomedical chat backend

Bioterm talks to a local analysis backend over HTTP and renders replies,
including HTML result fragments, directly in the terminal.

Usage:
  bioterm                     Start the TUI (default)
  bioterm ask "question"      Ask a single question and print the reply
  bioterm status              Check backend reachability and show settings
  bioterm config [show|get|set|path]  Configuration
  bioterm history [show|export|clear] Conversation history
  bioterm serve               Run a local stub backend (for development)
  bioterm version             Show version information
  bioterm help                Show this help

Flags:
  --url URL       Backend base URL (overrides config)
  --json          Machine-readable output where supported
  --raw           Print replies without markdown rendering
  -q, --quiet     Minimal output
  -v, --verbose   Verbose output

Examples:
  bioterm ask "What does the TP53 gene do?"
  bioterm ask --raw "List common variant annotation tools" > notes.md
  bioterm config set backend.url http://127.0.0.1:8000
  bioterm history export ~/consult.md

Environment:
  BIOTERM_URL, BIOTERM_TIMEOUT_SECS, BIOTERM_TRUSTED,
  BIOTERM_NO_HISTORY, BIOTERM_HISTORY_PATH, BIOTERM_THEME
`

// Parse reads os.Args and returns the command plus its arguments.
func Parse() (Command, Args) {
	return parseArgs(os.Args[1:])
}

// parseArgs is the testable core of Parse.
func parseArgs(argv []string) (Command, Args) {
	var args Args

	var positional []string
	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--json":
			args.JSON = true
		case arg == "--raw":
			args.Raw = true
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		case arg == "-v" || arg == "--verbose":
			args.Verbose = true
		case arg == "--url":
			if i+1 < len(argv) {
				i++
				args.URL = argv[i]
			}
		case strings.HasPrefix(arg, "--url="):
			args.URL = strings.TrimPrefix(arg, "--url=")
		case arg == "-h" || arg == "--help":
			return CmdHelp, args
		default:
			positional = append(positional, arg)
		}
	}

	if len(positional) == 0 {
		return CmdTUI, args
	}

	cmd := positional[0]
	rest := positional[1:]
	args.Rest = rest

	switch cmd {
	case "ask":
		args.Query = strings.Join(rest, " ")
		return CmdAsk, args
	case "status", "s":
		return CmdStatus, args
	case "config":
		if len(rest) > 0 {
			args.Subcommand = rest[0]
		}
		if len(rest) > 1 {
			args.ConfigKey = rest[1]
		}
		if len(rest) > 2 {
			args.ConfigVal = strings.Join(rest[2:], " ")
		}
		return CmdConfig, args
	case "history":
		if len(rest) > 0 {
			args.Subcommand = rest[0]
		}
		return CmdHistory, args
	case "serve":
		return CmdServe, args
	case "version", "--version":
		return CmdVersion, args
	case "help":
		return CmdHelp, args
	default:
		// Unknown word: treat the whole line as an ask query.
		args.Query = strings.Join(positional, " ")
		return CmdAsk, args
	}
}

// PrintUsage writes the help text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes build information to stdout.
func PrintVersion() {
	fmt.Printf("bioterm %s\n", Version)
	fmt.Printf("  commit: %s\n", GitCommit)
	fmt.Printf("  built:  %s\n", BuildDate)
	fmt.Printf("  %s/%s, %s\n", runtime.GOOS, runtime.GOARCH, runtime.Version())
}
