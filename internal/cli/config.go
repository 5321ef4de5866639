// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Configuration subcommands: show, get, set, path.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bioterm/bioterm/internal/config"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(args Args) {
	switch args.Subcommand {
	case "", "show":
		configShow(args)
	case "get":
		configGet(args)
	case "set":
		configSet(args)
	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(path)
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand %q (show|get|set|path)\n", args.Subcommand)
		os.Exit(1)
	}
}

func configShow(args Args) {
	cfg := config.Global()

	if args.JSON {
		out, _ := json.MarshalIndent(cfg, "", "  ")
		fmt.Println(string(out))
		return
	}

	for _, key := range config.GetAllKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("  %-24s %v\n", key, value)
	}
}

func configGet(args Args) {
	if args.ConfigKey == "" {
		fmt.Fprintln(os.Stderr, "Usage: bioterm config get <key>")
		os.Exit(1)
	}

	value, err := config.Global().Get(args.ConfigKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%v\n", value)
}

func configSet(args Args) {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		fmt.Fprintln(os.Stderr, "Usage: bioterm config set <key> <value>")
		os.Exit(1)
	}

	cfg := config.Global()
	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	if !args.Quiet {
		fmt.Printf("%s = %s\n", args.ConfigKey, args.ConfigVal)
	}
}
