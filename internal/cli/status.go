// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Backend reachability and settings summary.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/bioterm/bioterm/internal/config"
	"github.com/bioterm/bioterm/internal/storage"
	"github.com/bioterm/bioterm/internal/ui/styles"
)

const statusProbeTimeout = 5 * time.Second

// HandleStatus checks the backend and prints a settings summary.
func HandleStatus(args Args) {
	cfg := config.Global()
	client := newClient(cfg, args)

	ctx, cancel := context.WithTimeout(context.Background(), statusProbeTimeout)
	defer cancel()

	reachErr := client.CheckReachable(ctx)
	reachable := reachErr == nil

	if args.JSON {
		out, _ := json.MarshalIndent(map[string]any{
			"backend_url":     client.BaseURL(),
			"reachable":       reachable,
			"trusted_content": cfg.Render.TrustedContent,
			"history_enabled": cfg.History.Enabled,
			"theme":           cfg.UI.Theme,
			"version":         Version,
		}, "", "  ")
		fmt.Println(string(out))
		if !reachable {
			os.Exit(1)
		}
		return
	}

	fmt.Printf("bioterm %s\n\n", Version)

	if reachable {
		fmt.Printf("  %s\n", styles.RenderSuccess("backend "+client.BaseURL()))
	} else {
		fmt.Printf("  %s\n", styles.RenderError("backend "+client.BaseURL()))
		fmt.Printf("      %v\n", reachErr)
	}

	fmt.Printf("  trusted content: %v\n", cfg.Render.TrustedContent)
	fmt.Printf("  history:         %v\n", cfg.History.Enabled)
	fmt.Printf("  theme:           %s\n", cfg.UI.Theme)

	if path, err := storage.DefaultPath(); err == nil {
		fmt.Printf("  history path:    %s\n", path)
	}

	if !reachable {
		os.Exit(1)
	}
}
