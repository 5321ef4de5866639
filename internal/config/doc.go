// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for bioterm.
//
// Supports both TOML and JSON formats, with built-in defaults, environment
// variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.bioterm/config.toml
//   - ~/.bioterm/config.json
//   - Built-in defaults
//
// Environment variables (BIOTERM_URL, BIOTERM_TRUSTED, ...) override values
// from any file. See Config.ApplyEnvOverrides for the full list.
package config
