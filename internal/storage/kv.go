// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for chat history.
package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrKeyNotFound is returned when a key has no stored value.
	ErrKeyNotFound = errors.New("key not found")
)

// =============================================================================
// KEY-VALUE STORE
// =============================================================================

// KV is a single-table key-value store backed by SQLite. It is the local
// storage substrate for chat history: one fixed key, one JSON value.
type KV struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the default database location (~/.bioterm/bioterm.db).
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".bioterm", "bioterm.db"), nil
}

// OpenKV opens (creating if needed) the key-value store at path.
func OpenKV(path string) (*KV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single connection: the store is accessed from the UI thread only and
	// modernc/sqlite handles one writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, err
	}

	return &KV{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *KV) Path() string {
	return s.path
}

// Get retrieves the value stored under key.
func (s *KV) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *KV) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// Delete removes the value stored under key. Deleting a missing key is not
// an error.
func (s *KV) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

// Close closes the underlying database.
func (s *KV) Close() error {
	return s.db.Close()
}
