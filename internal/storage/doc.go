// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local persistence for chat history.
//
// Persistence is a small SQLite-backed key-value table; the entire turn
// sequence is JSON-serialized under one fixed key after every mutation, so
// the stored copy always mirrors the in-memory conversation. Restore is
// fail-soft: a missing or corrupt value yields an empty conversation rather
// than an error.
package storage
