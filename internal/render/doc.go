// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render converts assistant replies into terminal output.
//
// Assistant content arrives either as markdown or as an HTML fragment
// (tables, embedded viewers). Markdown goes through glamour; HTML is
// parsed with goquery and flattened into styled text. User content is
// never interpreted and always displays verbatim.
package render
