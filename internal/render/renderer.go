// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"regexp"

	"github.com/charmbracelet/glamour"

	"github.com/bioterm/bioterm/internal/model"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultWidth is the wrap width used before the terminal size is known.
	DefaultWidth = 80

	// minWidth is the narrowest wrap width the renderer will accept.
	minWidth = 20
)

// htmlTagPattern detects HTML fragments: a '<' immediately followed by an
// ASCII letter. Bare angle brackets in prose ("x < y") do not match.
var htmlTagPattern = regexp.MustCompile(`<[A-Za-z]`)

// LooksLikeHTML reports whether content appears to be an HTML fragment.
func LooksLikeHTML(content string) bool {
	return htmlTagPattern.MatchString(content)
}

// =============================================================================
// RENDERED OUTPUT
// =============================================================================

// Rendered is the terminal form of a single message plus the code blocks
// found in it, in display order. Callers use the blocks to offer
// copy-to-clipboard on each one.
type Rendered struct {
	Text       string
	CodeBlocks []CodeBlock
}

// =============================================================================
// RENDERER
// =============================================================================

// Renderer turns message content into terminal text.
//
// A trusted renderer sends HTML-looking assistant content down the HTML
// path; an untrusted one treats everything as markdown, so tags display
// as literal text after escaping through glamour.
type Renderer struct {
	trusted bool
	width   int
	md      *glamour.TermRenderer
}

// NewRenderer creates a renderer wrapping at the given width.
func NewRenderer(trusted bool, width int) *Renderer {
	r := &Renderer{trusted: trusted, width: width}
	if r.width < minWidth {
		r.width = DefaultWidth
	}
	r.rebuild()
	return r
}

// rebuild recreates the glamour renderer for the current width.
// Falls back to plain text passthrough if glamour fails to initialize.
func (r *Renderer) rebuild() {
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(r.width),
	)
	if err != nil {
		r.md = nil
		return
	}
	r.md = md
}

// SetWidth changes the wrap width, typically after a terminal resize.
func (r *Renderer) SetWidth(width int) {
	if width < minWidth {
		width = minWidth
	}
	if width == r.width {
		return
	}
	r.width = width
	r.rebuild()
}

// Width returns the current wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Trusted reports whether assistant HTML is interpreted.
func (r *Renderer) Trusted() bool {
	return r.trusted
}

// Render converts one message into terminal text.
//
// User and system content is returned verbatim regardless of what it
// contains. Assistant content is rendered as HTML when the renderer is
// trusted and the content looks like an HTML fragment, and as markdown
// otherwise.
func (r *Renderer) Render(role model.Role, content string) Rendered {
	if role != model.RoleAssistant {
		return Rendered{Text: content}
	}
	if r.trusted && LooksLikeHTML(content) {
		return r.renderHTML(content)
	}
	return r.renderMarkdown(content)
}

// renderMarkdown renders assistant markdown through glamour.
// Returns the original content if rendering fails or glamour is unavailable.
func (r *Renderer) renderMarkdown(content string) Rendered {
	blocks := ExtractFences(content)
	if r.md == nil {
		return Rendered{Text: content, CodeBlocks: blocks}
	}
	out, err := r.md.Render(content)
	if err != nil {
		return Rendered{Text: content, CodeBlocks: blocks}
	}
	return Rendered{Text: out, CodeBlocks: blocks}
}
