// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
	"testing"

	"github.com/bioterm/bioterm/internal/model"
)

func TestLooksLikeHTML(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"open tag", "<table><tr><td>x</td></tr></table>", true},
		{"tag mid content", "Results below:\n<div>42</div>", true},
		{"bare less-than", "3 < 5 and 7 < 9", false},
		{"less-than digit", "x <3", false},
		{"plain markdown", "# Heading\n\nSome **bold** text", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LooksLikeHTML(tt.content); got != tt.want {
				t.Errorf("LooksLikeHTML(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestRenderUserContentVerbatim(t *testing.T) {
	r := NewRenderer(true, 80)

	// User content is never interpreted, even when it looks like HTML
	// or markdown.
	for _, content := range []string{
		"<script>alert('x')</script>",
		"# not a heading",
		"plain text",
	} {
		got := r.Render(model.RoleUser, content)
		if got.Text != content {
			t.Errorf("user content %q rendered as %q, want verbatim", content, got.Text)
		}
		if len(got.CodeBlocks) != 0 {
			t.Errorf("user content %q produced %d code blocks, want 0", content, len(got.CodeBlocks))
		}
	}
}

func TestRenderSystemContentVerbatim(t *testing.T) {
	r := NewRenderer(true, 80)

	content := "connection failed: <retry>"
	got := r.Render(model.RoleSystem, content)
	if got.Text != content {
		t.Errorf("system content rendered as %q, want verbatim", got.Text)
	}
}

func TestRenderAssistantMarkdown(t *testing.T) {
	r := NewRenderer(true, 80)

	got := r.Render(model.RoleAssistant, "BRCA1 is a tumor suppressor gene.")
	if !strings.Contains(got.Text, "BRCA1 is a tumor suppressor gene.") {
		t.Errorf("markdown output missing content: %q", got.Text)
	}
}

func TestRenderAssistantMarkdownCodeBlocks(t *testing.T) {
	r := NewRenderer(true, 80)

	content := "Use this query:\n\n```python\nprint(\"hello\")\n```\n\nDone."
	got := r.Render(model.RoleAssistant, content)

	if len(got.CodeBlocks) != 1 {
		t.Fatalf("got %d code blocks, want 1", len(got.CodeBlocks))
	}
	if got.CodeBlocks[0].Language != "python" {
		t.Errorf("language = %q, want python", got.CodeBlocks[0].Language)
	}
	if got.CodeBlocks[0].Code != "print(\"hello\")" {
		t.Errorf("code = %q", got.CodeBlocks[0].Code)
	}
}

func TestRenderUntrustedTreatsHTMLAsMarkdown(t *testing.T) {
	r := NewRenderer(false, 80)

	// The HTML path would extract a code block here; untrusted mode must
	// not interpret the fragment.
	content := "<pre><code>SELECT 1</code></pre>"
	got := r.Render(model.RoleAssistant, content)
	if len(got.CodeBlocks) != 0 {
		t.Errorf("untrusted renderer interpreted HTML: got %d code blocks", len(got.CodeBlocks))
	}
}

func TestRenderTrustedHTMLPath(t *testing.T) {
	r := NewRenderer(true, 80)

	content := "<p>Variant summary</p><pre><code class=\"language-python\">x = 1</code></pre>"
	got := r.Render(model.RoleAssistant, content)

	if !strings.Contains(got.Text, "Variant summary") {
		t.Errorf("HTML output missing paragraph text: %q", got.Text)
	}
	if len(got.CodeBlocks) != 1 {
		t.Fatalf("got %d code blocks, want 1", len(got.CodeBlocks))
	}
	if got.CodeBlocks[0].Language != "python" {
		t.Errorf("language = %q, want python", got.CodeBlocks[0].Language)
	}
	if got.CodeBlocks[0].Code != "x = 1" {
		t.Errorf("code = %q, want x = 1", got.CodeBlocks[0].Code)
	}
}

func TestSetWidth(t *testing.T) {
	r := NewRenderer(true, 80)

	r.SetWidth(120)
	if r.Width() != 120 {
		t.Errorf("width = %d, want 120", r.Width())
	}

	// Absurdly small widths are clamped rather than breaking wrapping.
	r.SetWidth(3)
	if r.Width() < 20 {
		t.Errorf("width = %d, want clamped to minimum", r.Width())
	}
}

func TestExtractFencesUnclosed(t *testing.T) {
	blocks := ExtractFences("intro\n```go\nfmt.Println(1)")
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].Code != "fmt.Println(1)" {
		t.Errorf("code = %q", blocks[0].Code)
	}
}

func TestExtractFencesMultiple(t *testing.T) {
	content := "```go\na\n```\nmiddle\n```\nb\n```"
	blocks := ExtractFences(content)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Language != "go" || blocks[0].Code != "a" {
		t.Errorf("first block = %+v", blocks[0])
	}
	if blocks[1].Language != "" || blocks[1].Code != "b" {
		t.Errorf("second block = %+v", blocks[1])
	}
}

func TestHighlightFallback(t *testing.T) {
	code := "not really code at all"
	if got := Highlight(code, "nosuchlanguage"); got == "" {
		t.Error("Highlight returned empty output")
	}
}
