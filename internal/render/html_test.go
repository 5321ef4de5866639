// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
	"testing"

	"github.com/bioterm/bioterm/internal/model"
)

func renderFragment(t *testing.T, fragment string) Rendered {
	t.Helper()
	r := NewRenderer(true, 80)
	return r.Render(model.RoleAssistant, fragment)
}

func TestRenderHTMLTable(t *testing.T) {
	got := renderFragment(t, `<table>
		<tr><th>Gene</th><th>Significance</th></tr>
		<tr><td>BRCA1</td><td>Pathogenic</td></tr>
		<tr><td>TP53</td><td>Benign</td></tr>
	</table>`)

	for _, want := range []string{"Gene", "Significance", "BRCA1", "Pathogenic", "TP53"} {
		if !strings.Contains(got.Text, want) {
			t.Errorf("table output missing %q:\n%s", want, got.Text)
		}
	}
	// Header separator line.
	if !strings.Contains(got.Text, "─") {
		t.Errorf("table output missing header separator:\n%s", got.Text)
	}
}

func TestRenderHTMLImagePlaceholder(t *testing.T) {
	got := renderFragment(t, `<p>Network:</p><img src="https://string-db.org/api/image/network?identifiers=TP53" alt="STRING network">`)

	if !strings.Contains(got.Text, "[image]") {
		t.Errorf("output missing image placeholder:\n%s", got.Text)
	}
	if !strings.Contains(got.Text, "STRING network") {
		t.Errorf("placeholder should prefer alt text:\n%s", got.Text)
	}
}

func TestRenderHTMLImagePlaceholderFallsBackToSrc(t *testing.T) {
	got := renderFragment(t, `<img src="https://example.org/pathway.png">`)

	if !strings.Contains(got.Text, "example.org/pathway.png") {
		t.Errorf("placeholder should fall back to src:\n%s", got.Text)
	}
}

func TestRenderHTMLIframePlaceholder(t *testing.T) {
	got := renderFragment(t, `<iframe src="https://www.ncbi.nlm.nih.gov/clinvar/variation/12345/"></iframe>`)

	if !strings.Contains(got.Text, "[embedded viewer]") {
		t.Errorf("output missing viewer placeholder:\n%s", got.Text)
	}
	if !strings.Contains(got.Text, "clinvar/variation/12345") {
		t.Errorf("placeholder missing source URL:\n%s", got.Text)
	}
}

func TestRenderHTMLLists(t *testing.T) {
	got := renderFragment(t, `<ul><li>alpha</li><li>beta</li></ul><ol><li>first</li><li>second</li></ol>`)

	if !strings.Contains(got.Text, "• alpha") || !strings.Contains(got.Text, "• beta") {
		t.Errorf("unordered list markers missing:\n%s", got.Text)
	}
	if !strings.Contains(got.Text, "1. first") || !strings.Contains(got.Text, "2. second") {
		t.Errorf("ordered list numbering missing:\n%s", got.Text)
	}
}

func TestRenderHTMLLinks(t *testing.T) {
	got := renderFragment(t, `<p>See <a href="https://pubmed.ncbi.nlm.nih.gov/12345/">the study</a>.</p>`)

	if !strings.Contains(got.Text, "the study") {
		t.Errorf("link text missing:\n%s", got.Text)
	}
	if !strings.Contains(got.Text, "https://pubmed.ncbi.nlm.nih.gov/12345/") {
		t.Errorf("link target missing:\n%s", got.Text)
	}
}

func TestRenderHTMLSkipsScriptAndStyle(t *testing.T) {
	got := renderFragment(t, `<style>p { color: red }</style><script>alert(1)</script><p>visible</p>`)

	if strings.Contains(got.Text, "alert") || strings.Contains(got.Text, "color") {
		t.Errorf("script or style leaked into output:\n%s", got.Text)
	}
	if !strings.Contains(got.Text, "visible") {
		t.Errorf("paragraph text missing:\n%s", got.Text)
	}
}

func TestRenderHTMLPreWithoutLanguage(t *testing.T) {
	got := renderFragment(t, "<pre>raw output\nline two</pre>")

	if len(got.CodeBlocks) != 1 {
		t.Fatalf("got %d code blocks, want 1", len(got.CodeBlocks))
	}
	if got.CodeBlocks[0].Code != "raw output\nline two" {
		t.Errorf("code = %q", got.CodeBlocks[0].Code)
	}
	if got.CodeBlocks[0].Language != "" {
		t.Errorf("language = %q, want empty", got.CodeBlocks[0].Language)
	}
}

func TestRenderHTMLMultipleCodeBlocksInOrder(t *testing.T) {
	got := renderFragment(t, `<pre><code>first</code></pre><p>and</p><pre><code>second</code></pre>`)

	if len(got.CodeBlocks) != 2 {
		t.Fatalf("got %d code blocks, want 2", len(got.CodeBlocks))
	}
	if got.CodeBlocks[0].Code != "first" || got.CodeBlocks[1].Code != "second" {
		t.Errorf("blocks out of order: %+v", got.CodeBlocks)
	}
}

func TestRenderHTMLMalformedFragment(t *testing.T) {
	// The html5 parser repairs unclosed tags; output should still carry
	// the visible text.
	got := renderFragment(t, `<div><p>unclosed`)
	if !strings.Contains(got.Text, "unclosed") {
		t.Errorf("malformed fragment lost text:\n%s", got.Text)
	}
}

func TestCollapseSpace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello   world  ", " hello world "},
		{"\n\tindented\n", " indented "},
		{"single", "single"},
		{"   ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := collapseSpace(tt.in); got != tt.want {
			t.Errorf("collapseSpace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
