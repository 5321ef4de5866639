// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"

	"github.com/bioterm/bioterm/internal/util"
)

// =============================================================================
// HTML RENDERING
// =============================================================================

// renderHTML flattens an HTML fragment into styled terminal text.
// Falls back to the markdown path when the fragment cannot be parsed.
func (r *Renderer) renderHTML(content string) Rendered {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return r.renderMarkdown(content)
	}

	w := &htmlWriter{width: r.width}
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			w.walkChildren(n)
		}
	})

	text := strings.TrimRight(w.out.String(), "\n")
	if text != "" {
		text += "\n"
	}
	return Rendered{Text: text, CodeBlocks: w.blocks}
}

// htmlWriter accumulates terminal text while walking an HTML node tree.
type htmlWriter struct {
	out    strings.Builder
	blocks []CodeBlock
	width  int

	// listMarkers holds the marker state for each open list. Ordered lists
	// carry a counter, unordered lists a -1 sentinel.
	listMarkers []int
}

var (
	headingStyle     = lipgloss.NewStyle().Bold(true)
	boldStyle        = lipgloss.NewStyle().Bold(true)
	italicStyle      = lipgloss.NewStyle().Italic(true)
	inlineCodeStyle  = lipgloss.NewStyle().Faint(true)
	placeholderStyle = lipgloss.NewStyle().Faint(true).Italic(true)
)

func (w *htmlWriter) walkChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *htmlWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.writeInline(collapseSpace(n.Data))
	case html.ElementNode:
		w.walkElement(n)
	}
}

func (w *htmlWriter) walkElement(n *html.Node) {
	switch n.Data {
	case "script", "style", "head", "title":
		return

	case "br":
		w.out.WriteString("\n")

	case "hr":
		w.ensureBlankLine()
		w.out.WriteString(strings.Repeat("─", min(w.width, 40)) + "\n")

	case "h1", "h2", "h3", "h4", "h5", "h6":
		w.ensureBlankLine()
		w.out.WriteString(headingStyle.Render(nodeText(n)) + "\n")

	case "p", "div", "section", "article", "figure", "figcaption":
		w.ensureBreak()
		w.walkChildren(n)
		w.ensureBreak()

	case "blockquote":
		w.ensureBreak()
		for _, line := range strings.Split(strings.TrimSpace(nodeText(n)), "\n") {
			w.out.WriteString("│ " + line + "\n")
		}

	case "strong", "b":
		w.writeInline(boldStyle.Render(nodeText(n)))

	case "em", "i":
		w.writeInline(italicStyle.Render(nodeText(n)))

	case "code":
		// Inline code; block code is handled under pre.
		w.writeInline(inlineCodeStyle.Render(nodeText(n)))

	case "a":
		text := nodeText(n)
		href := attr(n, "href")
		if href != "" && href != text {
			w.writeInline(text + " (" + href + ")")
		} else {
			w.writeInline(text)
		}

	case "img":
		w.ensureBreak()
		w.out.WriteString(imagePlaceholder(n) + "\n")

	case "iframe", "embed", "object":
		w.ensureBreak()
		label := "[embedded viewer]"
		if src := attr(n, "src"); src != "" {
			label += " " + src
		}
		w.out.WriteString(placeholderStyle.Render(label) + "\n")

	case "ul":
		w.pushList(-1)
		w.walkChildren(n)
		w.popList()

	case "ol":
		w.pushList(1)
		w.walkChildren(n)
		w.popList()

	case "li":
		w.ensureBreak()
		w.out.WriteString(w.listIndent() + w.nextMarker() + " ")
		w.walkChildren(n)
		w.out.WriteString("\n")

	case "pre":
		w.ensureBreak()
		block := preBlock(n)
		w.blocks = append(w.blocks, block)
		w.out.WriteString(renderCodeBlock(block, w.width) + "\n")

	case "table":
		w.ensureBreak()
		w.out.WriteString(renderTable(n, w.width))

	default:
		w.walkChildren(n)
	}
}

// writeInline appends flowing text, inserting a separating space when the
// previous output did not end at a boundary.
func (w *htmlWriter) writeInline(text string) {
	if text == "" {
		return
	}
	out := w.out.String()
	if out != "" && !strings.HasSuffix(out, "\n") && !strings.HasSuffix(out, " ") &&
		!strings.HasPrefix(text, " ") {
		w.out.WriteString(" ")
	}
	w.out.WriteString(strings.TrimLeft(text, " "))
}

// ensureBreak guarantees the output ends on a line boundary.
func (w *htmlWriter) ensureBreak() {
	out := w.out.String()
	if out != "" && !strings.HasSuffix(out, "\n") {
		w.out.WriteString("\n")
	}
}

// ensureBlankLine guarantees a blank line before the next block.
func (w *htmlWriter) ensureBlankLine() {
	out := w.out.String()
	if out == "" {
		return
	}
	w.ensureBreak()
	if !strings.HasSuffix(w.out.String(), "\n\n") {
		w.out.WriteString("\n")
	}
}

// =============================================================================
// LIST STATE
// =============================================================================

func (w *htmlWriter) pushList(counter int) {
	w.listMarkers = append(w.listMarkers, counter)
}

func (w *htmlWriter) popList() {
	if len(w.listMarkers) > 0 {
		w.listMarkers = w.listMarkers[:len(w.listMarkers)-1]
	}
	w.ensureBreak()
}

func (w *htmlWriter) listIndent() string {
	depth := len(w.listMarkers) - 1
	if depth < 0 {
		depth = 0
	}
	return strings.Repeat("  ", depth)
}

// nextMarker returns the bullet or number for the current list item.
func (w *htmlWriter) nextMarker() string {
	if len(w.listMarkers) == 0 {
		return "•"
	}
	i := len(w.listMarkers) - 1
	if w.listMarkers[i] < 0 {
		return "•"
	}
	marker := strconv.Itoa(w.listMarkers[i]) + "."
	w.listMarkers[i]++
	return marker
}

// =============================================================================
// NODE HELPERS
// =============================================================================

// nodeText extracts the collapsed text content of a node and its children.
// Images inside flowing text contribute their placeholder.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "br":
				b.WriteString("\n")
				return
			case "img":
				b.WriteString(" " + imagePlaceholder(n) + " ")
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return collapseSpace(b.String())
}

// imagePlaceholder renders an img element as a styled textual placeholder,
// preferring alt text over the source URL.
func imagePlaceholder(n *html.Node) string {
	label := attr(n, "alt")
	if label == "" {
		label = attr(n, "src")
	}
	text := "[image]"
	if label != "" {
		text += " " + label
	}
	return placeholderStyle.Render(text)
}

// preBlock extracts the raw code and language hint from a pre element.
// Language comes from a nested code element's class, e.g. "language-python".
func preBlock(n *html.Node) CodeBlock {
	var language string
	var code strings.Builder

	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			code.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && n.Data == "code" && language == "" {
			for _, class := range strings.Fields(attr(n, "class")) {
				if lang, ok := strings.CutPrefix(class, "language-"); ok {
					language = lang
				} else if lang, ok := strings.CutPrefix(class, "lang-"); ok {
					language = lang
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)

	return CodeBlock{
		Language: language,
		Code:     strings.Trim(code.String(), "\n"),
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// collapseSpace folds runs of whitespace into single spaces, preserving a
// single leading/trailing space so inline fragments keep word boundaries.
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	out := strings.Join(fields, " ")
	if s[0] == ' ' || s[0] == '\n' || s[0] == '\t' {
		out = " " + out
	}
	last := s[len(s)-1]
	if last == ' ' || last == '\n' || last == '\t' {
		out += " "
	}
	return out
}

// =============================================================================
// TABLES
// =============================================================================

// renderTable lays out a table with padded columns and a header separator.
func renderTable(n *html.Node, width int) string {
	var rows [][]string
	var headerRows int

	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			var isHeader bool
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type != html.ElementNode {
					continue
				}
				switch c.Data {
				case "th":
					isHeader = true
					cells = append(cells, nodeText(c))
				case "td":
					cells = append(cells, nodeText(c))
				}
			}
			if len(cells) > 0 {
				if isHeader && len(rows) == headerRows {
					headerRows++
				}
				rows = append(rows, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)

	if len(rows) == 0 {
		return ""
	}

	// Column widths follow the widest cell, measured in display cells so
	// wide runes line up.
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if cw := util.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	var b strings.Builder
	for ri, row := range rows {
		var parts []string
		for i, cell := range row {
			parts = append(parts, util.PadRight(cell, widths[i]))
		}
		line := strings.TrimRight(strings.Join(parts, "  "), " ")
		if ri < headerRows {
			line = boldStyle.Render(line)
		}
		b.WriteString(line + "\n")
		if ri == headerRows-1 {
			sep := 0
			for _, cw := range widths {
				sep += cw + 2
			}
			sep -= 2
			if sep > width {
				sep = width
			}
			if sep > 0 {
				b.WriteString(strings.Repeat("─", sep) + "\n")
			}
		}
	}
	return b.String()
}
