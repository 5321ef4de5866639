// Copyright (c) 2025 Bioterm Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// CODE BLOCKS
// =============================================================================

// CodeBlock is one code block extracted from a rendered message. Code holds
// the raw source text, exactly what a copy action places on the clipboard.
type CodeBlock struct {
	Language string
	Code     string
}

// ExtractFences collects fenced code blocks from markdown text in order.
// An unclosed trailing fence still yields a block.
func ExtractFences(text string) []CodeBlock {
	var blocks []CodeBlock
	var codeLines []string
	var language string
	var inFence bool

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "```") {
			if inFence {
				blocks = append(blocks, CodeBlock{
					Language: language,
					Code:     strings.Join(codeLines, "\n"),
				})
				codeLines = nil
				language = ""
				inFence = false
			} else {
				language = strings.TrimSpace(strings.TrimPrefix(line, "```"))
				inFence = true
			}
			continue
		}
		if inFence {
			codeLines = append(codeLines, line)
		}
	}

	if inFence && len(codeLines) > 0 {
		blocks = append(blocks, CodeBlock{
			Language: language,
			Code:     strings.Join(codeLines, "\n"),
		})
	}

	return blocks
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// Highlight applies syntax highlighting using the chroma library.
// Returns the code unchanged when highlighting fails.
func Highlight(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}

// renderCodeBlock renders a highlighted, bordered code block for the HTML
// path. The markdown path leaves this to glamour.
func renderCodeBlock(block CodeBlock, width int) string {
	code := strings.TrimRight(block.Code, "\n")
	content := Highlight(code, block.Language)

	var header string
	if block.Language != "" {
		header = lipgloss.NewStyle().
			Faint(true).
			Bold(true).
			Render(block.Language) + "\n"
	}

	maxWidth := width - 4
	if maxWidth < minWidth {
		maxWidth = minWidth
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1).
		MaxWidth(maxWidth).
		Render(header + content)
}
