package org

import (
	"fmt"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
)

// HTML renders the document tree to an HTML fragment. Every emitted tag comes
// from the fixed renderer capability set (h1-h6, p, ul, ol, li, a, code, pre,
// hr, strong, em), so downstream consumers never see an unknown tag. Classing
// is left to the enhancer.
func (d *Document) HTML() string {
	var b strings.Builder
	for _, block := range d.Blocks {
		writeBlock(&b, block)
	}
	return b.String()
}

func writeBlock(b *strings.Builder, block Block) {
	switch n := block.(type) {
	case Header:
		fmt.Fprintf(b, "<h%d>", n.Level)
		writeInlines(b, n.Content)
		fmt.Fprintf(b, "</h%d>\n", n.Level)
	case Paragraph:
		b.WriteString("<p>")
		writeInlines(b, n.Content)
		b.WriteString("</p>\n")
	case List:
		tag := "ul"
		if n.Ordered {
			tag = "ol"
		}
		fmt.Fprintf(b, "<%s>\n", tag)
		for _, item := range n.Items {
			b.WriteString("<li>")
			writeInlines(b, item)
			b.WriteString("</li>\n")
		}
		fmt.Fprintf(b, "</%s>\n", tag)
	case CodeBlock:
		writeCode(b, n)
	case HorizontalRule:
		b.WriteString("<hr/>\n")
	}
}

// writeCode highlights the block with chroma when the language is known,
// otherwise emits a plain pre/code pair. Chroma's class-based output carries
// the `chroma` class the enhancer keys on.
func writeCode(b *strings.Builder, n CodeBlock) {
	if n.Language != "" {
		if lexer := lexers.Get(n.Language); lexer != nil {
			iterator, err := lexer.Tokenise(nil, n.Code)
			if err == nil {
				formatter := chromahtml.New(chromahtml.WithClasses(true))
				if err := formatter.Format(b, chromastyles.Fallback, iterator); err == nil {
					b.WriteString("\n")
					return
				}
			}
		}
	}
	b.WriteString("<pre><code")
	if n.Language != "" {
		fmt.Fprintf(b, " class=%q", "language-"+n.Language)
	}
	b.WriteString(">")
	b.WriteString(html.EscapeString(n.Code))
	b.WriteString("</code></pre>\n")
}

func writeInlines(b *strings.Builder, spans []Inline) {
	for _, span := range spans {
		writeInline(b, span)
	}
}

func writeInline(b *strings.Builder, span Inline) {
	switch n := span.(type) {
	case PlainText:
		b.WriteString(html.EscapeString(n.Text))
	case Bold:
		b.WriteString("<strong>")
		writeInlines(b, n.Children)
		b.WriteString("</strong>")
	case Italic:
		b.WriteString("<em>")
		writeInlines(b, n.Children)
		b.WriteString("</em>")
	case InlineCode:
		b.WriteString("<code>")
		b.WriteString(html.EscapeString(n.Text))
		b.WriteString("</code>")
	case Link:
		fmt.Fprintf(b, "<a href=%q", n.Target)
		if n.External() {
			b.WriteString(` target="_blank" rel="noopener noreferrer"`)
		}
		b.WriteString(">")
		b.WriteString(html.EscapeString(n.Text()))
		b.WriteString("</a>")
	}
}
