// Package markdown renders markdown-format nodes to HTML. Goldmark does the
// conversion; fenced code blocks with a known language are then swapped for
// chroma's class-based highlighter output so the enhancer sees the same
// highlighted-pre shape as the org path.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
)

// converter is stateless after construction and safe for concurrent Convert
// calls.
var converter = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Render converts markdown text to an HTML fragment with highlighted code
// blocks.
func Render(text string) (string, error) {
	var buf bytes.Buffer
	if err := converter.Convert([]byte(text), &buf); err != nil {
		return "", err
	}

	root, err := html.Parse(&buf)
	if err != nil {
		return "", err
	}
	highlightCodeBlocks(root)

	body := findBody(root)
	if body == nil {
		return "", nil
	}
	var b strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// highlightCodeBlocks replaces pre>code.language-* blocks with chroma output.
// Unknown languages are left as goldmark emitted them.
func highlightCodeBlocks(root *html.Node) {
	var pres []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "pre" {
			pres = append(pres, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	for _, pre := range pres {
		code := firstElement(pre, "code")
		if code == nil {
			continue
		}
		lang := languageClass(code)
		if lang == "" {
			continue
		}
		lexer := lexers.Get(lang)
		if lexer == nil {
			continue
		}

		source := textContent(code)
		iterator, err := lexer.Tokenise(nil, source)
		if err != nil {
			continue
		}
		var out strings.Builder
		formatter := chromahtml.New(chromahtml.WithClasses(true))
		if err := formatter.Format(&out, chromastyles.Fallback, iterator); err != nil {
			continue
		}

		replacement, err := html.ParseFragment(strings.NewReader(out.String()), &html.Node{
			Type:     html.ElementNode,
			Data:     "body",
			DataAtom: atom.Body,
		})
		if err != nil || len(replacement) == 0 {
			continue
		}
		parent := pre.Parent
		for _, n := range replacement {
			parent.InsertBefore(n, pre)
		}
		parent.RemoveChild(pre)
	}
}

func firstElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
	}
	return nil
}

// languageClass extracts the language from goldmark's language-* class.
func languageClass(code *html.Node) string {
	for _, a := range code.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if lang, ok := strings.CutPrefix(c, "language-"); ok {
				return lang
			}
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

func findBody(root *html.Node) *html.Node {
	var body *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return body
}
