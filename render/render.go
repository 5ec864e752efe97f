// Package render is the facade over the full pipeline: dialect detection,
// parsing, tree enhancement and sanitization. It is a pure function of its
// inputs, safe to call concurrently, and never panics outward: any failure
// degrades to a small fallback fragment plus the error.
package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gerunddev/roamweb/enhance"
	"github.com/gerunddev/roamweb/markdown"
	"github.com/gerunddev/roamweb/org"
)

// Dialect selects the markup grammar for a document.
type Dialect int

const (
	// DialectAuto sniffs the content.
	DialectAuto Dialect = iota
	// DialectOrg is the org-mode dialect handled by the org package.
	DialectOrg
	// DialectMarkdown is GFM markdown handled by the markdown package.
	DialectMarkdown
)

// Options control one render invocation. The zero value auto-detects the
// dialect, uses default styles and sanitizes the output.
type Options struct {
	Dialect Dialect
	// Styles overrides the enhancer's default class tables.
	Styles *enhance.Styles
	// SkipSanitize bypasses the bluemonday pass; only for trusted input.
	SkipSanitize bool
}

// sanitizer is built once and is safe for concurrent Sanitize calls.
var sanitizer = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("span")
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("target", "rel").OnElements("a")
	return p
}

// HTML renders document text to an enhanced, sanitized HTML fragment. On any
// failure it returns a fallback fragment carrying the error text together
// with the error itself, so callers can show the degraded output without
// crashing the page.
func HTML(text string, opts Options) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v", r)
			out = Fallback(err)
		}
	}()

	dialect := opts.Dialect
	if dialect == DialectAuto {
		dialect = DetectDialect(text)
	}

	var raw string
	switch dialect {
	case DialectMarkdown:
		raw, err = markdown.Render(text)
		if err != nil {
			return Fallback(err), err
		}
	default:
		raw = org.Parse(text).HTML()
	}

	enhanced, err := enhanceFragment(raw, opts.Styles)
	if err != nil {
		return Fallback(err), err
	}

	if opts.SkipSanitize {
		return enhanced, nil
	}
	return sanitizer.Sanitize(enhanced), nil
}

// enhanceFragment parses the fragment, runs the enhancer over it and renders
// it back.
func enhanceFragment(fragment string, styles *enhance.Styles) (string, error) {
	body := &xhtml.Node{Type: xhtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := xhtml.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}

	enhance.New(styles).Enhance(body)

	var b strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := xhtml.Render(&b, c); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// Fallback is the generic rendering-failure fragment shown in place of a
// document body.
func Fallback(err error) string {
	return fmt.Sprintf(`<p class="render-error">Failed to render document: %s</p>`,
		html.EscapeString(err.Error()))
}

var (
	orgHeaderRe = regexp.MustCompile(`^\*+ `)
	mdHeaderRe  = regexp.MustCompile(`^#{1,6} `)
)

// DetectDialect sniffs the markup grammar from content cues: org keyword
// lines and star headers versus hash headers and fences. Markdown wins ties.
func DetectDialect(text string) Dialect {
	orgScore, mdScore := 0, 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#+"), strings.HasPrefix(trimmed, ":PROPERTIES:"):
			orgScore += 2
		case orgHeaderRe.MatchString(trimmed):
			orgScore++
		case mdHeaderRe.MatchString(trimmed), strings.HasPrefix(trimmed, "```"):
			mdScore += 2
		case strings.Contains(trimmed, "**") || strings.Contains(trimmed, "]("):
			mdScore++
		}
	}
	if orgScore > mdScore {
		return DialectOrg
	}
	return DialectMarkdown
}
