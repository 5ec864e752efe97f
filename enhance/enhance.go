package enhance

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// todoVocabulary is the fixed set of recognized task keywords.
var todoVocabulary = []string{"TODO", "DONE", "DOING", "NEXT", "WAITING", "CANCELLED", "CANCELED"}

// Optional leading # inside the cookie: [#A] and [A] both match.
var priorityRe = regexp.MustCompile(`\[#?([ABC])\]`)

// highlightMarker identifies pre blocks produced by a class-based syntax
// highlighter; those are augmented, not reclassed.
const highlightMarker = "chroma"

// Enhancer applies semantic classification and presentation classes to an
// HTML element tree. It holds only immutable merged style tables, so one
// Enhancer is safe to share across concurrent renders.
type Enhancer struct {
	styles Styles
}

// New builds an Enhancer from the default class tables overlaid with the
// given overrides. Pass nil for pure defaults.
func New(overrides *Styles) *Enhancer {
	return &Enhancer{styles: merge(DefaultStyles(), overrides)}
}

// Enhance runs the four passes in their fixed order: TODO keywords,
// priorities, timestamps, then generic styling. The styling pass must run
// last since it skips already-classed nodes. Unmatched nodes are left
// untouched; Enhance never fails.
func (e *Enhancer) Enhance(root *html.Node) {
	e.todoKeywords(root)
	e.priorities(root)
	e.timestamps(root)
	e.genericStyling(root)
}

// todoKeywords classes every header by level and splits a leading task
// keyword into a styled badge. It also recolors spans an upstream converter
// already tagged with the todo-keyword class.
func (e *Enhancer) todoKeywords(root *html.Node) {
	var headers, tagged []*html.Node
	walkElements(root, func(n *html.Node) {
		if headerLevel(n.Data) > 0 {
			headers = append(headers, n)
		} else if hasClass(n, "todo-keyword") {
			tagged = append(tagged, n)
		}
	})

	for _, n := range tagged {
		if kw := strings.TrimSpace(textContent(n)); kw != "" {
			addClasses(n, e.keywordClasses(kw))
		}
	}

	for _, n := range headers {
		setClasses(n, e.styles.Headers[headerLevel(n.Data)])
		e.splitKeyword(n)
	}
}

// splitKeyword replaces a header's leading "KEYWORD rest" text node with a
// badge span followed by the remaining text. Only a single leading keyword is
// consumed; a second keyword-like token stays literal.
func (e *Enhancer) splitKeyword(header *html.Node) {
	text := header.FirstChild
	if text == nil || text.Type != html.TextNode {
		return
	}
	for _, kw := range todoVocabulary {
		if !strings.HasPrefix(text.Data, kw+" ") {
			continue
		}
		rest := strings.TrimLeft(text.Data[len(kw):], " \t")

		badge := newSpan(append(append([]string{}, keywordBadgeBase...), e.keywordClasses(kw)...))
		badge.AppendChild(&html.Node{Type: html.TextNode, Data: kw})

		header.InsertBefore(badge, text)
		if rest == "" {
			header.RemoveChild(text)
		} else {
			text.Data = rest
		}
		return
	}
}

// priorities replaces the first [#A]-style cookie per text node with a styled
// badge, splitting the surrounding text into before/badge/after siblings.
// Deliberately single-match per node per invocation: a second cookie in the
// same text node is left alone.
func (e *Enhancer) priorities(root *html.Node) {
	texts := collectTextNodes(root)
	for _, n := range texts {
		m := priorityRe.FindStringSubmatchIndex(n.Data)
		if m == nil || n.Parent == nil {
			continue
		}
		before := n.Data[:m[0]]
		letter := n.Data[m[2]:m[3]]
		after := n.Data[m[1]:]

		parent := n.Parent
		if before != "" {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: before}, n)
		}
		badge := newSpan(append(append([]string{}, priorityBadgeBase...), e.priorityClasses(letter)...))
		badge.AppendChild(&html.Node{Type: html.TextNode, Data: "#" + letter})
		parent.InsertBefore(badge, n)
		if after != "" {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: after}, n)
		}
		parent.RemoveChild(n)
	}
}

// timestamps rewrites nodes pre-tagged with the timestamp class: ranges are
// split on --, active/inactive stamps get their delimiters stripped, and each
// category contributes its icon and class set.
func (e *Enhancer) timestamps(root *html.Node) {
	var stamps []*html.Node
	walkElements(root, func(n *html.Node) {
		if hasClass(n, "timestamp") {
			stamps = append(stamps, n)
		}
	})

	ts := e.styles.Timestamps
	for _, n := range stamps {
		content := strings.TrimSpace(textContent(n))
		removeChildren(n)

		switch {
		case strings.Contains(content, "--"):
			parts := strings.SplitN(content, "--", 2)
			setClasses(n, ts.Range)
			appendIcon(n, ts.RangeIcon)
			appendText(n, stripDelimiters(parts[0]))
			appendIcon(n, ts.ArrowIcon)
			appendText(n, stripDelimiters(parts[1]))
		case strings.HasPrefix(content, "<"):
			setClasses(n, ts.Active)
			appendIcon(n, ts.CalendarIcon)
			appendText(n, stripDelimiters(content))
		case strings.HasPrefix(content, "["):
			setClasses(n, ts.Inactive)
			appendIcon(n, ts.ClockIcon)
			appendText(n, stripDelimiters(content))
		default:
			setClasses(n, ts.Fallback)
			appendText(n, content)
		}
	}
}

// genericStyling assigns default class sets by tag name to any element not
// already classed. pre and code are re-examined even when classed so that
// highlighter output can be augmented.
func (e *Enhancer) genericStyling(root *html.Node) {
	el := e.styles.Elements
	walkElements(root, func(n *html.Node) {
		switch n.Data {
		case "pre":
			switch {
			case hasClassContaining(n, highlightMarker):
				addClasses(n, el.PreHighlighted)
			case !hasClasses(n):
				setClasses(n, el.Pre)
			}
			return
		case "code":
			// Block code chrome lives on the enclosing pre.
			if n.Parent != nil && n.Parent.Data == "pre" {
				return
			}
			if !hasClasses(n) {
				setClasses(n, el.Code)
			}
			return
		}

		if hasClasses(n) {
			return
		}
		if level := headerLevel(n.Data); level > 0 {
			setClasses(n, e.styles.Headers[level])
			return
		}
		switch n.Data {
		case "p":
			setClasses(n, el.P)
		case "ul":
			setClasses(n, el.Ul)
		case "ol":
			setClasses(n, el.Ol)
		case "li":
			setClasses(n, el.Li)
		case "table":
			setClasses(n, el.Table)
		case "th":
			setClasses(n, el.Th)
		case "td":
			setClasses(n, el.Td)
		case "thead":
			setClasses(n, el.Thead)
		case "tbody":
			setClasses(n, el.Tbody)
		case "a":
			setClasses(n, el.A)
		case "strong":
			setClasses(n, el.Strong)
		case "em":
			setClasses(n, el.Em)
		case "hr":
			setClasses(n, el.Hr)
		}
	})
}

func (e *Enhancer) keywordClasses(kw string) []string {
	if classes, ok := e.styles.TodoKeywords[kw]; ok {
		return classes
	}
	return fallbackKeywordClasses
}

func (e *Enhancer) priorityClasses(letter string) []string {
	if classes, ok := e.styles.Priorities[letter]; ok {
		return classes
	}
	return fallbackPriorityClasses
}

// headerLevel returns 1-6 for h1..h6 tags and 0 for anything else.
func headerLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// stripDelimiters removes the bracket and angle delimiters around a
// timestamp side.
func stripDelimiters(s string) string {
	return strings.Trim(s, "<>[] \t")
}

// walkElements calls fn for every element node in document order. Callers
// that mutate the tree collect nodes first.
func walkElements(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, fn)
	}
}

// collectTextNodes snapshots every text node outside pre/code so a pass can
// mutate siblings while iterating.
func collectTextNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.ElementNode && (node.Data == "pre" || node.Data == "code") {
			return
		}
		if node.Type == html.TextNode {
			out = append(out, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return out
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

func classList(n *html.Node) []string {
	for _, a := range n.Attr {
		if a.Key == "class" {
			return strings.Fields(a.Val)
		}
	}
	return nil
}

func hasClasses(n *html.Node) bool {
	return len(classList(n)) > 0
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range classList(n) {
		if c == class {
			return true
		}
	}
	return false
}

func hasClassContaining(n *html.Node, marker string) bool {
	for _, c := range classList(n) {
		if strings.Contains(c, marker) {
			return true
		}
	}
	return false
}

func setClasses(n *html.Node, classes []string) {
	if len(classes) == 0 {
		return
	}
	val := strings.Join(classes, " ")
	for i, a := range n.Attr {
		if a.Key == "class" {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: val})
}

func addClasses(n *html.Node, classes []string) {
	if len(classes) == 0 {
		return
	}
	existing := classList(n)
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[c] = true
	}
	merged := existing
	for _, c := range classes {
		if !seen[c] {
			merged = append(merged, c)
		}
	}
	setClasses(n, merged)
}

func newSpan(classes []string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: "span", DataAtom: atom.Span}
	setClasses(n, classes)
	return n
}

func removeChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

func appendText(n *html.Node, text string) {
	span := newSpan(nil)
	span.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	n.AppendChild(span)
}

func appendIcon(n *html.Node, icon string) {
	if icon == "" {
		return
	}
	span := newSpan([]string{"ts-icon"})
	span.AppendChild(&html.Node{Type: html.TextNode, Data: icon})
	n.AppendChild(span)
}
