package org

import (
	"regexp"
	"strings"
)

const (
	srcBegin = "#+BEGIN_SRC"
	srcEnd   = "#+END_SRC"

	maxHeaderLevel = 6
)

var orderedItemRe = regexp.MustCompile(`^(\d+)\. (.*)$`)

// Parse converts org text into a Document. It processes the input line by
// line and never returns an error: malformed input degrades to literal
// paragraphs.
func Parse(text string) *Document {
	p := &parser{}
	for _, line := range splitLines(text) {
		p.feed(line)
	}
	p.finish()
	return &Document{Blocks: p.blocks}
}

// splitLines normalizes any line-ending style to \n before splitting.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// parser holds the in-progress state for one Parse call: a pending list
// accumulator and a pending code block accumulator.
type parser struct {
	blocks []Block

	listItems   [][]Inline
	listOrdered bool

	inCode    bool
	codeLang  string
	codeLines []string
}

func (p *parser) feed(line string) {
	trimmed := strings.TrimSpace(line)

	// Inside an open code block every line is literal, including blank
	// lines, until the exact end marker.
	if p.inCode {
		if trimmed == srcEnd {
			p.flushCode()
			return
		}
		p.codeLines = append(p.codeLines, line)
		return
	}

	if strings.HasPrefix(trimmed, srcBegin) {
		p.flushList()
		p.inCode = true
		p.codeLang = ""
		if fields := strings.Fields(trimmed); len(fields) > 1 {
			p.codeLang = fields[1]
		}
		return
	}

	if trimmed == "" {
		p.flushList()
		return
	}

	if isRule(trimmed) {
		p.flushList()
		p.blocks = append(p.blocks, HorizontalRule{})
		return
	}

	if stars := leadingStars(trimmed); stars > 0 {
		p.flushList()
		level := stars
		if level > maxHeaderLevel {
			level = maxHeaderLevel
		}
		content := strings.TrimSpace(trimmed[stars:])
		p.blocks = append(p.blocks, Header{Level: level, Content: ParseInline(content)})
		return
	}

	if item, ordered, ok := listItem(trimmed); ok {
		if len(p.listItems) == 0 {
			p.listOrdered = ordered
		}
		p.listItems = append(p.listItems, ParseInline(item))
		return
	}

	p.flushList()
	p.blocks = append(p.blocks, Paragraph{Content: ParseInline(trimmed)})
}

// finish flushes any pending list and emits an unterminated code block as the
// code collected so far.
func (p *parser) finish() {
	p.flushList()
	if p.inCode {
		p.flushCode()
	}
}

func (p *parser) flushList() {
	if len(p.listItems) == 0 {
		return
	}
	p.blocks = append(p.blocks, List{Ordered: p.listOrdered, Items: p.listItems})
	p.listItems = nil
	p.listOrdered = false
}

func (p *parser) flushCode() {
	p.blocks = append(p.blocks, CodeBlock{
		Language: p.codeLang,
		Code:     strings.Join(p.codeLines, "\n"),
	})
	p.inCode = false
	p.codeLang = ""
	p.codeLines = nil
}

// leadingStars counts the run of asterisks at the start of the line.
func leadingStars(s string) int {
	count := 0
	for _, c := range s {
		if c != '*' {
			break
		}
		count++
	}
	return count
}

// isRule reports whether the line consists solely of three or more dashes.
func isRule(s string) bool {
	return len(s) >= 3 && strings.Trim(s, "-") == ""
}

// listItem matches `- item` and `N. item` lines, returning the item text.
func listItem(s string) (item string, ordered bool, ok bool) {
	if strings.HasPrefix(s, "- ") {
		return strings.TrimSpace(s[2:]), false, true
	}
	if m := orderedItemRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[2]), true, true
	}
	return "", false, false
}
