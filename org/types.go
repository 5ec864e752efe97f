// Package org parses a constrained org-mode dialect into a typed document
// tree and renders that tree to HTML. The parser never fails: unrecognized
// syntax degrades to literal text.
package org

import "strings"

// Document is the result of parsing one piece of org text. It is built fresh
// per Parse call and is read-only once returned.
type Document struct {
	Blocks []Block
}

// Block is a block-level node: Header, Paragraph, List, CodeBlock or
// HorizontalRule.
type Block interface {
	block()
}

// Header is a `* Heading` line. Level is 1-6.
type Header struct {
	Level   int
	Content []Inline
}

// Paragraph is any non-blank line not matched by another block rule.
type Paragraph struct {
	Content []Inline
}

// List accumulates consecutive `- item` or `1. item` lines.
type List struct {
	Ordered bool
	Items   [][]Inline
}

// CodeBlock holds verbatim text between #+BEGIN_SRC and #+END_SRC markers.
type CodeBlock struct {
	Language string
	Code     string
}

// HorizontalRule is a line of three or more dashes.
type HorizontalRule struct{}

func (Header) block()         {}
func (Paragraph) block()      {}
func (List) block()           {}
func (CodeBlock) block()      {}
func (HorizontalRule) block() {}

// Inline is a span within a text run: PlainText, Bold, Italic, InlineCode or
// Link.
type Inline interface {
	inline()
}

// PlainText is an unformatted run of text.
type PlainText struct {
	Text string
}

// Bold is text wrapped in single asterisks.
type Bold struct {
	Children []Inline
}

// Italic is text wrapped in single slashes.
type Italic struct {
	Children []Inline
}

// InlineCode is text wrapped in equals signs.
type InlineCode struct {
	Text string
}

// Link is [[target]] or [[target][description]].
type Link struct {
	Target      string
	Description string
}

func (PlainText) inline()  {}
func (Bold) inline()       {}
func (Italic) inline()     {}
func (InlineCode) inline() {}
func (Link) inline()       {}

// External reports whether the link points outside the note graph and should
// open in a new browsing context.
func (l Link) External() bool {
	return strings.HasPrefix(l.Target, "http")
}

// Text returns the link's display text, falling back to the target when no
// description was given.
func (l Link) Text() string {
	if l.Description != "" {
		return l.Description
	}
	return l.Target
}
