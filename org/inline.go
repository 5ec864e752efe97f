package org

import "regexp"

// The four inline passes run in a fixed order over the span list. Each pass
// only rescans PlainText spans, so a region claimed by an earlier pass is
// never re-matched by a later one. Swapping the order changes output for
// inputs like `*a /b/ c*`, so it must stay bold, italic, code, links.
var (
	boldRe   = regexp.MustCompile(`\*([^*]+)\*`)
	italicRe = regexp.MustCompile(`/([^/]+)/`)
	codeRe   = regexp.MustCompile(`=([^=]+)=`)
	linkRe   = regexp.MustCompile(`\[\[([^\]]+)\](?:\[([^\]]+)\])?\]`)
)

// ParseInline resolves inline formatting within a single text run. Text with
// no recognized markup comes back as a single PlainText span; malformed
// markup is left as literal text.
func ParseInline(text string) []Inline {
	if text == "" {
		return nil
	}
	spans := []Inline{PlainText{Text: text}}
	spans = applyPass(spans, boldRe, func(groups []string) Inline {
		return Bold{Children: []Inline{PlainText{Text: groups[1]}}}
	})
	spans = applyPass(spans, italicRe, func(groups []string) Inline {
		return Italic{Children: []Inline{PlainText{Text: groups[1]}}}
	})
	spans = applyPass(spans, codeRe, func(groups []string) Inline {
		return InlineCode{Text: groups[1]}
	})
	spans = applyPass(spans, linkRe, func(groups []string) Inline {
		return Link{Target: groups[1], Description: groups[2]}
	})
	return spans
}

// applyPass rebuilds the span list, splitting each PlainText span around the
// pattern's matches. Already-formatted spans pass through untouched.
func applyPass(spans []Inline, re *regexp.Regexp, build func(groups []string) Inline) []Inline {
	out := make([]Inline, 0, len(spans))
	for _, span := range spans {
		plain, ok := span.(PlainText)
		if !ok {
			out = append(out, span)
			continue
		}
		rest := plain.Text
		for {
			loc := re.FindStringSubmatchIndex(rest)
			if loc == nil {
				break
			}
			if before := rest[:loc[0]]; before != "" {
				out = append(out, PlainText{Text: before})
			}
			groups := make([]string, 0, len(loc)/2)
			for i := 0; i < len(loc); i += 2 {
				if loc[i] < 0 {
					groups = append(groups, "")
				} else {
					groups = append(groups, rest[loc[i]:loc[i+1]])
				}
			}
			out = append(out, build(groups))
			rest = rest[loc[1]:]
		}
		if rest != "" {
			out = append(out, PlainText{Text: rest})
		}
	}
	return out
}
