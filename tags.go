package kses

import "strings"

type spanKind uint8

const (
	spanText spanKind = iota
	spanLoneLT
	spanLoneGT
	spanComment
	spanTag
)

// span is a classified slice [start, end) of the input.
type span struct {
	kind       spanKind
	start, end int
}

// scan splits s into literal text and tag-like candidates. Every '<' starts a
// candidate, tried in order: a lone '<' not followed by a letter, '!' or '/';
// a comment on a single line; everything up to the next '>' or the end of
// the input. A '>' on its own is a candidate too.
func scan(s string) []span {
	var spans []span
	comments := commentFinder{s: s, close: -1, newline: -1}
	text := 0
	flush := func(at int) {
		if at > text {
			spans = append(spans, span{kind: spanText, start: text, end: at})
		}
	}

	for i := 0; i < len(s); {
		switch s[i] {
		case '>':
			flush(i)
			spans = append(spans, span{kind: spanLoneGT, start: i, end: i + 1})
			i++
			text = i

		case '<':
			flush(i)
			var sp span
			switch {
			case i+1 < len(s) && !isAlpha(s[i+1]) && s[i+1] != '!' && s[i+1] != '/':
				sp = span{kind: spanLoneLT, start: i, end: i + 1}
			case strings.HasPrefix(s[i:], "<!--"):
				if end := comments.end(i); end > 0 {
					sp = span{kind: spanComment, start: i, end: i + end}
					break
				}
				sp = span{kind: spanTag, start: i, end: tagEnd(s, i)}
			default:
				sp = span{kind: spanTag, start: i, end: tagEnd(s, i)}
			}
			spans = append(spans, sp)
			i = sp.end
			text = i

		default:
			i++
		}
	}
	flush(len(s))
	return spans
}

// commentFinder finds the shortest single-line "<!--...-->". It remembers
// the next "-->" and newline it has seen, so a run of unterminated comments
// is scanned once instead of once per "<!--".
type commentFinder struct {
	s              string
	close, newline int
}

// end returns the length of the comment opened at i, or 0 when a newline or
// the end of the input comes before "-->".
func (c *commentFinder) end(i int) int {
	from := i + len("<!--")
	c.close = nextIndex(c.s, "-->", from, c.close)
	c.newline = nextIndex(c.s, "\n", from, c.newline)
	if c.close == len(c.s) || c.newline < c.close {
		return 0
	}
	return c.close + len("-->") - i
}

// nextIndex returns the index of the first sub in s at or after from, or
// len(s). cached is the result of an earlier call with a smaller from.
func nextIndex(s, sub string, from, cached int) int {
	if cached >= from {
		return cached
	}
	if from >= len(s) {
		return len(s)
	}
	if at := strings.Index(s[from:], sub); at >= 0 {
		return from + at
	}
	return len(s)
}

// tagEnd returns the index just past the '>' closing the candidate opened
// at i, or len(s).
func tagEnd(s string, i int) int {
	if gt := strings.IndexByte(s[i+1:], '>'); gt >= 0 {
		return i + 1 + gt + 1
	}
	return len(s)
}

// stripTag filters one candidate. Disallowed elements and anything too
// malformed to classify become the empty string.
func (f *filter) stripTag(sp span, s string) string {
	candidate := s[sp.start:sp.end]
	switch sp.kind {
	case spanLoneGT:
		return "&gt;"
	case spanLoneLT:
		return "&lt;"
	}
	if len(candidate) == 1 {
		return "&lt;"
	}

	closing, name, attrText, ok := parseTag(candidate)
	if !ok {
		comment, found := trailingComment(candidate)
		if !found {
			return ""
		}
		if _, allowed := f.tags["!--"]; !allowed {
			return ""
		}
		return comment
	}

	if _, allowed := f.tags[asciiLower(name)]; !allowed {
		return ""
	}
	if closing {
		return "</" + name + ">"
	}
	return f.stripAttributes(name, attrText)
}

// parseTag splits "<  / name attrs>" into its parts. attrText keeps the
// whitespace that follows the name. The closing '>' may be missing when the
// candidate ran to the end of the input.
func parseTag(s string) (closing bool, name, attrText string, ok bool) {
	i := 1
	i += spanFunc(s[i:], isSpace)
	if i < len(s) && s[i] == '/' {
		closing = true
		i++
		i += spanFunc(s[i:], isSpace)
	}
	n := spanFunc(s[i:], isTagNameByte)
	if n == 0 {
		return false, "", "", false
	}
	name = s[i : i+n]
	attrText = s[i+n:]
	if gt := strings.IndexByte(attrText, '>'); gt >= 0 {
		attrText = attrText[:gt]
	}
	return closing, name, attrText, true
}

// trailingComment finds the leftmost "<!--" from which s is a single-line
// comment running to its end.
func trailingComment(s string) (string, bool) {
	if !strings.HasSuffix(s, "-->") {
		return "", false
	}
	nl := strings.LastIndexByte(s, '\n')
	for from := nl + 1; ; {
		at := strings.Index(s[from:], "<!--")
		if at < 0 {
			return "", false
		}
		start := from + at
		if len(s)-start >= len("<!---->") {
			return s[start:], true
		}
		from = start + 1
	}
}
