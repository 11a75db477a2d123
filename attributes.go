package kses

import "strings"

// attribute is one name/value pair found inside a tag.
type attribute struct {
	name      string
	value     string
	whole     string
	valueless bool
}

type attrState uint8

const (
	stateName attrState = iota
	stateAfterName
	stateValue
)

// stripAttributes rebuilds an opening tag keeping only the attributes the
// policy allows for it. A closing XHTML slash ("<br />") is carried over.
func (f *filter) stripAttributes(tag, attrText string) string {
	slash := ""
	if hasXHTMLSlash(attrText) {
		slash = " /"
	}

	rules := f.tags[asciiLower(tag)]
	if len(rules) == 0 {
		return "<" + tag + slash + ">"
	}
	attrText = attrText[spanFunc(attrText, isSpace):]

	var b strings.Builder
	for _, attr := range f.combineAttributes(attrText) {
		c, ok := rules[attr.name]
		if !ok || !c.accepts(attr) {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(attr.whole)
	}
	kept := strings.Map(func(r rune) rune {
		if r == '<' || r == '>' {
			return -1
		}
		return r
	}, b.String())

	return "<" + tag + kept + slash + ">"
}

// hasXHTMLSlash reports whether s ends with whitespace, '/' and optional
// whitespace.
func hasXHTMLSlash(s string) bool {
	i := len(s)
	for i > 0 && isSpace(s[i-1]) {
		i--
	}
	return i >= 2 && s[i-1] == '/' && isSpace(s[i-2])
}

// combineAttributes splits an attribute list into attributes. It quotes bare
// values, strips bad URL schemes from every value and skips over anything it
// cannot make sense of.
func (f *filter) combineAttributes(s string) []attribute {
	var attrs []attribute
	state := stateName
	name := ""

	for len(s) > 0 {
		ok := false
		switch state {
		case stateName:
			n := spanFunc(s, isNameByte)
			if n > 0 {
				ok = true
				name = asciiLower(s[:n])
				s = s[n:]
				state = stateAfterName
			}

		case stateAfterName:
			ws := spanFunc(s, isSpace)
			if ws < len(s) && s[ws] == '=' {
				ok = true
				s = s[ws+1:]
				s = s[spanFunc(s, isSpace):]
				state = stateValue
				break
			}
			if ws > 0 {
				ok = true
				s = s[ws:]
				state = stateName
				attrs = append(attrs, valuelessAttribute(name))
			}

		case stateValue:
			raw, quote, rest, found := attributeValue(s)
			if found {
				ok = true
				s = rest
				state = stateName
				value := f.stripBadProtocol(raw)
				attrs = append(attrs, attribute{
					name:  name,
					value: value,
					whole: name + "=" + quote + value + quote,
				})
			}
		}

		if !ok {
			s = skipMalformed(s)
			state = stateName
		}
	}

	if state == stateAfterName {
		attrs = append(attrs, valuelessAttribute(name))
	}
	return attrs
}

func valuelessAttribute(name string) attribute {
	return attribute{name: name, whole: name, valueless: true}
}

// attributeValue reads a "double", 'single' or bare value that must be
// followed by whitespace or the end of the list. It returns the value, the
// quote to write it back with and the text after the trailing whitespace.
func attributeValue(s string) (value, quote, rest string, ok bool) {
	var end, next int
	switch s[0] {
	case '"', '\'':
		closing := strings.IndexByte(s[1:], s[0])
		if closing < 0 {
			return "", "", s, false
		}
		end = 1 + closing
		value = s[1:end]
		next = end + 1
		quote = s[:1]
	default:
		end = spanFunc(s, func(c byte) bool { return !isSpace(c) && c != '"' && c != '\'' })
		if end == 0 {
			return "", "", s, false
		}
		value = s[:end]
		next = end
		quote = `"`
	}
	ws := spanFunc(s[next:], isSpace)
	if ws == 0 && next < len(s) {
		return "", "", s, false
	}
	return value, quote, s[next+ws:], true
}

// skipMalformed drops the text the tokenizer choked on: quoted runs and
// other non-whitespace up to the next whitespace, then the whitespace
// itself. It always consumes at least one byte of a non-empty s.
func skipMalformed(s string) string {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '"' || c == '\'' {
			closing := strings.IndexByte(s[i+1:], c)
			if closing < 0 {
				return ""
			}
			i += closing + 2
			continue
		}
		if isSpace(c) {
			break
		}
		i++
	}
	return s[i+spanFunc(s[i:], isSpace):]
}
