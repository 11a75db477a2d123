package kses

import "strings"

const softHyphen = "\u00ad"

// stripBadProtocol removes URL schemes that are not allowed from the start of
// value. Case, whitespace, soft hyphens and numeric entities inside the
// scheme are ignored, and the work is repeated until the value stops
// changing so "javascript:javascript:alert(57)" loses both prefixes.
func (f *filter) stripBadProtocol(value string) string {
	value = strings.ReplaceAll(value, "\x00", "")
	value = strings.ReplaceAll(value, softHyphen, "")
	for {
		next := f.stripProtocolOnce(value)
		if next == value {
			return value
		}
		value = next
	}
}

// stripProtocolOnce handles one scheme prefix: a run of entities, whitespace
// and ASCII alphanumerics followed by a colon and optional whitespace. The
// longest such prefix wins.
func (f *filter) stripProtocolOnce(value string) string {
	end, delim := schemePrefix(value)
	if end < 0 {
		return value
	}
	rest := end + delim
	for rest < len(value) && isSpace(value[rest]) {
		rest++
	}
	if scheme, ok := f.allowedScheme(value[:end]); ok {
		return scheme + ":" + value[rest:]
	}
	return value[rest:]
}

// schemePrefix returns the length of the scheme run and the length of the
// delimiter following it, or end == -1 when value does not start with a
// scheme.
func schemePrefix(value string) (end, delim int) {
	// '&' can only start an entity, so the run has a single parse. Every
	// token boundary is a place the run may stop; the last one followed by a
	// delimiter wins.
	end = -1
	for i := 0; ; {
		if n := colonDelimiter(value[i:]); n > 0 {
			end, delim = i, n
		}
		if i >= len(value) {
			break
		}
		c := value[i]
		if c == '&' {
			semi := strings.IndexByte(value[i:], ';')
			if semi < 0 {
				break
			}
			i += semi + 1
			continue
		}
		if !isSpace(c) && !isAlnum(c) {
			break
		}
		i++
	}
	return end, delim
}

// colonDelimiter returns the length of the ':' spelling at the start of s:
// ':', "&colon;", or a decimal or hexadecimal entity for 58 with any number
// of leading zeros.
func colonDelimiter(s string) int {
	if s == "" {
		return 0
	}
	if s[0] == ':' {
		return 1
	}
	if strings.HasPrefix(s, "&colon;") {
		return len("&colon;")
	}
	if len(s) < 5 || s[0] != '&' || s[1] != '#' {
		return 0
	}
	i, want := 2, "58"
	if s[i] == 'x' || s[i] == 'X' {
		i, want = 3, "3a"
	}
	for i < len(s) && s[i] == '0' {
		i++
	}
	if len(s) < i+3 || asciiLower(s[i:i+2]) != want || s[i+2] != ';' {
		return 0
	}
	return i + 3
}

// allowedScheme decodes the scheme run and looks it up in the allowed set.
func (f *filter) allowedScheme(run string) (string, bool) {
	scheme := decodeEntities(run)
	scheme = strings.Map(func(r rune) rune {
		if r < 0x80 && isSpace(byte(r)) || r == '\u00ad' {
			return -1
		}
		return r
	}, scheme)
	scheme = asciiLower(scheme)
	return scheme, f.protocols[scheme]
}
