package kses

import (
	"strings"
	"unicode/utf8"
)

// normalizeEntities disarms every '&' and then restores the three entity
// shapes that are known to be well formed: decimal (&#58;), hexadecimal
// (&#x3a;) and named (&amp;). "AT&T" becomes "AT&amp;T", "&#X003c;" becomes
// "&#x3c;" and "&#XYZZY;" stays as the literal text "&amp;#XYZZY;".
func normalizeEntities(s string) string {
	if strings.IndexByte(s, '&') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)
	for i := 0; i < len(s); {
		c := s[i]
		if c != '&' {
			b.WriteByte(c)
			i++
			continue
		}
		if entity, n := canonicalEntity(s[i+1:]); n > 0 {
			b.WriteByte('&')
			b.WriteString(entity)
			i += 1 + n
			continue
		}
		b.WriteString("&amp;")
		i++
	}
	return b.String()
}

// canonicalEntity inspects the text following an '&'. It returns the
// canonical entity body (without the '&') and the number of bytes consumed,
// or n == 0 when the text is not a well formed entity.
func canonicalEntity(s string) (entity string, n int) {
	if len(s) == 0 {
		return "", 0
	}
	if s[0] == '#' {
		if len(s) > 1 && (s[1] == 'x' || s[1] == 'X') {
			return canonicalHexEntity(s)
		}
		end := 1
		for end < len(s) && isDigit(s[end]) {
			end++
		}
		if end == 1 || end >= len(s) || s[end] != ';' {
			return "", 0
		}
		return s[:end+1], end + 1
	}
	if !isAlpha(s[0]) {
		return "", 0
	}
	end := 1
	for end < len(s) && isAlnum(s[end]) {
		end++
	}
	if end >= len(s) || s[end] != ';' {
		return "", 0
	}
	return s[:end+1], end + 1
}

// canonicalHexEntity handles "#x..." and drops leading zeros while keeping
// an even number of at least two hex digits.
func canonicalHexEntity(s string) (string, int) {
	end := 2
	for end < len(s) && isHexDigit(s[end]) {
		end++
	}
	if end >= len(s) || s[end] != ';' {
		return "", 0
	}
	digits := s[2:end]
	zeros := 0
	for zeros < len(digits) && digits[zeros] == '0' {
		zeros++
	}
	for drop := zeros; drop >= 0; drop-- {
		rest := len(digits) - drop
		if rest >= 2 && rest%2 == 0 {
			return "#x" + digits[drop:] + ";", end + 1
		}
	}
	return "", 0
}

// decodeEntities decodes decimal and hexadecimal numeric entities. Named
// entities are left alone; the result is only used to compare URL schemes.
func decodeEntities(s string) string {
	if strings.IndexByte(s, '&') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '&' {
			if r, n := numericEntity(s[i:]); n > 0 {
				b.WriteRune(r)
				i += n
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// numericEntity decodes "&#N;" or "&#xH;" at the start of s. Code points
// that cannot be represented decode to utf8.RuneError.
func numericEntity(s string) (rune, int) {
	if len(s) < 4 || s[1] != '#' {
		return 0, 0
	}
	hex := s[2] == 'x' || s[2] == 'X'
	start := 2
	if hex {
		start = 3
	}
	end := start
	value := 0
	for end < len(s) {
		c := s[end]
		var d int
		switch {
		case isDigit(c):
			d = int(c - '0')
		case hex && c >= 'a' && c <= 'f':
			d = int(c-'a') + 10
		case hex && c >= 'A' && c <= 'F':
			d = int(c-'A') + 10
		default:
			d = -1
		}
		if d < 0 {
			break
		}
		if value <= utf8.MaxRune {
			if hex {
				value = value*16 + d
			} else {
				value = value*10 + d
			}
		}
		end++
	}
	if end == start || end >= len(s) || s[end] != ';' {
		return 0, 0
	}
	r := rune(value)
	if value > utf8.MaxRune || !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	return r, end + 1
}
