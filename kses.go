package kses

import (
	"strings"
	"unicode/utf8"

	goerrors "github.com/goliatone/go-errors"
)

// Policy defines which markup survives filtering.
type Policy struct {
	// AllowedTags maps lowercase tag names to the attributes allowed on
	// them. See TagRules.
	AllowedTags TagRules

	// AllowedProtocols lists the URL schemes (e.g. "http", "mailto") that
	// may start an attribute value. Any other scheme is removed from the
	// value, the rest of the value is kept.
	AllowedProtocols []string
}

// NewPolicy validates and copies tags and protocols into a new Policy. An
// empty tag table falls back to BasicPolicy's tags and an empty protocol
// list to DefaultProtocols.
func NewPolicy(tags TagRules, protocols []string) (*Policy, error) {
	p := &Policy{}
	if len(tags) == 0 {
		tags = basicTags()
	}
	if len(protocols) == 0 {
		protocols = DefaultProtocols()
	}
	if err := p.SetAllowedTags(tags); err != nil {
		return nil, err
	}
	if err := p.SetAllowedProtocols(protocols...); err != nil {
		return nil, err
	}
	return p, nil
}

// SetAllowedTags replaces the whole tag table with a copy of tags.
func (p *Policy) SetAllowedTags(tags TagRules) error {
	if err := tags.Validate(); err != nil {
		return err
	}
	p.AllowedTags = tags.Clone()
	return nil
}

// AddAllowedTag allows a single tag with the given attribute rules,
// replacing any rules the tag had before. Nil rules allow the tag without
// attributes.
func (p *Policy) AddAllowedTag(tag string, rules AttributeRules) error {
	entry := TagRules{tag: rules}
	if err := entry.Validate(); err != nil {
		return err
	}
	if p.AllowedTags == nil {
		p.AllowedTags = TagRules{}
	}
	p.AllowedTags[strings.ToLower(tag)] = rules.Clone()
	return nil
}

// SetAllowedProtocols replaces the allowed URL schemes.
func (p *Policy) SetAllowedProtocols(protocols ...string) error {
	clean := make([]string, 0, len(protocols))
	for _, proto := range protocols {
		normalized, err := normalizeProtocol(proto)
		if err != nil {
			return err
		}
		clean = append(clean, normalized)
	}
	p.AllowedProtocols = clean
	return nil
}

// AddAllowedProtocol allows one more URL scheme.
func (p *Policy) AddAllowedProtocol(protocol string) error {
	normalized, err := normalizeProtocol(protocol)
	if err != nil {
		return err
	}
	p.AllowedProtocols = append(p.AllowedProtocols, normalized)
	return nil
}

// Validate checks the tag table and protocol list.
func (p *Policy) Validate() error {
	if err := p.AllowedTags.Validate(); err != nil {
		return err
	}
	for _, proto := range p.AllowedProtocols {
		if _, err := normalizeProtocol(proto); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of p.
func (p *Policy) Clone() *Policy {
	return &Policy{
		AllowedTags:      p.AllowedTags.Clone(),
		AllowedProtocols: append([]string(nil), p.AllowedProtocols...),
	}
}

// Filter applies p to text. See the package level Filter.
func (p *Policy) Filter(text string) string {
	return Filter(text, p)
}

// filter holds the lookup tables for a single Filter call.
type filter struct {
	tags      TagRules
	protocols map[string]bool
}

// Filter returns text with every element, attribute and URL scheme not
// allowed by p removed. It returns the empty string when text is not valid
// UTF-8. If p is nil, BasicPolicy is used.
func Filter(text string, p *Policy) string {
	if !utf8.ValidString(text) {
		return ""
	}
	if p == nil {
		p = BasicPolicy()
	}
	f := &filter{
		tags:      p.AllowedTags,
		protocols: sliceToSet(p.AllowedProtocols),
	}

	text = strings.ReplaceAll(text, "\x00", "")
	text = removeScriptEntities(text)
	text = normalizeEntities(text)

	spans := scan(text)
	var b strings.Builder
	b.Grow(len(text))
	for _, sp := range spans {
		if sp.kind == spanText {
			b.WriteString(text[sp.start:sp.end])
			continue
		}
		b.WriteString(f.stripTag(sp, text))
	}
	return b.String()
}

// removeScriptEntities drops Netscape 4 "&{...};" JavaScript entities. An
// unterminated one runs to the end of the input.
func removeScriptEntities(s string) string {
	if !strings.Contains(s, "{") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '&' {
			b.WriteByte(s[i])
			i++
			continue
		}
		j := i + 1 + spanFunc(s[i+1:], isSpace)
		if j >= len(s) || s[j] != '{' {
			b.WriteByte('&')
			i++
			continue
		}
		closing := strings.IndexByte(s[j:], '}')
		if closing < 0 {
			break
		}
		i = j + closing + 1
		i += spanFunc(s[i:], isSpace)
		if i < len(s) && s[i] == ';' {
			i++
		}
	}
	return b.String()
}

func normalizeProtocol(proto string) (string, error) {
	proto = asciiLower(strings.TrimSpace(proto))
	if proto == "" {
		return "", goerrors.Wrap(errEmptyProtocol, goerrors.CategoryValidation, "invalid protocol").
			WithTextCode(invalidPolicyCode)
	}
	for i := 0; i < len(proto); i++ {
		c := proto[i]
		if i == 0 && !isAlpha(c) || !isAlnum(c) && c != '+' && c != '-' && c != '.' {
			return "", goerrors.Wrap(errProtocolSyntax, goerrors.CategoryValidation, "invalid protocol "+proto).
				WithTextCode(invalidPolicyCode)
		}
	}
	return proto, nil
}

// --- helpers ---------------------------------------------------------

func sliceToSet(s []string) map[string]bool {
	m := make(map[string]bool, len(s))
	for _, v := range s {
		m[asciiLower(v)] = true
	}
	return m
}

// isSpace matches the ASCII whitespace set: space, \t, \n, \v, \f and \r.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool { return c|0x20 >= 'a' && c|0x20 <= 'z' }

func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }

func isHexDigit(c byte) bool { return isDigit(c) || c|0x20 >= 'a' && c|0x20 <= 'f' }

func isNameByte(c byte) bool { return isAlpha(c) || c == '-' }

func isTagNameByte(c byte) bool { return isAlnum(c) || c == '-' }

// spanFunc returns the length of the prefix of s whose bytes satisfy ok.
func spanFunc(s string, ok func(byte) bool) int {
	i := 0
	for i < len(s) && ok(s[i]) {
		i++
	}
	return i
}

// asciiLower lowercases ASCII letters only, leaving other bytes intact.
func asciiLower(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 'A' && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}
