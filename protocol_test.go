package kses

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestFilter(protocols ...string) *filter {
	if len(protocols) == 0 {
		protocols = DefaultProtocols()
	}
	return &filter{tags: basicTags(), protocols: sliceToSet(protocols)}
}

func TestStripBadProtocol(t *testing.T) {
	f := newTestFilter()
	tests := []struct {
		in, want string
	}{
		{"javascript:alert(1)", "alert(1)"},
		{"javascript:javascript:alert(1)", "alert(1)"},
		{"java\x00script:alert(1)", "alert(1)"},
		{"java\u00adscript:alert(1)", "alert(1)"},
		{"JAVA java scrIpt : SCRIPT  :  alert(57)", "alert(57)"},
		{"&#106;avascript&#58;alert(1)", "alert(1)"},
		{"javascript&#0058;alert(1)", "alert(1)"},
		{"javascript&#x3A;alert(1)", "alert(1)"},
		{"javascript&#x003a;alert(1)", "alert(1)"},
		{"javascript&colon;alert(1)", "alert(1)"},
		{"jav&#x09;ascript:alert(1)", "alert(1)"},
		{":x", "x"},
		{"http://example.com", "http://example.com"},
		{"HTTP://example.com", "http://example.com"},
		{"h t t p :  //x", "http://x"},
		{"mailto:a@example.com", "mailto:a@example.com"},
		{"http://a:b@c", "http://a:b@c"},
		{"/relative/path", "/relative/path"},
		{"#anchor", "#anchor"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.stripBadProtocol(tt.in), tt.in)
	}
}

func TestStripBadProtocol_NoSchemeSurvives(t *testing.T) {
	f := newTestFilter("http")
	values := []string{
		"javascript:alert(1)",
		"java&#115;cript&#58;alert(1)",
		"j a v a s c r i p t :alert(1)",
		"javajavascript:script:alert(1)",
		strings.Repeat("javascript:", 50) + "alert(1)",
		"vbscript&#x3a;msgbox(1)",
		"data&colon;text/html,x",
	}
	for _, v := range values {
		got := f.stripBadProtocol(v)
		end, _ := schemePrefix(got)
		if end >= 0 {
			scheme, ok := f.allowedScheme(got[:end])
			assert.True(t, ok, "%q left scheme %q in %q", v, scheme, got)
		}
	}
}

func TestColonDelimiter(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{":", 1},
		{"&colon;", 7},
		{"&#58;", 5},
		{"&#00058;x", 8},
		{"&#x3a;", 6},
		{"&#X3A;", 6},
		{"&#x003A;", 8},
		{"&#59;", 0},
		{"&#58", 0},
		{"&#x3b;", 0},
		{"&amp;", 0},
		{"x", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, colonDelimiter(tt.in), tt.in)
	}
}

func TestSchemePrefix(t *testing.T) {
	tests := []struct {
		in         string
		end, delim int
	}{
		{"http://x", 4, 1},
		{"a b:c", 3, 1},
		{"a:b:c", 1, 1},
		{"a&amp;b&#58;c", 7, 5},
		{"ab", -1, 0},
		{"a/b:c", -1, 0},
		{"&nosemicolon:", -1, 0},
	}
	for _, tt := range tests {
		end, delim := schemePrefix(tt.in)
		assert.Equal(t, tt.end, end, tt.in)
		assert.Equal(t, tt.delim, delim, tt.in)
	}
}
