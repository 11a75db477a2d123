package kses

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmallNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"0", 0, true},
		{"123456", 123456, true},
		{"1234567", 0, false},
		{"      42      ", 42, true},
		{"       42", 0, false},
		{"42       ", 0, false},
		{"\t7\n", 7, true},
		{"", 0, false},
		{"-1", 0, false},
		{"1.5", 0, false},
		{"12px", 0, false},
	}
	for _, tt := range tests {
		got, ok := smallNumber(tt.in)
		assert.Equal(t, tt.ok, ok, "%q", tt.in)
		assert.Equal(t, tt.want, got, "%q", tt.in)
	}
}

func TestWildcardMatch(t *testing.T) {
	tests := []struct {
		pattern, s string
		want       bool
	}{
		{"", "", true},
		{"", "a", false},
		{"%", "", true},
		{"%", "anything", true},
		{"abc", "abc", true},
		{"abc", "ABC", false},
		{"a%c", "abbbc", true},
		{"a%c", "ab", false},
		{"%.png", "image.png", true},
		{"%.png", "image.png.js", false},
		{"%a%b%", "xxaxxbxx", true},
		{"%a%b%", "xxbxxaxx", false},
		{"a%%b", "ab", true},
		{"text-align: center;", "text-align: center;", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, wildcardMatch(tt.pattern, tt.s), "%q ~ %q", tt.pattern, tt.s)
	}
}

func TestConstraintAccepts(t *testing.T) {
	value := func(v string) attribute { return attribute{name: "x", value: v, whole: `x="` + v + `"`} }
	bare := attribute{name: "x", whole: "x", valueless: true}

	tests := []struct {
		name string
		c    Constraint
		attr attribute
		want bool
	}{
		{"unconstrained", Unconstrained, value("anything"), true},
		{"unconstrained valueless", Unconstrained, bare, true},
		{"maxlen", Checked(MaxLen(3)), value("abc"), true},
		{"maxlen over", Checked(MaxLen(3)), value("abcd"), false},
		{"minlen", Checked(MinLen(3)), value("ab"), false},
		{"maxval", Checked(MaxVal(10)), value("10"), true},
		{"maxval over", Checked(MaxVal(10)), value("11"), false},
		{"minval", Checked(MinVal(10)), value("9"), false},
		{"minval not a number", Checked(MinVal(0)), value("x"), false},
		{"valueless y", Checked(Valueless(true)), bare, true},
		{"valueless y with value", Checked(Valueless(true)), value(""), false},
		{"valueless n", Checked(Valueless(false)), value("v"), true},
		{"content", Checked(Content("a%")), value("abc"), true},
		{"content none match", Checked(Content("b%", "c%")), value("abc"), false},
		{"and", Checked(MinLen(1), MaxLen(2), Content("a%")), value("ab"), true},
		{"and first fails", Checked(MinLen(3), MaxLen(5)), value("ab"), false},
		{"and last fails", Checked(MinLen(1), Content("z%")), value("ab"), false},
		{"invalid check", Checked(Check{}), value("a"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.accepts(tt.attr))
		})
	}
}
