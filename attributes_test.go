package kses

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineAttributes(t *testing.T) {
	f := newTestFilter()
	tests := []struct {
		name string
		in   string
		want []attribute
	}{
		{
			name: "all value forms",
			in:   `a="1" b='2' c=3 d`,
			want: []attribute{
				{name: "a", value: "1", whole: `a="1"`},
				{name: "b", value: "2", whole: `b='2'`},
				{name: "c", value: "3", whole: `c="3"`},
				{name: "d", whole: "d", valueless: true},
			},
		},
		{
			name: "names lowercased, duplicates kept",
			in:   `HREF=x href = "y"`,
			want: []attribute{
				{name: "href", value: "x", whole: `href="x"`},
				{name: "href", value: "y", whole: `href="y"`},
			},
		},
		{
			name: "valueless followed by another attribute",
			in:   "selected  value=1",
			want: []attribute{
				{name: "selected", whole: "selected", valueless: true},
				{name: "value", value: "1", whole: `value="1"`},
			},
		},
		{
			name: "value filtered for schemes",
			in:   `href="javascript:alert(1)"`,
			want: []attribute{
				{name: "href", value: "alert(1)", whole: `href="alert(1)"`},
			},
		},
		{
			name: "quoted value must be followed by whitespace",
			in:   `a="1"b="2" c="3"`,
			want: []attribute{
				{name: "c", value: "3", whole: `c="3"`},
			},
		},
		{
			name: "garbage skipped",
			in:   `!!! "quoted junk" a=1 ==`,
			want: []attribute{
				{name: "a", value: "1", whole: `a="1"`},
			},
		},
		{
			name: "unterminated quote eats the rest",
			in:   `a="1 b=2`,
			want: nil,
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.combineAttributes(tt.in))
		})
	}
}

func TestSkipMalformed(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"!!! a=1", "a=1"},
		{`"x y" z`, "z"},
		{`'x y'"z" a`, "a"},
		{`"unterminated`, ""},
		{"   a", "a"},
		{"=", ""},
	}
	for _, tt := range tests {
		got := skipMalformed(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Less(t, len(got), len(tt.in))
	}
}

func TestStripAttributes(t *testing.T) {
	f := newTestFilter()
	tests := []struct {
		tag, attrs, want string
	}{
		{"a", ` href="x" onclick="y"`, `<a href="x">`},
		{"A", ` HREF=x`, `<A href="x">`},
		{"br", "", "<br>"},
		{"br", " /", "<br />"},
		{"br", " class=x /", "<br />"},
		{"img", ` src="x" /`, `<img src="x" />`},
		{"img", ` src=x/`, `<img src="x/">`},
		{"p", ` style="text-align: left;"`, `<p style="text-align: left;">`},
		{"p", ` style="color: red"`, `<p>`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.stripAttributes(tt.tag, tt.attrs), tt.tag+tt.attrs)
	}
}

func TestStripAttributes_NoAngleBrackets(t *testing.T) {
	f := newTestFilter()
	f.tags = TagRules{"a": {"title": Unconstrained}}
	got := f.stripAttributes("a", ` title='<x>'`)
	assert.Equal(t, `<a title='x'>`, got)
}

func TestCombineAttributes_Progress(t *testing.T) {
	f := newTestFilter()
	// Every dead end must consume input.
	input := strings.Repeat(`a="" '" =b= c'd "`, 200)
	attrs := f.combineAttributes(input)
	require.NotNil(t, attrs)
}
