package kses

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// StripTags removes all markup from s and returns its text with entity
// references decoded. It is meant for output of Filter, for example to
// build a plain-text preview; the result must be escaped again before it
// is placed back into HTML.
//
// Only the document body is read, so text the parser moves into <head>
// (a <title>, say) is dropped.
func StripTags(s string) (string, error) {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return "", err
	}
	root := doc
	if body := childElement(childElement(doc, atom.Html), atom.Body); body != nil {
		root = body
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return b.String(), nil
}

// childElement returns the first child of n that is an element of kind a.
// The parser always builds document > html > (head, body), so the body
// never needs a deeper search.
func childElement(n *html.Node, a atom.Atom) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
	}
	return nil
}
