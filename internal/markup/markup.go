// Package markup exposes the small slice of a parsed HTML tree that the
// timetable extractor needs. Callers depend on Element, not on a specific
// HTML library.
package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Element is a read-only view of one element in a parsed document.
type Element interface {
	// Tag returns the lower-case element name, e.g. "td".
	Tag() string
	// Attr returns the value of the named attribute and whether it was present.
	Attr(key string) (string, bool)
	// Text returns the element's text content with runs of whitespace collapsed
	// to single spaces and surrounding whitespace trimmed.
	Text() string
	// Children returns the direct child elements whose tag is one of tags, in
	// document order. With no tags every child element is returned.
	Children(tags ...string) []Element
	// FindAll returns every descendant element with the given tag in document
	// order.
	FindAll(tag string) []Element
}

// node adapts *html.Node to Element.
type node struct {
	n *html.Node
}

// Wrap adapts an already parsed golang.org/x/net/html node.
func Wrap(n *html.Node) Element {
	if n == nil {
		return nil
	}
	return node{n: n}
}

func (e node) Tag() string {
	if e.n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(e.n.Data)
}

func (e node) Attr(key string) (string, bool) {
	for _, a := range e.n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func (e node) Text() string {
	var b strings.Builder
	collectText(&b, e.n)
	return norm.NFC.String(collapseSpaces(b.String()))
}

func (e node) Children(tags ...string) []Element {
	var out []Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if len(tags) == 0 || matchesAny(c.Data, tags) {
			out = append(out, node{n: c})
		}
	}
	return out
}

func (e node) FindAll(tag string) []Element {
	var out []Element
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && strings.EqualFold(c.Data, tag) {
				out = append(out, node{n: c})
			}
			dfs(c)
		}
	}
	dfs(e.n)
	return out
}

func matchesAny(name string, tags []string) bool {
	for _, t := range tags {
		if strings.EqualFold(name, t) {
			return true
		}
	}
	return false
}

// collectText appends all text below n. Line breaks and block starts become
// spaces.
func collectText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript":
			return
		case "br", "p", "div", "li":
			b.WriteByte(' ')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}

// collapseSpaces folds every whitespace run, including U+00A0, into one ASCII
// space and trims the ends.
func collapseSpaces(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\u00a0' {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimRight(b.String(), " ")
}
