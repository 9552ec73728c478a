package testsupport

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// MustParseHTML parses a rendered fragment or document.
func MustParseHTML(t *testing.T, markup []byte) *html.Node {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(string(markup)))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// FindAll returns the element nodes under root matching fn, in document
// order.
func FindAll(root *html.Node, fn func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && fn(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// FindFirst returns the first matching element or nil.
func FindFirst(root *html.Node, fn func(*html.Node) bool) *html.Node {
	if found := FindAll(root, fn); len(found) > 0 {
		return found[0]
	}
	return nil
}

// ByTag matches elements by tag name.
func ByTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Data == tag }
}

// ByID matches the element with the given id.
func ByID(id string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		v, ok := Attr(n, "id")
		return ok && v == id
	}
}

// ByAttr matches elements carrying name=value.
func ByAttr(name, value string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		v, ok := Attr(n, name)
		return ok && v == value
	}
}

// Attr returns an attribute value.
func Attr(n *html.Node, name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether the attribute is present.
func HasAttr(n *html.Node, name string) bool {
	_, ok := Attr(n, name)
	return ok
}

// Text concatenates the text content of n.
func Text(n *html.Node) string {
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
	if n != nil {
		walk(n)
	}
	return strings.TrimSpace(b.String())
}
