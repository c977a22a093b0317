package parser

import (
	"strings"

	"golang.org/x/net/html"
)

// Predicate reports whether an element node matches.
type Predicate func(n *html.Node) bool

// Flatten returns every element node under root (root included) in document order.
func Flatten(root *html.Node) []*html.Node {
	var nodes []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return nodes
}

// FindNext returns the first node after position from that satisfies pred,
// regardless of nesting. It returns -1 and nil when nothing matches.
func FindNext(nodes []*html.Node, from int, pred Predicate) (int, *html.Node) {
	start := from + 1
	if start < 0 {
		start = 0
	}
	for i := start; i < len(nodes); i++ {
		if pred(nodes[i]) {
			return i, nodes[i]
		}
	}
	return -1, nil
}

// FindAll returns all nodes after position from that satisfy pred.
func FindAll(nodes []*html.Node, from int, pred Predicate) []*html.Node {
	var out []*html.Node
	for {
		i, n := FindNext(nodes, from, pred)
		if n == nil {
			return out
		}
		out = append(out, n)
		from = i
	}
}

// Tag matches elements by tag name.
func Tag(name string) Predicate {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == name
	}
}

// TagWithClass matches elements by tag name carrying class among their class tokens.
func TagWithClass(name, class string) Predicate {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == name && HasClass(n, class)
	}
}

func HasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func Attr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// Text concatenates all text below n.
func Text(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// firstDescendant finds the first element strictly below n matching pred.
func firstDescendant(n *html.Node, pred Predicate) *html.Node {
	_, found := FindNext(Flatten(n), 0, pred)
	return found
}
