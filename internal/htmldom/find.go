package htmldom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ElementPredicate reports whether an element node matches.
type ElementPredicate func(*html.Node) bool

// ElementIter is a lazy, queue-based preorder walk over element nodes,
// yielding each matching element once, parent before children.
type ElementIter struct {
	queue     []*html.Node
	predicate ElementPredicate
}

// FindElements walks root depth-first in preorder (document order) and
// returns an iterator over element nodes matching predicate.
func FindElements(root *html.Node, predicate ElementPredicate) *ElementIter {
	return &ElementIter{
		queue:     []*html.Node{root},
		predicate: predicate,
	}
}

// Next returns the next matching element, or (nil, false) when exhausted.
func (it *ElementIter) Next() (*html.Node, bool) {
	for len(it.queue) > 0 {
		node := it.queue[0]
		it.queue = it.queue[1:]

		isMatch := node.Type == html.ElementNode && it.predicate(node)

		var children []*html.Node
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, c)
		}
		it.queue = append(children, it.queue...)

		if isMatch {
			return node, true
		}
	}

	return nil, false
}

// All drains the iterator into a slice, in discovery order.
func (it *ElementIter) All() []*html.Node {
	var out []*html.Node
	for {
		n, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, n)
	}
	return out
}

// FindElementsWithClasses returns elements named tagName whose class
// attribute (split on ASCII space) is a superset of classes, in document
// order. Built on goquery's Selection/Find so class-set membership and
// document-order traversal reuse its CSS-selector engine instead of a
// second hand-rolled walker.
func FindElementsWithClasses(root *html.Node, tagName string, classes []string) []*html.Node {
	sel := goquery.NewDocumentFromNode(root).Find(tagName)

	var matches []*html.Node
	sel.Each(func(_ int, s *goquery.Selection) {
		for _, want := range classes {
			if !s.HasClass(want) {
				return
			}
		}
		matches = append(matches, s.Nodes[0])
	})

	return matches
}

// Attr returns the value of the named attribute, if present.
func Attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets the named attribute to value, adding it if absent.
func SetAttr(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

// HasClasses reports whether n's class attribute is a superset of classes.
func HasClasses(n *html.Node, classes []string) bool {
	classAttr, ok := Attr(n, "class")
	if !ok {
		return false
	}

	have := strings.Fields(classAttr)
	haveSet := make(map[string]struct{}, len(have))
	for _, c := range have {
		haveSet[c] = struct{}{}
	}

	for _, want := range classes {
		if _, ok := haveSet[want]; !ok {
			return false
		}
	}

	return true
}

// DetachNode removes n from its parent, if any.
func DetachNode(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// InsertAfter inserts newNode as parent's child immediately after ref.
func InsertAfter(parent, newNode, ref *html.Node) {
	parent.InsertBefore(newNode, ref.NextSibling)
}

// NewComment builds a detached comment node.
func NewComment(text string) *html.Node {
	return &html.Node{Type: html.CommentNode, Data: text}
}

// NewElement builds a detached element node with no attributes.
func NewElement(tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag}
}
