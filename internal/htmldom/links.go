package htmldom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// LinkTag identifies which element kind a Link wraps.
type LinkTag int

const (
	LinkA LinkTag = iota
	LinkImg
	LinkLink
)

// AttrName returns the target attribute this tag's links are read from.
func (t LinkTag) AttrName() string {
	switch t {
	case LinkImg:
		return "src"
	default:
		return "href"
	}
}

// Link wraps an <a>/<img>/<link> element and its target attribute.
type Link struct {
	Node *html.Node
	Tag  LinkTag
}

// LinkFromNode builds a Link if node is a recognized link-bearing element.
func LinkFromNode(node *html.Node) (*Link, bool) {
	if node.Type != html.ElementNode {
		return nil, false
	}

	switch node.Data {
	case "a":
		return &Link{Node: node, Tag: LinkA}, true
	case "img":
		return &Link{Node: node, Tag: LinkImg}, true
	case "link":
		return &Link{Node: node, Tag: LinkLink}, true
	default:
		return nil, false
	}
}

// URL returns the raw target attribute value, if present.
func (l *Link) URL() (string, bool) {
	return Attr(l.Node, l.Tag.AttrName())
}

// FileURL is URL, rejecting empty values, fragments, trailing slashes, and
// javascript: pseudo-links.
func (l *Link) FileURL() (string, bool) {
	v, ok := l.URL()
	if !ok {
		return "", false
	}

	if v == "" || strings.HasPrefix(v, "#") || strings.HasSuffix(v, "/") || strings.HasPrefix(v, "javascript:") {
		return "", false
	}

	return v, true
}

// Replace sets the link's target attribute to newValue, recording the
// original value under a mirror data-original-<attr> attribute. The
// mirror is written only the first time Replace is called for this link.
func (l *Link) Replace(newValue string) {
	attrName := l.Tag.AttrName()

	original, had := Attr(l.Node, attrName)
	if !had {
		return
	}

	mirrorName := fmt.Sprintf("data-original-%s", attrName)
	if _, alreadyMirrored := Attr(l.Node, mirrorName); !alreadyMirrored {
		SetAttr(l.Node, mirrorName, original)
	}

	SetAttr(l.Node, attrName, newValue)
}

// FindLinks returns every <a>/<img>/<link> descendant of root, in document
// order.
func FindLinks(root *html.Node) []*Link {
	nodes := FindElements(root, func(n *html.Node) bool {
		return n.Data == "a" || n.Data == "img" || n.Data == "link"
	}).All()

	links := make([]*Link, 0, len(nodes))
	for _, n := range nodes {
		if l, ok := LinkFromNode(n); ok {
			links = append(links, l)
		}
	}

	return links
}
