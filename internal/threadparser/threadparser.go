// Package threadparser implements the per-site post extraction and merge
// strategies selected by a project's parser kind.
package threadparser

import (
	"golang.org/x/net/html"

	"github.com/avelin/threadkeeper/internal/htmldom"
	"github.com/avelin/threadkeeper/internal/parserkind"
)

// Post is a non-owning reference to a post element inside a document the
// Post does not own.
type Post struct {
	ID   uint32
	Node *html.Node
}

// Parser is the shared contract every site-specific implementation
// satisfies. The thread updater façade is the only caller; nothing else in
// the core dispatches on parserkind.Kind directly.
type Parser interface {
	// AllPosts returns every post in doc, in document order.
	AllPosts(doc *html.Node) []Post

	// MergeFrom splices posts of newDoc with an ID greater than the
	// highest ID already in mergedDoc into mergedDoc, preserving source
	// order. It returns the newly inserted posts.
	MergeFrom(mergedDoc, newDoc *html.Node) []Post

	// IsArchived reports whether doc shows an archived/dead marker.
	IsArchived(doc *html.Node) bool

	// ReplacesWholeDocument reports whether this variant performs no
	// merging at all (Basic): callers should discard mergedDoc and adopt
	// newDoc wholesale instead of calling MergeFrom.
	ReplacesWholeDocument() bool
}

// New returns the Parser implementation for kind.
func New(kind parserkind.Kind) Parser {
	switch kind {
	case parserkind.FourChan:
		return fourChanParser{}
	case parserkind.Tinyboard:
		return tinyboardParser{}
	case parserkind.AspNetChan:
		return aspNetChanParser{}
	case parserkind.Kusabax:
		return kusabaxParser{}
	case parserkind.FoolFuuka:
		return foolFuukaParser{}
	case parserkind.Lainchan:
		return lainchanParser{}
	case parserkind.Ponychan:
		// Structurally identical to Lainchan: no distinct Ponychan merge
		// implementation survives in any known source.
		return lainchanParser{}
	default:
		return basicParser{}
	}
}

// ForEachLink invokes action for every <a>/<img>/<link> descendant of root.
// Shared across all variants; none of them customize link discovery.
func ForEachLink(root *html.Node, action func(*htmldom.Link)) {
	for _, l := range htmldom.FindLinks(root) {
		action(l)
	}
}

// StripScripts detaches every <script> descendant of root. Shared across all
// variants.
func StripScripts(root *html.Node) {
	htmldom.StripScripts(root)
}

func maxPostID(posts []Post) uint32 {
	var max uint32
	for _, p := range posts {
		if p.ID > max {
			max = p.ID
		}
	}
	return max
}

func postsNewerThan(posts []Post, maxID uint32) []Post {
	var out []Post
	for _, p := range posts {
		if p.ID > maxID {
			out = append(out, p)
		}
	}
	return out
}

// lastPostParentOrContainer returns the parent of the last post in posts, or
// container if posts is empty — the common "anchor" rule shared by every
// append-style merge variant (spec's step 1: "if the merged doc has at
// least one reply, the anchor is immediately after the last reply;
// otherwise the anchor is the end of the site-specific replies container").
func lastPostParentOrContainer(container *html.Node, posts []Post) *html.Node {
	if len(posts) == 0 {
		return container
	}
	return posts[len(posts)-1].Node.Parent
}

// appendPosts detaches each of newPosts from its source parent and appends
// it as the last child of parent, preserving source order.
func appendPosts(parent *html.Node, newPosts []Post) {
	if parent == nil {
		return
	}
	for _, p := range newPosts {
		htmldom.DetachNode(p.Node)
		parent.AppendChild(p.Node)
	}
}

// appendPostsWithSeparator is appendPosts, inserting a <br> before every
// appended reply except the very first reply ever appended to this
// container (Lainchan/Ponychan). priorReplyExists reports whether the
// container already holds a reply (any post beyond the OP) from an earlier
// merge — a batch that starts after one does get a separator before its
// first post, even though that post is index 0 of *this* call.
func appendPostsWithSeparator(parent *html.Node, newPosts []Post, priorReplyExists bool) {
	if parent == nil {
		return
	}
	for _, p := range newPosts {
		if priorReplyExists {
			parent.AppendChild(htmldom.NewElement("br"))
		}
		htmldom.DetachNode(p.Node)
		parent.AppendChild(p.Node)
		priorReplyExists = true
	}
}

// findContainer returns the first element of tag with the given class set,
// or nil if none exists.
func findContainer(doc *html.Node, tag string, classes []string) *html.Node {
	matches := htmldom.FindElementsWithClasses(doc, tag, classes)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// swapContainerIfEmpty implements the Kusabax optimization (FoolFuuka swaps
// its whole article.thread instead, in replaceEmptyThread): when
// mergedContainer holds no existing posts and newContainer is populated, its
// children are moved into mergedContainer wholesale instead of being
// inspected post-by-post. Returns the moved nodes as Posts (ids resolved by
// idOf) and true if the swap was performed.
func swapContainerIfEmpty(mergedContainer, newContainer *html.Node, existing []Post, idOf func(*html.Node) (uint32, bool)) ([]Post, bool) {
	if len(existing) != 0 || mergedContainer == nil || newContainer == nil {
		return nil, false
	}
	if newContainer.FirstChild == nil {
		return nil, false
	}

	var moved []Post
	for c := newContainer.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			if id, ok := idOf(c); ok {
				moved = append(moved, Post{ID: id, Node: c})
			}
		}
		htmldom.DetachNode(c)
		mergedContainer.AppendChild(c)
		c = next
	}

	return moved, true
}
