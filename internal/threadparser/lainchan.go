package threadparser

import (
	"golang.org/x/net/html"

	"github.com/avelin/threadkeeper/internal/htmldom"
)

// lainchanParser extracts posts carrying id="pcN" from div.postcontainer
// elements, inserting a <br> separator between appended replies (but not
// before the very first reply appended to the container; a later batch's
// first reply does get one). Ponychan reuses this
// implementation; no distinct Ponychan merge survives in any known source.
type lainchanParser struct{}

func (lainchanParser) threadContainer(doc *html.Node) *html.Node {
	return findContainer(doc, "div", []string{"thread"})
}

func (p lainchanParser) AllPosts(doc *html.Node) []Post {
	var posts []Post
	for _, n := range htmldom.FindElementsWithClasses(doc, "div", []string{"postcontainer"}) {
		id, ok := p.postID(n)
		if !ok {
			continue
		}
		posts = append(posts, Post{ID: id, Node: n})
	}
	return posts
}

func (lainchanParser) postID(n *html.Node) (uint32, bool) {
	idAttr, ok := htmldom.Attr(n, "id")
	if !ok {
		return 0, false
	}
	return parseIDWithPrefix(idAttr, "pc")
}

func (p lainchanParser) MergeFrom(mergedDoc, newDoc *html.Node) []Post {
	existing := p.AllPosts(mergedDoc)
	maxID := maxPostID(existing)

	newPosts := postsNewerThan(p.AllPosts(newDoc), maxID)
	if len(newPosts) == 0 {
		return nil
	}

	parent := lastPostParentOrContainer(p.threadContainer(mergedDoc), existing)
	// existing only ever holds replies (the OP lives outside div.postcontainer
	// entirely, under its own id/class scheme) — a separator is owed once any
	// of those have been appended, even across separate merge calls.
	priorReplyExists := len(existing) > 0
	appendPostsWithSeparator(parent, newPosts, priorReplyExists)

	return newPosts
}

func (lainchanParser) IsArchived(doc *html.Node) bool {
	return false
}

func (lainchanParser) ReplacesWholeDocument() bool { return false }
