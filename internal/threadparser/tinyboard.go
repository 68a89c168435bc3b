package threadparser

import (
	"golang.org/x/net/html"

	"github.com/avelin/threadkeeper/internal/htmldom"
)

// tinyboardParser extracts posts carrying id="op_N" or id="reply_N" from a
// div.thread, appending new replies directly into the last reply's parent.
type tinyboardParser struct{}

func (tinyboardParser) threadContainer(doc *html.Node) *html.Node {
	return findContainer(doc, "div", []string{"thread"})
}

func (p tinyboardParser) AllPosts(doc *html.Node) []Post {
	container := p.threadContainer(doc)
	if container == nil {
		return nil
	}

	var posts []Post
	for _, n := range htmldom.FindElements(container, func(n *html.Node) bool {
		return htmldom.HasClasses(n, []string{"post"})
	}).All() {
		id, ok := p.postID(n)
		if !ok {
			continue
		}
		posts = append(posts, Post{ID: id, Node: n})
	}
	return posts
}

func (tinyboardParser) postID(n *html.Node) (uint32, bool) {
	idAttr, ok := htmldom.Attr(n, "id")
	if !ok {
		return 0, false
	}
	return parseIDAnyOfPrefixes(idAttr, "op_", "reply_")
}

func (p tinyboardParser) MergeFrom(mergedDoc, newDoc *html.Node) []Post {
	existing := p.AllPosts(mergedDoc)
	maxID := maxPostID(existing)

	newPosts := postsNewerThan(p.AllPosts(newDoc), maxID)
	if len(newPosts) == 0 {
		return nil
	}

	parent := lastPostParentOrContainer(p.threadContainer(mergedDoc), existing)
	appendPosts(parent, newPosts)

	return newPosts
}

func (tinyboardParser) IsArchived(doc *html.Node) bool {
	return false
}

func (tinyboardParser) ReplacesWholeDocument() bool { return false }
