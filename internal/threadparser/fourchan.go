package threadparser

import (
	"golang.org/x/net/html"

	"github.com/avelin/threadkeeper/internal/htmldom"
)

// fourChanParser extracts posts from a div.thread's direct children, each
// carrying an id like "pc123" — a fixed 2-char prefix before the numeric
// post id — and merges by appending new posts at the end of that div.
type fourChanParser struct{}

func (fourChanParser) threadContainer(doc *html.Node) *html.Node {
	return findContainer(doc, "div", []string{"thread"})
}

func (p fourChanParser) AllPosts(doc *html.Node) []Post {
	container := p.threadContainer(doc)
	if container == nil {
		return nil
	}

	var posts []Post
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		id, ok := p.postID(c)
		if !ok {
			continue
		}
		posts = append(posts, Post{ID: id, Node: c})
	}
	return posts
}

func (fourChanParser) postID(n *html.Node) (uint32, bool) {
	idAttr, ok := htmldom.Attr(n, "id")
	if !ok {
		return 0, false
	}
	return parseIDSkipPrefix(idAttr, 2)
}

func (p fourChanParser) MergeFrom(mergedDoc, newDoc *html.Node) []Post {
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

func (fourChanParser) IsArchived(doc *html.Node) bool {
	return len(htmldom.FindElementsWithClasses(doc, "img", []string{"archivedIcon"})) > 0
}

func (fourChanParser) ReplacesWholeDocument() bool { return false }
