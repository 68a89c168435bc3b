package threadparser

import (
	"golang.org/x/net/html"

	"github.com/avelin/threadkeeper/internal/htmldom"
)

// aspNetChanParser extracts posts carrying a data-post-no attribute from a
// div.thread's .post-container descendants, appending new replies directly
// into the last reply's parent.
type aspNetChanParser struct{}

func (aspNetChanParser) threadContainer(doc *html.Node) *html.Node {
	return findContainer(doc, "div", []string{"thread"})
}

func (p aspNetChanParser) AllPosts(doc *html.Node) []Post {
	container := p.threadContainer(doc)
	if container == nil {
		return nil
	}

	var posts []Post
	for _, n := range htmldom.FindElements(container, func(n *html.Node) bool {
		return htmldom.HasClasses(n, []string{"post-container"})
	}).All() {
		id, ok := p.postID(n)
		if !ok {
			continue
		}
		posts = append(posts, Post{ID: id, Node: n})
	}
	return posts
}

func (aspNetChanParser) postID(n *html.Node) (uint32, bool) {
	v, ok := htmldom.Attr(n, "data-post-no")
	if !ok {
		return 0, false
	}
	return parseUint32(v)
}

func (p aspNetChanParser) MergeFrom(mergedDoc, newDoc *html.Node) []Post {
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

func (aspNetChanParser) IsArchived(doc *html.Node) bool {
	return false
}

func (aspNetChanParser) ReplacesWholeDocument() bool { return false }
