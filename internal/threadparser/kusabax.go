package threadparser

import (
	"golang.org/x/net/html"

	"github.com/avelin/threadkeeper/internal/htmldom"
)

// kusabaxParser extracts posts from .post elements plus .replies .reply
// descendants, each carrying id="reply_N" or a bare numeric id. When the
// merged doc has no replies yet and the new doc's replies container is
// populated, the whole container is swapped in rather than inspected
// reply-by-reply.
type kusabaxParser struct{}

func (kusabaxParser) repliesContainer(doc *html.Node) *html.Node {
	return findContainer(doc, "div", []string{"replies"})
}

func (p kusabaxParser) postID(n *html.Node) (uint32, bool) {
	idAttr, ok := htmldom.Attr(n, "id")
	if !ok {
		return 0, false
	}
	return parseIDAnyOfPrefixes(idAttr, "reply_")
}

func (p kusabaxParser) AllPosts(doc *html.Node) []Post {
	var posts []Post

	for _, n := range htmldom.FindElementsWithClasses(doc, "div", []string{"post"}) {
		if id, ok := p.postID(n); ok {
			posts = append(posts, Post{ID: id, Node: n})
		}
	}

	posts = append(posts, p.repliesOnly(doc)...)

	return posts
}

func (p kusabaxParser) repliesOnly(doc *html.Node) []Post {
	container := p.repliesContainer(doc)
	if container == nil {
		return nil
	}

	var posts []Post
	for _, n := range htmldom.FindElementsWithClasses(container, "div", []string{"reply"}) {
		if id, ok := p.postID(n); ok {
			posts = append(posts, Post{ID: id, Node: n})
		}
	}
	return posts
}

func (p kusabaxParser) MergeFrom(mergedDoc, newDoc *html.Node) []Post {
	existing := p.AllPosts(mergedDoc)
	maxID := maxPostID(existing)

	mergedContainer := p.repliesContainer(mergedDoc)
	newContainer := p.repliesContainer(newDoc)
	existingReplies := p.repliesOnly(mergedDoc)

	if moved, ok := swapContainerIfEmpty(mergedContainer, newContainer, existingReplies, p.postID); ok {
		return moved
	}

	newPosts := postsNewerThan(p.AllPosts(newDoc), maxID)
	if len(newPosts) == 0 {
		return nil
	}

	parent := lastPostParentOrContainer(mergedContainer, existingReplies)
	appendPosts(parent, newPosts)

	return newPosts
}

func (kusabaxParser) IsArchived(doc *html.Node) bool {
	return false
}

func (kusabaxParser) ReplacesWholeDocument() bool { return false }
