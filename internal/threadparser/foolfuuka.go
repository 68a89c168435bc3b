package threadparser

import (
	"golang.org/x/net/html"

	"github.com/avelin/threadkeeper/internal/htmldom"
)

// foolFuukaParser extracts posts from article.post elements carrying a
// plain integer id, replies living inside an article.thread aside.posts
// container. A thread with no replies yet has no aside at all — its OP is
// a bare article.thread.post_is_op with nothing inside — so the merge has
// no per-reply container to graft into; instead the whole article.thread
// element is swapped for the new snapshot's, OP included.
type foolFuukaParser struct{}

func (foolFuukaParser) repliesContainer(doc *html.Node) *html.Node {
	return findContainer(doc, "aside", []string{"posts"})
}

func (foolFuukaParser) postID(n *html.Node) (uint32, bool) {
	idAttr, ok := htmldom.Attr(n, "id")
	if !ok {
		return 0, false
	}
	return parseUint32(idAttr)
}

func (p foolFuukaParser) AllPosts(doc *html.Node) []Post {
	var posts []Post
	for _, n := range htmldom.FindElementsWithClasses(doc, "article", []string{"post"}) {
		if id, ok := p.postID(n); ok {
			posts = append(posts, Post{ID: id, Node: n})
		}
	}
	return posts
}

func (p foolFuukaParser) repliesOnly(doc *html.Node) []Post {
	container := p.repliesContainer(doc)
	if container == nil {
		return nil
	}

	var posts []Post
	for _, n := range htmldom.FindElementsWithClasses(container, "article", []string{"post"}) {
		if id, ok := p.postID(n); ok {
			posts = append(posts, Post{ID: id, Node: n})
		}
	}
	return posts
}

func (p foolFuukaParser) MergeFrom(mergedDoc, newDoc *html.Node) []Post {
	existing := p.AllPosts(mergedDoc)

	if len(existing) == 0 {
		return p.replaceEmptyThread(mergedDoc, newDoc)
	}

	maxID := maxPostID(existing)

	newPosts := postsNewerThan(p.AllPosts(newDoc), maxID)
	if len(newPosts) == 0 {
		return nil
	}

	parent := lastPostParentOrContainer(p.repliesContainer(mergedDoc), p.repliesOnly(mergedDoc))
	appendPosts(parent, newPosts)

	return newPosts
}

// replaceEmptyThread swaps mergedDoc's article.thread element for newDoc's
// wholesale: a thread with no replies has no aside.posts container to merge
// into, so the first batch of replies arrives as part of a brand new
// article.thread, OP included, which simply takes the old one's place.
func (p foolFuukaParser) replaceEmptyThread(mergedDoc, newDoc *html.Node) []Post {
	oldThread := findContainer(mergedDoc, "article", []string{"thread"})
	newThread := findContainer(newDoc, "article", []string{"thread"})
	if oldThread == nil || newThread == nil || oldThread.Parent == nil {
		return nil
	}

	htmldom.DetachNode(newThread)
	oldThread.Parent.InsertBefore(newThread, oldThread)
	htmldom.DetachNode(oldThread)

	return p.AllPosts(newThread)
}

func (foolFuukaParser) IsArchived(doc *html.Node) bool {
	return false
}

func (foolFuukaParser) ReplacesWholeDocument() bool { return false }
