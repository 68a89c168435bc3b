package threadparser

import "golang.org/x/net/html"

// basicParser performs no merging: every update replaces the whole
// document. AllPosts and MergeFrom are never called by the thread updater
// façade for this kind — ReplacesWholeDocument steers it to full
// replacement instead — but are implemented for interface completeness.
type basicParser struct{}

func (basicParser) AllPosts(doc *html.Node) []Post {
	return nil
}

func (basicParser) MergeFrom(mergedDoc, newDoc *html.Node) []Post {
	return nil
}

func (basicParser) IsArchived(doc *html.Node) bool {
	return false
}

func (basicParser) ReplacesWholeDocument() bool { return true }
