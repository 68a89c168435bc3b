// Package thread wraps a parser behind a single façade that hides the
// distinction between merging and non-merging parser variants.
package thread

import (
	"fmt"

	"github.com/spf13/afero"
	"golang.org/x/net/html"

	"github.com/avelin/threadkeeper/internal/htmldom"
	"github.com/avelin/threadkeeper/internal/parserkind"
	"github.com/avelin/threadkeeper/internal/threadparser"
)

// UpdateSummary reports what a cleanup or merge pass observed.
type UpdateSummary struct {
	IsArchived   bool
	NewPostCount int
	NewLinks     []*htmldom.Link
}

// Updater is the only surface the rest of the core sees for thread merging;
// it dispatches to the parser selected by its ParserKind without exposing
// the choice to callers.
type Updater struct {
	kind   parserkind.Kind
	parser threadparser.Parser
	doc    *html.Node
}

// New returns an Updater with no document yet; the first call must be
// InitialCleanup.
func New(kind parserkind.Kind) *Updater {
	return &Updater{kind: kind, parser: threadparser.New(kind)}
}

// FromExistingDocument resumes an Updater around a document already loaded
// from a prior merged thread.html.
func FromExistingDocument(kind parserkind.Kind, doc *html.Node) *Updater {
	return &Updater{kind: kind, parser: threadparser.New(kind), doc: doc}
}

// Document returns the updater's current merged document, or nil if no
// snapshot has been processed yet.
func (u *Updater) Document() *html.Node {
	return u.doc
}

// PostCount returns how many posts the merged document currently holds, or
// 0 if no snapshot has been processed yet.
func (u *Updater) PostCount() int {
	if u.doc == nil {
		return 0
	}
	return len(u.parser.AllPosts(u.doc))
}

// InitialCleanup adopts doc as the merged document: strips scripts,
// enumerates all its links, and counts its posts. Called only for the very
// first snapshot a project ever sees.
func (u *Updater) InitialCleanup(doc *html.Node) UpdateSummary {
	threadparser.StripScripts(doc)
	u.doc = doc

	var links []*htmldom.Link
	threadparser.ForEachLink(doc, func(l *htmldom.Link) {
		links = append(links, l)
	})

	return UpdateSummary{
		IsArchived:   u.parser.IsArchived(doc),
		NewPostCount: len(u.parser.AllPosts(doc)),
		NewLinks:     links,
	}
}

// UpdateFrom parses the snapshot at path on fs, merges it into the current
// document (or adopts it wholesale for a Basic project), and enumerates the
// links of newly added posts only.
func (u *Updater) UpdateFrom(fs afero.Fs, path string) (UpdateSummary, error) {
	newDoc, err := htmldom.ParseFromFile(fs, path)
	if err != nil {
		return UpdateSummary{}, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}

	threadparser.StripScripts(newDoc)

	if u.doc == nil || u.parser.ReplacesWholeDocument() {
		u.doc = newDoc

		var links []*htmldom.Link
		threadparser.ForEachLink(newDoc, func(l *htmldom.Link) {
			links = append(links, l)
		})

		return UpdateSummary{
			IsArchived:   u.parser.IsArchived(newDoc),
			NewPostCount: len(u.parser.AllPosts(newDoc)),
			NewLinks:     links,
		}, nil
	}

	inserted := u.parser.MergeFrom(u.doc, newDoc)

	var links []*htmldom.Link
	for _, post := range inserted {
		threadparser.ForEachLink(post.Node, func(l *htmldom.Link) {
			links = append(links, l)
		})
	}

	return UpdateSummary{
		IsArchived:   u.parser.IsArchived(u.doc),
		NewPostCount: len(inserted),
		NewLinks:     links,
	}, nil
}

// Serialize renders the merged document to path on fs.
func (u *Updater) Serialize(fs afero.Fs, path string) error {
	if u.doc == nil {
		return fmt.Errorf("thread: no document to serialize")
	}
	return htmldom.SerializeToFile(fs, u.doc, path)
}
