package threadparser

import (
	"testing"

	"golang.org/x/net/html"

	"github.com/avelin/threadkeeper/internal/htmldom"
)

func parseDoc(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := htmldom.ParseFromString(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func postIDs(posts []Post) []uint32 {
	ids := make([]uint32, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func idsEqual(t *testing.T, got, want []uint32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
