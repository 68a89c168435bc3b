package threadparser

import "testing"

func TestBasicReplacesWholeDocument(t *testing.T) {
	p := basicParser{}
	if !p.ReplacesWholeDocument() {
		t.Fatalf("expected Basic to replace the whole document")
	}
	if posts := p.AllPosts(parseDoc(t, `<div>x</div>`)); posts != nil {
		t.Fatalf("expected no posts from Basic, got %v", posts)
	}
}
