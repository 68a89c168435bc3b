package linkproc

import (
	"net/url"
	"testing"

	"github.com/avelin/threadkeeper/internal/htmldom"
)

type hostPathGenerator struct{}

func (hostPathGenerator) GeneratePath(absoluteURL string) (string, bool) {
	u, err := url.Parse(absoluteURL)
	if err != nil || u.Host == "" {
		return "", false
	}
	return u.Host + u.Path, true
}

func TestProcessRewritesLinkAndReturnsLinkInfo(t *testing.T) {
	doc, err := htmldom.ParseFromString(`<a href="/board/thread/1/file.png">x</a>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	links := htmldom.FindLinks(doc)
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}

	proc, err := NewProcessor("https://ex.com/board/thread/1", []string{"png"}, hostPathGenerator{}, nil)
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}

	info, err := proc.Process(links[0])
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if info == nil {
		t.Fatalf("expected a LinkInfo")
	}
	if info.URL != "https://ex.com/board/thread/1/file.png" {
		t.Fatalf("unexpected url: %s", info.URL)
	}
	if info.Path != "ex.com/board/thread/1/file.png" {
		t.Fatalf("unexpected path: %s", info.Path)
	}

	href, _ := htmldom.Attr(links[0].Node, "href")
	if href != "ex.com/board/thread/1/file.png" {
		t.Fatalf("expected href rewritten, got %q", href)
	}
	original, _ := htmldom.Attr(links[0].Node, "data-original-href")
	if original != "/board/thread/1/file.png" {
		t.Fatalf("expected original href mirrored, got %q", original)
	}
}

func TestProcessSkipsExtensionNotInSet(t *testing.T) {
	doc, _ := htmldom.ParseFromString(`<a href="/board/thread/1/file.webm">x</a>`)
	links := htmldom.FindLinks(doc)

	proc, _ := NewProcessor("https://ex.com/board/thread/1", []string{"png"}, hostPathGenerator{}, nil)

	info, err := proc.Process(links[0])
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if info != nil {
		t.Fatalf("expected skip, got %+v", info)
	}
}

func TestProcessDedupsAcrossCalls(t *testing.T) {
	doc, _ := htmldom.ParseFromString(`
		<a href="/board/thread/1/file.png">x</a>
		<img src="/board/thread/1/file.png">
	`)
	links := htmldom.FindLinks(doc)
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}

	proc, _ := NewProcessor("https://ex.com/board/thread/1", []string{"png"}, hostPathGenerator{}, nil)

	first, err := proc.Process(links[0])
	if err != nil || first == nil {
		t.Fatalf("expected first link to produce LinkInfo, got %+v, %v", first, err)
	}

	second, err := proc.Process(links[1])
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if second != nil {
		t.Fatalf("expected duplicate url to be skipped, got %+v", second)
	}
}

func TestProcessSkipsFragmentOnlyLink(t *testing.T) {
	doc, _ := htmldom.ParseFromString(`<a href="#quote1">x</a>`)
	links := htmldom.FindLinks(doc)

	proc, _ := NewProcessor("https://ex.com/board/thread/1", []string{"png"}, hostPathGenerator{}, nil)

	info, err := proc.Process(links[0])
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if info != nil {
		t.Fatalf("expected skip for fragment link, got %+v", info)
	}
}

func TestProcessStripsQueryAndFragmentBeforeExtensionCheck(t *testing.T) {
	doc, _ := htmldom.ParseFromString(`<a href="/board/thread/1/file.png?v=2#frag">x</a>`)
	links := htmldom.FindLinks(doc)

	proc, _ := NewProcessor("https://ex.com/board/thread/1", []string{"png"}, hostPathGenerator{}, nil)

	info, err := proc.Process(links[0])
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if info == nil {
		t.Fatalf("expected LinkInfo")
	}
	if info.URL != "https://ex.com/board/thread/1/file.png" {
		t.Fatalf("expected query/fragment stripped, got %s", info.URL)
	}
}
