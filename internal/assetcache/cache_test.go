package assetcache

import (
	"path/filepath"
	"testing"
)

func TestOpenGetPutRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.db")

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	_, found, err := c.Get("ex.com/board/thread/1/file.png")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Fatalf("expected no record in a fresh cache")
	}

	rec := AssetRecord{
		Path:        "ex.com/board/thread/1/file.png",
		Size:        1024,
		ModTime:     1700000000,
		ContentHash: "deadbeef",
		ETag:        `"abc123"`,
	}
	if err := c.Put(rec.Path, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, found, err := c.Get(rec.Path)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatalf("expected record to be found after Put")
	}
	if got != rec {
		t.Fatalf("got %+v, want %+v", got, rec)
	}
}

func TestReopenPersistsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.db")

	c1, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c1.Put("a.png", AssetRecord{Path: "a.png", Size: 1}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	c2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c2.Close()

	rec, found, err := c2.Get("a.png")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found || rec.Size != 1 {
		t.Fatalf("expected persisted record, got %+v (found=%v)", rec, found)
	}
}
