package project

import (
	"testing"

	"github.com/spf13/afero"

	"github.com/avelin/threadkeeper/internal/parserkind"
	"github.com/avelin/threadkeeper/internal/resolver"
)

func TestLoadOrCreateDerivesPathFromResolverAndCreatesOnFirstCall(t *testing.T) {
	fs := afero.NewMemMapFs()
	res, err := resolver.New(nil)
	if err != nil {
		t.Fatalf("resolver.New: %v", err)
	}

	b := NewCreateProjectBuilder(fs, "https://boards.4channel.org/g/thread/12345#p12346").
		WithResolver(res).
		WithDownloadRoot("/downloads")

	p, err := b.LoadOrCreate()
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	defer p.Release()

	if p.Config.Parser != parserkind.FourChan {
		t.Fatalf("expected resolved parser FourChan, got %v", p.Config.Parser)
	}
	if p.Config.URL != "https://boards.4channel.org/g/thread/12345" {
		t.Fatalf("expected fragment stripped, got %q", p.Config.URL)
	}

	wantRoot := "/downloads/4chan/g/12345"
	if p.RootPath != wantRoot {
		t.Fatalf("got root %q, want %q", p.RootPath, wantRoot)
	}
}

func TestLoadOrCreateLoadsExistingProjectAtDerivedPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	res, err := resolver.New(nil)
	if err != nil {
		t.Fatalf("resolver.New: %v", err)
	}

	first, err := NewCreateProjectBuilder(fs, "https://boards.4channel.org/g/thread/12345").
		WithResolver(res).WithDownloadRoot("/downloads").LoadOrCreate()
	if err != nil {
		t.Fatalf("first LoadOrCreate: %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	second, err := NewCreateProjectBuilder(fs, "https://boards.4channel.org/g/thread/12345").
		WithResolver(res).WithDownloadRoot("/downloads").LoadOrCreate()
	if err != nil {
		t.Fatalf("second LoadOrCreate: %v", err)
	}
	defer second.Release()

	if second.RootPath != first.RootPath {
		t.Fatalf("expected the same derived root, got %q vs %q", second.RootPath, first.RootPath)
	}
}

func TestLoadOrCreateWithExplicitPathSkipsResolver(t *testing.T) {
	fs := afero.NewMemMapFs()

	p, err := NewCreateProjectBuilder(fs, "https://example.com/t/1").
		WithPath("/explicit").
		WithParser(parserkind.Basic).
		LoadOrCreate()
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	defer p.Release()

	if p.RootPath != "/explicit" {
		t.Fatalf("got root %q", p.RootPath)
	}
	if p.Config.Parser != parserkind.Basic {
		t.Fatalf("expected explicit parser override to win, got %v", p.Config.Parser)
	}
}
