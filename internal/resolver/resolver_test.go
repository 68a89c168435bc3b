package resolver

import (
	"testing"

	"github.com/avelin/threadkeeper/internal/parserkind"
)

func TestResolveMatchesUserSiteOverBuiltin(t *testing.T) {
	userTOML := []byte(`
[sites.myboard]
url-regexes = ["^https?://myboard\\.example\\.com/([a-z]+)/res/(\\d+)\\.html"]
parser = "lainchan"
`)

	r, err := New(userTOML)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	info, err := r.Resolve("https://myboard.example.com/b/res/42.html")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if info.Name != "myboard" || info.Parser != parserkind.Lainchan {
		t.Fatalf("unexpected resolution: %+v", info)
	}
	if len(info.Path) != 2 || info.Path[0] != "b" || info.Path[1] != "42" {
		t.Fatalf("unexpected path: %v", info.Path)
	}
}

func TestResolveFallsBackToBuiltin(t *testing.T) {
	r, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	info, err := r.Resolve("https://boards.4channel.org/g/thread/12345")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if info.Name != "4chan" || info.Parser != parserkind.FourChan {
		t.Fatalf("unexpected resolution: %+v", info)
	}
}

func TestResolveUnknownSiteFallback(t *testing.T) {
	r, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	info, err := r.Resolve("https://somerandomimageboard.example/b/123456")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if info.Name != "unknown" || info.Parser != parserkind.Basic {
		t.Fatalf("unexpected fallback resolution: %+v", info)
	}
	if len(info.Path) == 0 {
		t.Fatalf("expected non-empty fallback path")
	}
}

func TestResolveUnknownSiteSanitizesPathComponents(t *testing.T) {
	info, err := unknownSite("https://example.com/board:1/thread*2")
	if err != nil {
		t.Fatalf("unknownSite: %v", err)
	}

	for _, c := range info.Path {
		for _, bad := range []string{":", "*", "|"} {
			if contains(c, bad) {
				t.Fatalf("path component %q still contains %q", c, bad)
			}
		}
	}
}

func TestIncludeBuiltinSitesFalseDisablesBuiltins(t *testing.T) {
	userTOML := []byte(`
include-builtin-sites = false
`)

	r, err := New(userTOML)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	info, err := r.Resolve("https://boards.4channel.org/g/thread/12345")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if info.Name != "unknown" {
		t.Fatalf("expected builtin to be disabled, got %+v", info)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
