package htmldom

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestParseFromStringRoundTrip(t *testing.T) {
	src := `<html><head><title>thread</title></head><body><div class="post">hi</div></body></html>`

	doc, err := ParseFromString(src)
	if err != nil {
		t.Fatalf("ParseFromString: %v", err)
	}

	out, err := SerializeToString(doc)
	if err != nil {
		t.Fatalf("SerializeToString: %v", err)
	}

	if !strings.Contains(out, `class="post"`) {
		t.Fatalf("expected serialized output to retain post div, got: %s", out)
	}
	if !strings.Contains(out, "<title>thread</title>") {
		t.Fatalf("expected title to survive round-trip, got: %s", out)
	}
}

func TestParseFromFileAndSerializeToFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	if err := afero.WriteFile(fs, "thread.html", []byte(`<body><p id="1">first</p></body>`), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	doc, err := ParseFromFile(fs, "thread.html")
	if err != nil {
		t.Fatalf("ParseFromFile: %v", err)
	}

	if err := SerializeToFile(fs, doc, "out.html"); err != nil {
		t.Fatalf("SerializeToFile: %v", err)
	}

	written, err := afero.ReadFile(fs, "out.html")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if !strings.Contains(string(written), `id="1"`) {
		t.Fatalf("expected rewritten file to keep post id, got: %s", written)
	}
}

func TestSniffCharsetMetaCharset(t *testing.T) {
	raw := []byte(`<html><head><meta charset="Shift_JIS"></head></html>`)
	if got := sniffCharset(raw); got != "shift_jis" {
		t.Fatalf("sniffCharset: got %q, want shift_jis", got)
	}
}

func TestSniffCharsetHttpEquiv(t *testing.T) {
	raw := []byte(`<meta http-equiv="Content-Type" content="text/html; charset=ISO-8859-1">`)
	if got := sniffCharset(raw); got != "iso-8859-1" {
		t.Fatalf("sniffCharset: got %q, want iso-8859-1", got)
	}
}

func TestSniffCharsetAbsent(t *testing.T) {
	raw := []byte(`<html><body>no charset here</body></html>`)
	if got := sniffCharset(raw); got != "" {
		t.Fatalf("sniffCharset: got %q, want empty", got)
	}
}

func TestTranscodeToUTF8PassesThroughUTF8(t *testing.T) {
	raw := []byte(`<meta charset="utf-8"><p>hello</p>`)
	if got := transcodeToUTF8(raw); string(got) != string(raw) {
		t.Fatalf("expected utf-8 input unchanged")
	}
}

func TestTranscodeToUTF8UnknownCharsetPassesThrough(t *testing.T) {
	raw := []byte(`<meta charset="not-a-real-charset"><p>hello</p>`)
	got := transcodeToUTF8(raw)
	if string(got) != string(raw) {
		t.Fatalf("expected unrecognized charset to pass through unchanged")
	}
}
