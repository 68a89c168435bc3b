package htmldom

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestSerializeToFileMinifiesEmbeddedStyleBlocks(t *testing.T) {
	src := `<html><head><style>
.post  {
  color:   red;


  margin: 0 0 0 0;
}
</style></head><body><div class="post">hi</div></body></html>`

	doc, err := ParseFromString(src)
	if err != nil {
		t.Fatalf("ParseFromString: %v", err)
	}

	fs := afero.NewMemMapFs()
	if err := SerializeToFile(fs, doc, "/out.html"); err != nil {
		t.Fatalf("SerializeToFile: %v", err)
	}

	out, err := afero.ReadFile(fs, "/out.html")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if strings.Contains(string(out), "\n\n") {
		t.Fatalf("expected collapsed whitespace in minified style block, got: %s", out)
	}
	if !strings.Contains(string(out), ".post{") {
		t.Fatalf("expected minified selector without space before brace, got: %s", out)
	}
}
