package thread

import (
	"github.com/spf13/afero"
	"golang.org/x/net/html"

	"github.com/avelin/threadkeeper/internal/htmldom"
)

func parseSnapshotForTest(fs afero.Fs, path string) (*html.Node, error) {
	return htmldom.ParseFromFile(fs, path)
}
