package project

import (
	"testing"

	"github.com/spf13/afero"
)

func newMemFsWithFile(t *testing.T, path string, data []byte) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		t.Fatalf("seeding %s: %v", path, err)
	}
	return fs
}
