package project

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// Format selects a project's on-disk layout.
type Format int

const (
	// FormatNone means no project exists at a given root.
	FormatNone Format = iota
	FormatV2
	FormatV3
)

const (
	v3Dir = ".chandler3"
	v2Dir = ".chandler"
)

func projectDir(format Format) string {
	switch format {
	case FormatV3:
		return v3Dir
	case FormatV2:
		return v2Dir
	default:
		return ""
	}
}

// DetectFormat reports which project format (if any) already exists at
// root: V3 takes precedence if both directories somehow exist.
func DetectFormat(fs afero.Fs, root string) (Format, error) {
	v3, err := afero.DirExists(fs, filepath.Join(root, v3Dir))
	if err != nil {
		return FormatNone, err
	}
	if v3 {
		return FormatV3, nil
	}

	v2, err := afero.DirExists(fs, filepath.Join(root, v2Dir))
	if err != nil {
		return FormatNone, err
	}
	if v2 {
		return FormatV2, nil
	}

	return FormatNone, nil
}
