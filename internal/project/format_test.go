package project

import (
	"testing"

	"github.com/spf13/afero"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name  string
		setup func(fs afero.Fs)
		want  Format
	}{
		{"none", func(afero.Fs) {}, FormatNone},
		{"v2", func(fs afero.Fs) { fs.MkdirAll("/proj/.chandler", 0o755) }, FormatV2},
		{"v3", func(fs afero.Fs) { fs.MkdirAll("/proj/.chandler3", 0o755) }, FormatV3},
		{"v3 takes precedence", func(fs afero.Fs) {
			fs.MkdirAll("/proj/.chandler", 0o755)
			fs.MkdirAll("/proj/.chandler3", 0o755)
		}, FormatV3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			tc.setup(fs)

			got, err := DetectFormat(fs, "/proj")
			if err != nil {
				t.Fatalf("DetectFormat: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
