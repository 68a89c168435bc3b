// Package appconfig loads the small process-wide preferences file that
// lives outside any single project: default download root, default
// project format, and log verbosity.
package appconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/avelin/threadkeeper/internal/project"
)

// Config holds process-wide defaults, independent of any project.
type Config struct {
	DownloadRoot string `yaml:"downloadRoot"`
	Format       string `yaml:"format"`
	LogLevel     string `yaml:"logLevel"`
}

func defaults() Config {
	return Config{
		DownloadRoot: ".",
		Format:       "v3",
		LogLevel:     "info",
	}
}

// DefaultPath returns os.UserConfigDir()/threadkeeper/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("appconfig: resolving user config dir: %w", err)
	}
	return filepath.Join(dir, "threadkeeper", "config.yaml"), nil
}

// Load reads path, falling back silently to defaults() if it doesn't
// exist; an existing but unparseable file is a hard error.
func Load(path string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("appconfig: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("appconfig: parsing %s: %w", path, err)
	}

	return cfg, nil
}

// ProjectFormat resolves the configured default format string to a
// project.Format, falling back to V3 on anything unrecognized.
func (c Config) ProjectFormat() project.Format {
	switch c.Format {
	case "v2":
		return project.FormatV2
	default:
		return project.FormatV3
	}
}
