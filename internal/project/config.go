package project

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"

	"github.com/avelin/threadkeeper/internal/parserkind"
)

// Config is a project's immutable-after-create configuration, persisted as
// thread.json.
type Config struct {
	Parser             parserkind.Kind
	URL                string
	DownloadExtensions []string
}

type configWire struct {
	Parser             parserkind.Kind `json:"parser"`
	URL                string          `json:"url"`
	DownloadExtensions []string        `json:"downloadExtensions"`
}

func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(configWire{Parser: c.Parser, URL: c.URL, DownloadExtensions: c.DownloadExtensions})
}

func (c *Config) UnmarshalJSON(data []byte) error {
	var w configWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c.Parser = w.Parser
	c.URL = w.URL
	c.DownloadExtensions = w.DownloadExtensions
	return nil
}

func writeConfig(fs afero.Fs, path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("project: marshaling config: %w", err)
	}
	return afero.WriteFile(fs, path, data, 0o644)
}

func readConfig(fs afero.Fs, path string) (Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Config{}, fmt.Errorf("project: reading config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("project: parsing config %s: %w", path, err)
	}
	return cfg, nil
}
