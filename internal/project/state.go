package project

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/afero"

	"github.com/avelin/threadkeeper/internal/linkinfo"
)

// State is a project's mutated-each-tick state, persisted as state.json.
type State struct {
	LastModified *time.Time
	IsDead       bool
	NewLinks     []linkinfo.LinkInfo
	FailedLinks  []linkinfo.LinkInfo
}

type linksWire struct {
	New    []linkinfo.LinkInfo `json:"new"`
	Failed []linkinfo.LinkInfo `json:"failed"`
}

type stateWireV3 struct {
	LastModified *string   `json:"lastModified"`
	IsDead       bool      `json:"isDead"`
	Links        linksWire `json:"links"`
}

// v2StateWire is the legacy shape: a bare list of failed URLs, no path, no
// new_links, no last-modified timestamp tracked separately from the host
// filesystem's mtime on thread.html.
type v2StateWire struct {
	Links struct {
		Failed []string `json:"failed"`
	} `json:"links"`
}

func (s State) marshalV3() ([]byte, error) {
	var lm *string
	if s.LastModified != nil {
		formatted := s.LastModified.UTC().Format(http.TimeFormat)
		lm = &formatted
	}

	w := stateWireV3{
		LastModified: lm,
		IsDead:       s.IsDead,
		Links: linksWire{
			New:    nonNilLinks(s.NewLinks),
			Failed: nonNilLinks(s.FailedLinks),
		},
	}
	return json.MarshalIndent(w, "", "  ")
}

func nonNilLinks(in []linkinfo.LinkInfo) []linkinfo.LinkInfo {
	if in == nil {
		return []linkinfo.LinkInfo{}
	}
	return in
}

func unmarshalStateV3(data []byte) (State, error) {
	var w stateWireV3
	if err := json.Unmarshal(data, &w); err != nil {
		return State{}, fmt.Errorf("project: parsing state: %w", err)
	}

	var lm *time.Time
	if w.LastModified != nil && *w.LastModified != "" {
		if t, err := http.ParseTime(*w.LastModified); err == nil {
			lm = &t
		}
	}

	return State{
		LastModified: lm,
		IsDead:       w.IsDead,
		NewLinks:     w.Links.New,
		FailedLinks:  w.Links.Failed,
	}, nil
}

func writeStateV3(fs afero.Fs, path string, s State) error {
	data, err := s.marshalV3()
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, data, 0o644)
}

func readStateV3(fs afero.Fs, path string) (State, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return State{}, fmt.Errorf("project: reading state %s: %w", path, err)
	}
	return unmarshalStateV3(data)
}

// readStateV2 parses the legacy bare-URL-list state. Paths are regenerated
// by gen on load; URLs gen cannot resolve (no host) are silently dropped,
// per the format's documented open question.
func readStateV2(fs afero.Fs, path string, gen LinkPathGenerator) (State, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return State{}, fmt.Errorf("project: reading v2 state %s: %w", path, err)
	}

	var w v2StateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return State{}, fmt.Errorf("project: parsing v2 state %s: %w", path, err)
	}

	var failed []linkinfo.LinkInfo
	for _, url := range w.Links.Failed {
		sitePath, ok := gen.GeneratePath(url)
		if !ok {
			continue
		}
		failed = append(failed, linkinfo.LinkInfo{URL: url, Path: sitePath})
	}

	return State{FailedLinks: failed}, nil
}
