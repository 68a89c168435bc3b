// Package parserkind defines the closed set of per-site post extraction and
// merge strategies a project can be configured with.
package parserkind

import (
	"encoding/json"
	"fmt"
)

// Kind selects the site-specific post extractor and merge strategy a
// project's thread updater dispatches to.
type Kind int

const (
	Basic Kind = iota
	FourChan
	Tinyboard
	AspNetChan
	Kusabax
	FoolFuuka
	Ponychan
	Lainchan
)

// String returns the wire tag for k, matching thread.json's camelCase
// vocabulary ("4chan" is FourChan's alias).
func (k Kind) String() string {
	switch k {
	case Basic:
		return "basic"
	case FourChan:
		return "4chan"
	case Tinyboard:
		return "tinyboard"
	case AspNetChan:
		return "aspnetchan"
	case Kusabax:
		return "kusabax"
	case FoolFuuka:
		return "foolfuuka"
	case Ponychan:
		return "ponychan"
	case Lainchan:
		return "lainchan"
	default:
		return fmt.Sprintf("parserkind(%d)", int(k))
	}
}

// Parse resolves a wire tag (including the "4chan" alias) to a Kind.
func Parse(tag string) (Kind, error) {
	switch tag {
	case "basic":
		return Basic, nil
	case "4chan", "fourchan":
		return FourChan, nil
	case "tinyboard":
		return Tinyboard, nil
	case "aspnetchan":
		return AspNetChan, nil
	case "kusabax":
		return Kusabax, nil
	case "foolfuuka":
		return FoolFuuka, nil
	case "ponychan":
		return Ponychan, nil
	case "lainchan":
		return Lainchan, nil
	default:
		return 0, fmt.Errorf("parserkind: unknown tag %q", tag)
	}
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}

	parsed, err := Parse(tag)
	if err != nil {
		return err
	}

	*k = parsed
	return nil
}
