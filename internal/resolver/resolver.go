// Package resolver maps a thread URL to a site name, parser kind, and
// relative path components, using an ordered regex table loaded from TOML.
package resolver

import (
	"embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/avelin/threadkeeper/internal/parserkind"
)

//go:embed builtin_sites.toml
var builtinSitesTOML []byte

// SiteInfo is the resolved shape of a thread URL.
type SiteInfo struct {
	Name   string
	Parser parserkind.Kind
	Path   []string
}

type siteEntry struct {
	URLRegexes []string `toml:"url-regexes"`
	Parser     string   `toml:"parser"`
}

type sitesFile struct {
	IncludeBuiltinSites *bool                `toml:"include-builtin-sites"`
	Sites               map[string]siteEntry `toml:"sites"`
}

type compiledSite struct {
	name    string
	parser  parserkind.Kind
	regexes []*regexp.Regexp
}

// Resolver holds a compiled, reloadable site table.
type Resolver struct {
	mu    sync.RWMutex
	sites []compiledSite
}

// fallbackPattern drives unknown_site per §4.2.
var fallbackPattern = regexp.MustCompile(`^https?://([\w.:]+)/(?:(.+)/)*([^.]+)`)

var pathSanitizer = strings.NewReplacer(":", "_", "*", "_", "|", "_")

// New builds a Resolver from a sites.toml document. An empty or nil
// userTOML is treated as "no user sites" (builtins only, unless
// include-builtin-sites is set false, which would leave nothing resolvable
// but Basic's unknown_site fallback).
func New(userTOML []byte) (*Resolver, error) {
	var doc sitesFile
	if len(userTOML) > 0 {
		if err := toml.Unmarshal(userTOML, &doc); err != nil {
			return nil, fmt.Errorf("resolver: parsing sites config: %w", err)
		}
	}

	includeBuiltins := true
	if doc.IncludeBuiltinSites != nil {
		includeBuiltins = *doc.IncludeBuiltinSites
	}

	merged := map[string]siteEntry{}

	if includeBuiltins {
		var builtins sitesFile
		if err := toml.Unmarshal(builtinSitesTOML, &builtins); err != nil {
			return nil, fmt.Errorf("resolver: parsing builtin sites: %w", err)
		}
		for name, entry := range builtins.Sites {
			merged[name] = entry
		}
	}

	for name, entry := range doc.Sites {
		merged[name] = entry
	}

	return compile(merged)
}

// Load reads a sites.toml document from path on fs and builds a Resolver.
// A missing file is not an error: it resolves to builtins-only.
func Load(fs afero.Fs, path string) (*Resolver, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("resolver: checking %s: %w", path, err)
	}
	if !exists {
		return New(nil)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("resolver: reading %s: %w", path, err)
	}

	return New(data)
}

// compile turns a merged name->entry table into a deterministically ordered
// Resolver. TOML tables carry no ordering guarantee for map keys, so sites
// are tried in alphabetical order of name — a documented tie-break, not a
// wire requirement.
func compile(entries map[string]siteEntry) (*Resolver, error) {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	sites := make([]compiledSite, 0, len(names))
	for _, name := range names {
		entry := entries[name]

		kind, err := parserkind.Parse(entry.Parser)
		if err != nil {
			return nil, fmt.Errorf("resolver: site %q: %w", name, err)
		}

		regexes := make([]*regexp.Regexp, 0, len(entry.URLRegexes))
		for _, pattern := range entry.URLRegexes {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("resolver: site %q: compiling regex %q: %w", name, pattern, err)
			}
			regexes = append(regexes, re)
		}

		sites = append(sites, compiledSite{name: name, parser: kind, regexes: regexes})
	}

	return &Resolver{sites: sites}, nil
}

// Resolve maps rawURL to a SiteInfo, trying every site's regexes in table
// order and falling back to unknown_site on no match.
func (r *Resolver) Resolve(rawURL string) (SiteInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, site := range r.sites {
		for _, re := range site.regexes {
			m := re.FindStringSubmatch(rawURL)
			if m == nil {
				continue
			}
			return SiteInfo{Name: site.name, Parser: site.parser, Path: capturedPathComponents(m)}, nil
		}
	}

	return unknownSite(rawURL)
}

func unknownSite(rawURL string) (SiteInfo, error) {
	m := fallbackPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return SiteInfo{}, fmt.Errorf("resolver: could not resolve url %q", rawURL)
	}

	return SiteInfo{Name: "unknown", Parser: parserkind.Basic, Path: capturedPathComponents(m)}, nil
}

// capturedPathComponents turns a regexp match's capture groups (skipping
// group 0, the whole match) into sanitized path components, dropping empty
// groups.
func capturedPathComponents(m []string) []string {
	var path []string
	for _, g := range m[1:] {
		if g == "" {
			continue
		}
		path = append(path, pathSanitizer.Replace(g))
	}
	return path
}

