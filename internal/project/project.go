// Package project implements the on-disk project store: format detection,
// create/load/save, the PID lock, and the builder that derives a project's
// root path from a resolved site.
package project

import (
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/net/html"

	"github.com/avelin/threadkeeper/internal/htmldom"
	"github.com/avelin/threadkeeper/internal/linkinfo"
	"github.com/avelin/threadkeeper/internal/linkproc"
	"github.com/avelin/threadkeeper/internal/parserkind"
	"github.com/avelin/threadkeeper/internal/resolver"
	"github.com/avelin/threadkeeper/internal/thread"
)

const threadHTMLName = "thread.html"

// Project ties a project's config, mutable state, in-memory merged
// document, link processor, and PID lock to one root directory.
type Project struct {
	Fs       afero.Fs
	RootPath string
	Format   Format

	Config Config
	State  State

	Updater   *thread.Updater
	LinkProc  *linkproc.Processor
	seenLinks map[string]struct{}
	pathGen   LinkPathGenerator
	Lock      *PidLock
}

func (p *Project) dir() string {
	return filepath.Join(p.RootPath, projectDir(p.Format))
}

func (p *Project) threadHTMLPath() string {
	return filepath.Join(p.RootPath, threadHTMLName)
}

func (p *Project) configPath() string {
	return filepath.Join(p.dir(), "thread.json")
}

func (p *Project) statePath() string {
	return filepath.Join(p.dir(), "state.json")
}

func (p *Project) pidLockPath() string {
	return filepath.Join(p.dir(), "pid.lock")
}

// OriginalsDir returns the directory snapshots are written to.
func (p *Project) OriginalsDir() string {
	return filepath.Join(p.dir(), "originals")
}

// AssetCachePath returns where the project's asset-metadata BoltDB lives
// and whether one is supported at all — only V3 projects carry one, since
// V2's on-disk shape is frozen and never gains new files.
func (p *Project) AssetCachePath() (string, bool) {
	if p.Format != FormatV3 {
		return "", false
	}
	return filepath.Join(p.dir(), "assets.db"), true
}

// Create lays out a new V3 project at rootPath: originals/ directory, PID
// lock, config, and an empty state. Format is always V3 — V2 is a legacy
// format projects are only ever loaded into, never newly created into.
func Create(fs afero.Fs, rootPath, rawURL string, parser parserkind.Kind, downloadExtensions []string) (*Project, error) {
	p := &Project{
		Fs:       fs,
		RootPath: rootPath,
		Format:   FormatV3,
		Config: Config{
			Parser:             parser,
			URL:                rawURL,
			DownloadExtensions: downloadExtensions,
		},
		pathGen:   DefaultPathGenerator{},
		seenLinks: make(map[string]struct{}),
		Updater:   thread.New(parser),
	}

	if err := fs.MkdirAll(p.OriginalsDir(), 0o755); err != nil {
		return nil, fmt.Errorf("project: creating %s: %w", p.OriginalsDir(), err)
	}

	lock, err := AcquirePidLock(fs, p.pidLockPath())
	if err != nil {
		return nil, fmt.Errorf("project: create: %w", err)
	}
	p.Lock = lock

	if err := writeConfig(fs, p.configPath(), p.Config); err != nil {
		p.Lock.Release()
		return nil, err
	}
	if err := writeStateV3(fs, p.statePath(), p.State); err != nil {
		p.Lock.Release()
		return nil, err
	}

	if err := p.rebuildLinkProcessor(); err != nil {
		p.Lock.Release()
		return nil, err
	}

	return p, nil
}

// Load opens an existing project at rootPath, auto-detecting V2 vs V3.
func Load(fs afero.Fs, rootPath string) (*Project, error) {
	format, err := DetectFormat(fs, rootPath)
	if err != nil {
		return nil, fmt.Errorf("project: detecting format at %s: %w", rootPath, err)
	}
	if format == FormatNone {
		return nil, fmt.Errorf("project: no project at %s", rootPath)
	}

	p := &Project{
		Fs:        fs,
		RootPath:  rootPath,
		Format:    format,
		pathGen:   DefaultPathGenerator{},
		seenLinks: make(map[string]struct{}),
	}

	lock, err := AcquirePidLock(fs, p.pidLockPath())
	if err != nil {
		return nil, fmt.Errorf("project: load: %w", err)
	}
	p.Lock = lock

	cfg, err := readConfig(fs, p.configPath())
	if err != nil {
		p.Lock.Release()
		return nil, err
	}
	p.Config = cfg

	switch format {
	case FormatV3:
		state, err := readStateV3(fs, p.statePath())
		if err != nil {
			p.Lock.Release()
			return nil, err
		}
		p.State = state
	case FormatV2:
		state, err := readStateV2(fs, p.statePath(), p.pathGen)
		if err != nil {
			p.Lock.Release()
			return nil, err
		}
		p.State = state
	}

	p.Updater = thread.New(cfg.Parser)
	if doc, err := parseExistingThreadHTML(fs, p.threadHTMLPath()); err == nil && doc != nil {
		p.Updater = thread.FromExistingDocument(cfg.Parser, doc)
	}
	// A parse failure on the existing merged document is not fatal: the
	// next update starts from the snapshot it downloads instead.

	for _, l := range p.State.NewLinks {
		p.seenLinks[l.URL] = struct{}{}
	}
	for _, l := range p.State.FailedLinks {
		p.seenLinks[l.URL] = struct{}{}
	}

	if err := p.rebuildLinkProcessor(); err != nil {
		p.Lock.Release()
		return nil, err
	}

	return p, nil
}

func parseExistingThreadHTML(fs afero.Fs, path string) (*html.Node, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil || !exists {
		return nil, err
	}

	doc, err := htmldom.ParseFromFile(fs, path)
	if err != nil {
		return nil, nil
	}
	return doc, nil
}

func (p *Project) rebuildLinkProcessor() error {
	proc, err := linkproc.NewProcessor(p.Config.URL, p.Config.DownloadExtensions, p.pathGen, p.seenLinks)
	if err != nil {
		return fmt.Errorf("project: building link processor: %w", err)
	}
	p.LinkProc = proc
	return nil
}

// Save persists state.json. Config is immutable after create and is never
// rewritten. V2 projects are not re-saved in their legacy shape: the
// format is frozen and a loaded V2 project is expected to be migrated by
// recreating as V3, not mutated in place.
func (p *Project) Save() error {
	if p.Format != FormatV3 {
		return fmt.Errorf("project: save is only supported for v3 projects")
	}
	return writeStateV3(p.Fs, p.statePath(), p.State)
}

// SerializeThreadHTML writes the merged document to <root>/thread.html.
func (p *Project) SerializeThreadHTML() error {
	return p.Updater.Serialize(p.Fs, p.threadHTMLPath())
}

// Release drops the PID lock. Safe to call more than once, and safe to
// call on a nil *Project.
func (p *Project) Release() error {
	if p == nil {
		return nil
	}
	return p.Lock.Release()
}

// AppendNewLink records a freshly produced link as pending download,
// matching §4.8 step 4b.
func (p *Project) AppendNewLink(l linkinfo.LinkInfo) {
	p.State.NewLinks = append(p.State.NewLinks, l)
}

// normalizeURL strips any fragment, per the builder's "URL is normalized
// before persisting" rule.
func normalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("project: parsing url %q: %w", rawURL, err)
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}

// CreateProjectBuilder composes the optional inputs load_or_create needs to
// either open an existing project or derive a new one's path from a
// resolved site.
type CreateProjectBuilder struct {
	Fs                 afero.Fs
	URL                string
	Path               string
	Parser             *parserkind.Kind
	Resolver           *resolver.Resolver
	DownloadRoot       string
	DownloadExtensions []string
}

func NewCreateProjectBuilder(fs afero.Fs, rawURL string) *CreateProjectBuilder {
	return &CreateProjectBuilder{Fs: fs, URL: rawURL, DownloadExtensions: defaultDownloadExtensions()}
}

func (b *CreateProjectBuilder) WithPath(path string) *CreateProjectBuilder {
	b.Path = path
	return b
}

func (b *CreateProjectBuilder) WithParser(kind parserkind.Kind) *CreateProjectBuilder {
	b.Parser = &kind
	return b
}

func (b *CreateProjectBuilder) WithResolver(r *resolver.Resolver) *CreateProjectBuilder {
	b.Resolver = r
	return b
}

func (b *CreateProjectBuilder) WithDownloadRoot(root string) *CreateProjectBuilder {
	b.DownloadRoot = root
	return b
}

func (b *CreateProjectBuilder) WithDownloadExtensions(exts []string) *CreateProjectBuilder {
	b.DownloadExtensions = exts
	return b
}

func defaultDownloadExtensions() []string {
	return []string{"css", "gif", "ico", "jpg", "jpeg", "png", "webm"}
}

// LoadOrCreate loads an existing project if one can be found at an
// explicit or derived path, otherwise creates a new one.
func (b *CreateProjectBuilder) LoadOrCreate() (*Project, error) {
	normalized, err := normalizeURL(b.URL)
	if err != nil {
		return nil, err
	}
	b.URL = normalized

	if b.Path != "" {
		format, err := DetectFormat(b.Fs, b.Path)
		if err != nil {
			return nil, fmt.Errorf("project: detecting format at %s: %w", b.Path, err)
		}
		if format != FormatNone {
			return Load(b.Fs, b.Path)
		}
		return b.create(b.Path)
	}

	if b.URL == "" {
		return nil, fmt.Errorf("project: a url is required when no path is given")
	}
	if b.Resolver == nil {
		return nil, fmt.Errorf("project: a path or a site resolver is required to derive one")
	}

	site, err := b.Resolver.Resolve(b.URL)
	if err != nil {
		return nil, fmt.Errorf("project: resolving site for %s: %w", b.URL, err)
	}

	parts := append([]string{b.DownloadRoot, site.Name}, site.Path...)
	derivedPath := filepath.Join(parts...)

	format, err := DetectFormat(b.Fs, derivedPath)
	if err != nil {
		return nil, fmt.Errorf("project: detecting format at %s: %w", derivedPath, err)
	}
	if format != FormatNone {
		return Load(b.Fs, derivedPath)
	}

	parser := site.Parser
	if b.Parser != nil {
		parser = *b.Parser
	}

	return Create(b.Fs, derivedPath, b.URL, parser, b.DownloadExtensions)
}

func (b *CreateProjectBuilder) create(path string) (*Project, error) {
	parser := parserkind.Basic
	if b.Parser != nil {
		parser = *b.Parser
	} else if b.Resolver != nil {
		if site, err := b.Resolver.Resolve(b.URL); err == nil {
			parser = site.Parser
		}
	}
	return Create(b.Fs, path, b.URL, parser, b.DownloadExtensions)
}
