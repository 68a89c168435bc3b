// Package linkproc rewrites absolute URLs discovered in a snapshot into
// local relative paths, filtering by extension and deduplicating across a
// project's lifetime.
package linkproc

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/avelin/threadkeeper/internal/htmldom"
	"github.com/avelin/threadkeeper/internal/linkinfo"
)

// PathGenerator produces a site-relative local path for an absolute URL, or
// reports it cannot (e.g. the URL has no host).
type PathGenerator interface {
	GeneratePath(absoluteURL string) (string, bool)
}

// Processor turns Links into linkinfo.LinkInfo, one project's worth at a
// time.
type Processor struct {
	threadURL          *url.URL
	downloadExtensions map[string]struct{}
	pathGenerator      PathGenerator
	seenLinks          map[string]struct{}
}

// NewProcessor builds a Processor. extensions are matched case-insensitively
// regardless of how they're cased in the config. seenLinks is owned by the
// caller (typically seeded from a project's persisted link lists on load)
// and mutated in place as links are processed.
func NewProcessor(threadURL string, extensions []string, gen PathGenerator, seenLinks map[string]struct{}) (*Processor, error) {
	parsed, err := url.Parse(threadURL)
	if err != nil {
		return nil, fmt.Errorf("linkproc: parsing thread url %q: %w", threadURL, err)
	}

	extSet := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = struct{}{}
	}

	if seenLinks == nil {
		seenLinks = make(map[string]struct{})
	}

	return &Processor{
		threadURL:          parsed,
		downloadExtensions: extSet,
		pathGenerator:      gen,
		seenLinks:          seenLinks,
	}, nil
}

// Process runs the 8-step procedure for one link, returning nil (no error,
// no LinkInfo) when the link should be skipped.
func (p *Processor) Process(link *htmldom.Link) (*linkinfo.LinkInfo, error) {
	fileURL, ok := link.FileURL()
	if !ok {
		return nil, nil
	}

	resolvedRel, err := url.Parse(fileURL)
	if err != nil {
		return nil, fmt.Errorf("linkproc: parsing link %q: %w", fileURL, err)
	}
	resolved := p.threadURL.ResolveReference(resolvedRel)

	canonical := *resolved
	canonical.RawQuery = ""
	canonical.Fragment = ""
	canonical.RawFragment = ""

	ext := extensionOf(canonical.Path)
	if _, ok := p.downloadExtensions[strings.ToLower(ext)]; !ok {
		return nil, nil
	}

	sitePath, ok := p.pathGenerator.GeneratePath(canonical.String())
	if !ok {
		return nil, nil
	}
	sitePath = sanitizeFilesystemPath(sitePath)

	link.Replace(sitePath)

	absolute := canonical.String()
	if _, seen := p.seenLinks[absolute]; seen {
		return nil, nil
	}
	p.seenLinks[absolute] = struct{}{}

	return &linkinfo.LinkInfo{URL: absolute, Path: sitePath}, nil
}

func extensionOf(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 || idx == len(path)-1 {
		return ""
	}
	return path[idx+1:]
}

func sanitizeFilesystemPath(path string) string {
	path = strings.ReplaceAll(path, ":", "_")
	path = strings.ReplaceAll(path, "//", "_")
	return path
}
