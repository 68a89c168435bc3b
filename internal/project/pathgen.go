package project

import "net/url"

// LinkPathGenerator produces a site-relative local path for an absolute URL.
// It has the same shape as linkproc.PathGenerator so a *DefaultPathGenerator
// can be handed to either a Processor or a V2 state loader without
// adaptation.
type LinkPathGenerator interface {
	GeneratePath(absoluteURL string) (string, bool)
}

// DefaultPathGenerator lays assets out as <host><url-path>, the V2/V3
// default.
type DefaultPathGenerator struct{}

func (DefaultPathGenerator) GeneratePath(absoluteURL string) (string, bool) {
	u, err := url.Parse(absoluteURL)
	if err != nil || u.Host == "" {
		return "", false
	}
	return u.Host + u.Path, true
}
