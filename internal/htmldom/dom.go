// Package htmldom parses, walks, and serializes imageboard snapshot HTML.
package htmldom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/htmlindex"
)

// ParseFromString parses an HTML fragment/document from a string.
func ParseFromString(s string) (*html.Node, error) {
	return ParseFromReader(strings.NewReader(s))
}

// ParseFromReader parses HTML from r, transcoding to UTF-8 first if the
// document declares a different charset.
func ParseFromReader(r io.Reader) (*html.Node, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading html: %w", err)
	}

	raw = transcodeToUTF8(raw)

	node, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	return node, nil
}

// ParseFromFile reads and parses the HTML document at path on fs.
func ParseFromFile(fs afero.Fs, path string) (*html.Node, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseFromReader(f)
}

// SerializeToString renders node back to an HTML string.
func SerializeToString(node *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, node); err != nil {
		return "", fmt.Errorf("serializing html: %w", err)
	}

	return buf.String(), nil
}

// SerializeToFile renders node and writes it to path on fs, creating or
// truncating the destination. Embedded <style> blocks are minified first,
// since the merged document accumulates one per snapshot over a thread's
// lifetime.
func SerializeToFile(fs afero.Fs, node *html.Node, path string) error {
	minifyInlineStyles(node)

	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := html.Render(f, node); err != nil {
		return fmt.Errorf("serializing html: %w", err)
	}

	return nil
}

// transcodeToUTF8 inspects the document's declared charset (meta tag or
// http-equiv) and converts raw bytes to UTF-8 when it differs. Snapshots
// without a recognizable charset declaration, or already in UTF-8, are
// returned unchanged.
func transcodeToUTF8(raw []byte) []byte {
	name := sniffCharset(raw)
	if name == "" || name == "utf-8" {
		return raw
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return raw
	}

	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return raw
	}

	return decoded
}

// sniffCharset does a cheap scan for <meta charset="..."> or
// <meta http-equiv="Content-Type" content="...charset=...">, without a
// full parse (the document isn't valid UTF-8 yet, so html.Parse can't be
// trusted to run first).
func sniffCharset(raw []byte) string {
	head := raw
	if len(head) > 4096 {
		head = head[:4096]
	}

	lower := bytes.ToLower(head)

	if idx := bytes.Index(lower, []byte("charset=")); idx >= 0 {
		rest := lower[idx+len("charset="):]
		rest = bytes.TrimLeft(rest, `"' `)

		end := bytes.IndexAny(rest, "\"' />\t\n")
		if end < 0 {
			end = len(rest)
		}

		return strings.TrimSpace(string(rest[:end]))
	}

	return ""
}
