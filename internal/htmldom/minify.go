package htmldom

import (
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"golang.org/x/net/html"
)

// minifyInlineStyles walks node for <style> elements and replaces their
// text content with a minified version. A block that fails to minify (the
// snapshot corpus occasionally embeds malformed CSS) is left untouched
// rather than dropped.
func minifyInlineStyles(node *html.Node) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "style" {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type != html.TextNode {
					continue
				}
				if out, err := m.String("text/css", c.Data); err == nil {
					c.Data = out
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
}
