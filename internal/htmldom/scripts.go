package htmldom

import "golang.org/x/net/html"

// StripScripts detaches every <script> descendant of root. Matches are
// collected in a single pass before any detach, since RemoveChild during
// traversal would invalidate FindElements' queued siblings.
func StripScripts(root *html.Node) {
	scripts := FindElements(root, func(n *html.Node) bool {
		return n.Data == "script"
	}).All()

	for _, s := range scripts {
		DetachNode(s)
	}
}
