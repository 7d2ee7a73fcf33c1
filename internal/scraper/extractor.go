package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// blacklistTags are containers whose direct text is never prose: code,
// styling, and document metadata.
var blacklistTags = map[string]struct{}{
	"script":   {},
	"style":    {},
	"code":     {},
	"pre":      {},
	"noscript": {},
	"head":     {},
	"meta":     {},
	"link":     {},
}

// ExtractTextNodes walks the document in pre-order and returns every
// text-bearing leaf whose immediate parent is a prose container and whose
// trimmed content is non-empty. The returned slice is stable in document
// order; the rebuilder consumes it index-for-index.
func ExtractTextNodes(doc *goquery.Document) []*html.Node {
	var nodes []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			parent := n.Parent
			if parent == nil || parent.Type != html.ElementNode {
				return
			}
			if _, excluded := blacklistTags[parent.Data]; excluded {
				return
			}
			if strings.TrimSpace(n.Data) == "" {
				return
			}
			nodes = append(nodes, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}
	return nodes
}

// Texts returns the trimmed contents of the given nodes, in the same order.
// These are the strings handed to the translation gateway.
func Texts(nodes []*html.Node) []string {
	texts := make([]string, len(nodes))
	for i, n := range nodes {
		texts[i] = strings.TrimSpace(n.Data)
	}
	return texts
}

// Rebuild writes translated strings back into the same node positions.
// Boundary whitespace from the original text is re-attached when the
// translation drops it, so inline spacing around tags ("word <a>link</a>")
// survives. Indices past the shorter slice are left untouched; the gateway's
// fallback usually guarantees equal length, but the rebuilder does not assume
// it.
func Rebuild(nodes []*html.Node, translated []string) {
	for i, node := range nodes {
		if i >= len(translated) {
			break
		}
		original := node.Data
		text := translated[i]

		if original != "" && text != "" {
			if strings.HasSuffix(original, " ") && !strings.HasSuffix(text, " ") {
				text += " "
			}
			if strings.HasPrefix(original, " ") && !strings.HasPrefix(text, " ") {
				text = " " + text
			}
		}

		node.Data = text
	}
}
