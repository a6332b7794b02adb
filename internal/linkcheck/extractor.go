// Package linkcheck verifies that the article's external links are alive.
//
// Verdicts are cached in NATS JetStream KV so repeated serve-mode rebuilds
// do not hammer external hosts, and broken links are published as events for
// downstream consumers.
package linkcheck

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Link is an external link extracted from rendered HTML.
type Link struct {
	URL  string
	Tag  string
	Text string
}

// ExtractExternalLinks parses rendered HTML and returns the http(s) links
// found in a/img/link/script elements. Relative links are the linter's
// concern and are skipped here.
func ExtractExternalLinks(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if l, ok := elementLink(n); ok {
				links = append(links, l)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func elementLink(n *html.Node) (Link, bool) {
	attr := ""
	switch n.Data {
	case "a", "link":
		attr = "href"
	case "img", "script":
		attr = "src"
	default:
		return Link{}, false
	}

	for _, a := range n.Attr {
		if a.Key != attr {
			continue
		}
		u, err := url.Parse(strings.TrimSpace(a.Val))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return Link{}, false
		}
		return Link{URL: u.String(), Tag: n.Data, Text: nodeText(n)}, true
	}
	return Link{}, false
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
