package render

import (
	"fmt"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"

	"git.home.luguber.info/inful/restdoc/internal/article"
)

// anchorIDs assigns heading ids with article.Anchor so the rendered output,
// the outline nav and the lint anchor check all agree on one algorithm.
// Goldmark's default auto-ID would keep punctuation runs ("hello---world")
// that Slugify collapses.
type anchorIDs struct {
	used map[string]bool
}

func newAnchorIDs() parser.IDs {
	return &anchorIDs{used: map[string]bool{}}
}

// Generate implements parser.IDs.
func (ids *anchorIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	anchor := article.Anchor(string(value))
	if anchor == "" {
		anchor = "heading"
	}
	if !ids.used[anchor] {
		ids.used[anchor] = true
		return []byte(anchor)
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", anchor, i)
		if !ids.used[candidate] {
			ids.used[candidate] = true
			return []byte(candidate)
		}
	}
}

// Put implements parser.IDs.
func (ids *anchorIDs) Put(_ []byte) {}
