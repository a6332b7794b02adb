package article

import (
	"git.home.luguber.info/inful/restdoc/internal/markdown"
)

// Outline is the structural summary of an article body.
type Outline struct {
	Headings   []markdown.Heading
	CodeBlocks []markdown.CodeBlock
	Tables     []markdown.Table
	Links      []markdown.Link
}

// Outline extracts the structural summary of the article body.
func (a *Article) Outline() Outline {
	return Outline{
		Headings:   markdown.ExtractHeadings(a.Body),
		CodeBlocks: markdown.ExtractCodeBlocks(a.Body),
		Tables:     markdown.ExtractTables(a.Body),
		Links:      markdown.ExtractLinks(a.Body),
	}
}

// Anchor returns the heading id the renderer assigns. The renderer installs
// this same slug algorithm as its heading-ID generator, so nav links and the
// lint anchor check always match the rendered output.
func Anchor(headingText string) string {
	return Slugify(headingText)
}
