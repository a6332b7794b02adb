// Package markdown provides goldmark-based analysis of markdown bodies.
//
// These are read-only analysis helpers; nothing here attempts to re-render
// or mutate markdown.
package markdown

import (
	"bytes"
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Heading is a heading extracted from a markdown body.
type Heading struct {
	Level int
	Text  string
	Line  int
}

// CodeBlock is a fenced code block extracted from a markdown body.
type CodeBlock struct {
	Language string
	Info     string
	Body     string
	Line     int
}

// Table is a GFM table extracted from a markdown body.
type Table struct {
	Header []string
	Rows   int
	Line   int
}

// LinkKind distinguishes the construct a link came from.
type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference-definition"
)

// Link is a link-like construct extracted from a markdown body.
type Link struct {
	Kind        LinkKind
	Destination string
}

func newParser() parser.Parser {
	return goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()
}

// ParseBody parses a markdown body (frontmatter already removed) into a
// goldmark AST with GFM extensions enabled.
func ParseBody(body []byte) gmast.Node {
	return newParser().Parse(text.NewReader(body))
}

// ExtractHeadings returns all headings in document order.
func ExtractHeadings(body []byte) []Heading {
	root := ParseBody(body)

	var headings []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		line := 0
		if lines := h.Lines(); lines.Len() > 0 {
			line = lineOf(body, lines.At(0).Start)
		}
		headings = append(headings, Heading{
			Level: h.Level,
			Text:  string(nodeText(h, body)),
			Line:  line,
		})
		return gmast.WalkContinue, nil
	})
	return headings
}

// ExtractCodeBlocks returns all fenced code blocks in document order.
func ExtractCodeBlocks(body []byte) []CodeBlock {
	root := ParseBody(body)

	var blocks []CodeBlock
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		fc, ok := n.(*gmast.FencedCodeBlock)
		if !ok {
			return gmast.WalkContinue, nil
		}

		var info string
		line := 0
		if fc.Info != nil {
			info = string(fc.Info.Segment.Value(body))
			line = lineOf(body, fc.Info.Segment.Start)
		} else if fc.Lines().Len() > 0 {
			line = lineOf(body, fc.Lines().At(0).Start)
		}

		var buf bytes.Buffer
		for i := 0; i < fc.Lines().Len(); i++ {
			seg := fc.Lines().At(i)
			buf.Write(seg.Value(body))
		}

		blocks = append(blocks, CodeBlock{
			Language: string(fc.Language(body)),
			Info:     info,
			Body:     buf.String(),
			Line:     line,
		})
		return gmast.WalkContinue, nil
	})
	return blocks
}

// ExtractTables returns all GFM tables in document order.
func ExtractTables(body []byte) []Table {
	root := ParseBody(body)

	var tables []Table
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		tbl, ok := n.(*extast.Table)
		if !ok {
			return gmast.WalkContinue, nil
		}

		t := Table{}
		for child := tbl.FirstChild(); child != nil; child = child.NextSibling() {
			switch row := child.(type) {
			case *extast.TableHeader:
				for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
					t.Header = append(t.Header, string(nodeText(cell, body)))
				}
			case *extast.TableRow:
				t.Rows++
			}
		}
		tables = append(tables, t)
		return gmast.WalkSkipChildren, nil
	})
	return tables
}

// ExtractLinks returns link-like constructs, including reference definitions
// stored in the parse context rather than the AST.
func ExtractLinks(body []byte) []Link {
	ctx := parser.NewContext()
	root := newParser().Parse(text.NewReader(body), parser.WithContext(ctx))

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})

	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: LinkKindReferenceDefinition, Destination: string(ref.Destination())})
	}

	return links
}

// nodeText collects the raw text content beneath a node.
func nodeText(n gmast.Node, source []byte) []byte {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(child gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if t, ok := child.(*gmast.Text); ok {
			buf.Write(t.Segment.Value(source))
		}
		return gmast.WalkContinue, nil
	})
	return buf.Bytes()
}

// lineOf converts a byte offset into a 1-based line number.
func lineOf(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte("\n")) + 1
}
