package lint

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/restdoc/internal/article"
	"git.home.luguber.info/inful/restdoc/internal/markdown"
)

// HeadingRule validates the article's heading hierarchy.
type HeadingRule struct{}

// Name returns the rule identifier.
func (r *HeadingRule) Name() string { return "headings" }

// Check validates that the article has exactly one H1 and no skipped levels.
func (r *HeadingRule) Check(a *article.Article) []Issue {
	headings := markdown.ExtractHeadings(a.Body)

	var issues []Issue
	h1Count := 0
	prevLevel := 0
	for _, h := range headings {
		if strings.TrimSpace(h.Text) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  "heading has no text",
				Line:     h.Line,
			})
		}
		if h.Level == 1 {
			h1Count++
			if h1Count > 1 {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Rule:     r.Name(),
					Message:  fmt.Sprintf("multiple H1 headings; %q is extra", h.Text),
					Line:     h.Line,
					Fix:      "demote to H2 or merge sections",
				})
			}
		}
		if prevLevel > 0 && h.Level > prevLevel+1 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("heading level jumps from H%d to H%d at %q", prevLevel, h.Level, h.Text),
				Line:     h.Line,
				Fix:      fmt.Sprintf("use H%d instead", prevLevel+1),
			})
		}
		prevLevel = h.Level
	}

	if h1Count == 0 && len(headings) > 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  "article has no H1 heading",
			Fix:      "start the body with a single `#` heading matching the title",
		})
	}

	return issues
}

// knownFenceLanguages are the languages the rendered site can highlight.
var knownFenceLanguages = map[string]bool{
	"go": true, "json": true, "yaml": true, "bash": true, "sh": true,
	"shell": true, "http": true, "sql": true, "text": true, "console": true,
}

// CodeFenceRule validates fenced code blocks.
type CodeFenceRule struct{}

// Name returns the rule identifier.
func (r *CodeFenceRule) Name() string { return "code-fences" }

// Check validates that every fence declares a known language and is non-empty.
func (r *CodeFenceRule) Check(a *article.Article) []Issue {
	var issues []Issue
	for _, block := range markdown.ExtractCodeBlocks(a.Body) {
		if block.Language == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  "fenced code block declares no language",
				Line:     block.Line,
				Fix:      "add a language tag after the opening fence, e.g. ```go",
			})
			continue
		}
		if !knownFenceLanguages[block.Language] {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("unknown fence language %q", block.Language),
				Line:     block.Line,
			})
		}
		if strings.TrimSpace(block.Body) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Rule:     r.Name(),
				Message:  "fenced code block is empty",
				Line:     block.Line,
			})
		}
	}
	return issues
}
