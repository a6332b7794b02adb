package lint

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/restdoc/internal/article"
	"git.home.luguber.info/inful/restdoc/internal/markdown"
)

// LinkRule validates link destinations: absolute URLs must be well-formed
// http(s), relative paths must resolve under the content directory.
//
// Liveness of external links is the link checker's job, not the linter's.
type LinkRule struct {
	// ContentDir overrides the directory relative links resolve against.
	ContentDir string
}

// Name returns the rule identifier.
func (r *LinkRule) Name() string { return "links" }

// Check validates every extracted link destination.
func (r *LinkRule) Check(a *article.Article) []Issue {
	baseDir := r.ContentDir
	if baseDir == "" && a.Path != "" {
		baseDir = filepath.Dir(a.Path)
	}

	var issues []Issue
	for _, link := range markdown.ExtractLinks(a.Body) {
		dest := strings.TrimSpace(link.Destination)
		if dest == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("%s link has empty destination", link.Kind),
			})
			continue
		}

		if strings.Contains(dest, "://") || strings.HasPrefix(dest, "//") {
			u, err := url.Parse(dest)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Rule:     r.Name(),
					Message:  fmt.Sprintf("malformed or non-http(s) URL %q", dest),
				})
			}
			continue
		}

		// Anchors into the article itself are checked against headings.
		if strings.HasPrefix(dest, "#") {
			if !anchorExists(a, dest[1:]) {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Rule:     r.Name(),
					Message:  fmt.Sprintf("anchor %q matches no heading", dest),
				})
			}
			continue
		}
		if strings.HasPrefix(dest, "mailto:") {
			continue
		}

		if baseDir == "" {
			continue
		}
		rel := dest
		if idx := strings.IndexAny(rel, "#?"); idx >= 0 {
			rel = rel[:idx]
		}
		if rel == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(baseDir, filepath.FromSlash(rel))); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("relative link %q does not resolve under %s", dest, baseDir),
				Fix:      "fix the path or move the asset into the content directory",
			})
		}
	}
	return issues
}

func anchorExists(a *article.Article, anchor string) bool {
	for _, h := range markdown.ExtractHeadings(a.Body) {
		if article.Anchor(h.Text) == anchor {
			return true
		}
	}
	return false
}
