// Package lint checks the article against the conventions the rest of the
// toolchain depends on: required metadata, structural sanity, resolvable
// links, stable uid and content fingerprint.
package lint

import (
	"git.home.luguber.info/inful/restdoc/internal/article"
)

// Severity indicates the importance of a linting issue.
type Severity int

const (
	// SeverityInfo indicates informational messages.
	SeverityInfo Severity = iota
	// SeverityWarning indicates issues that should be fixed but do not block builds.
	SeverityWarning
	// SeverityError indicates issues that fail builds.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON renders the severity as its name so JSON output stays readable.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Issue is a single problem found in the article.
type Issue struct {
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
	Fix      string   `json:"fix,omitempty"`
	Line     int      `json:"line,omitempty"` // 0 for document-level issues
}

// Result aggregates the issues of one lint run.
type Result struct {
	Path   string  `json:"path"`
	Issues []Issue `json:"issues"`
}

// HasErrors reports whether any error-level issues exist.
func (r *Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the number of issues at the given severity.
func (r *Result) Count(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// Rule checks one aspect of an article.
type Rule interface {
	// Name returns the rule identifier.
	Name() string
	// Check returns the issues the rule found.
	Check(a *article.Article) []Issue
}

// Config controls linter behavior.
type Config struct {
	// Quiet drops info and warning issues from results.
	Quiet bool
	// ContentDir is the directory relative links resolve against. Defaults
	// to the article's own directory.
	ContentDir string
}

// Linter runs a fixed rule set over an article.
type Linter struct {
	cfg   Config
	rules []Rule
}

// New creates a linter with the default rule set.
func New(cfg Config) *Linter {
	return &Linter{
		cfg: cfg,
		rules: []Rule{
			&MetadataRule{},
			&HeadingRule{},
			&CodeFenceRule{},
			&LinkRule{ContentDir: cfg.ContentDir},
			&UIDRule{},
			&FingerprintRule{},
		},
	}
}

// Check runs all rules against the article.
func (l *Linter) Check(a *article.Article) *Result {
	result := &Result{Path: a.Path, Issues: []Issue{}}
	for _, rule := range l.rules {
		for _, issue := range rule.Check(a) {
			if l.cfg.Quiet && issue.Severity != SeverityError {
				continue
			}
			result.Issues = append(result.Issues, issue)
		}
	}
	return result
}
