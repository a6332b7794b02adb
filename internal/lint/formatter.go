package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter renders a lint result.
type Formatter interface {
	Format(w io.Writer, result *Result) error
}

// NewFormatter returns the formatter for a CLI format name ("text" or "json").
func NewFormatter(format string) Formatter {
	if format == "json" {
		return &JSONFormatter{}
	}
	return &TextFormatter{}
}

// TextFormatter renders results as human-readable text.
type TextFormatter struct{}

// Format writes issues grouped under the article path with a summary line.
func (f *TextFormatter) Format(w io.Writer, result *Result) error {
	if _, err := fmt.Fprintf(w, "Linting %s\n", result.Path); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("━", 60)); err != nil {
		return err
	}

	for _, issue := range result.Issues {
		loc := ""
		if issue.Line > 0 {
			loc = fmt.Sprintf(":%d", issue.Line)
		}
		if _, err := fmt.Fprintf(w, "%-7s %s%s  %s\n", issue.Severity, issue.Rule, loc, issue.Message); err != nil {
			return err
		}
		if issue.Fix != "" {
			if _, err := fmt.Fprintf(w, "        fix: %s\n", issue.Fix); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintln(w, strings.Repeat("━", 60)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d error(s), %d warning(s), %d info\n",
		result.Count(SeverityError), result.Count(SeverityWarning), result.Count(SeverityInfo))
	return err
}

// JSONFormatter renders results as a single JSON document.
type JSONFormatter struct{}

// Format writes the result as indented JSON.
func (f *JSONFormatter) Format(w io.Writer, result *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
