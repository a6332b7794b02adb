package lint

import (
	"fmt"
	"regexp"

	"git.home.luguber.info/inful/restdoc/internal/article"
)

// maxDescriptionLen caps descriptions so they stay usable as meta tags and
// index summaries.
const maxDescriptionLen = 300

var tagPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// MetadataRule validates the article's frontmatter metadata.
type MetadataRule struct{}

// Name returns the rule identifier.
func (r *MetadataRule) Name() string { return "metadata" }

// Check validates title, description and tags.
func (r *MetadataRule) Check(a *article.Article) []Issue {
	var issues []Issue

	if !a.HadFrontmatter {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "article has no frontmatter block",
			Fix:      "add a `---` delimited YAML block with title, description and tags",
		})
		return issues
	}

	if a.Meta.Title == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "missing required frontmatter field: title",
			Fix:      "add `title:` to the frontmatter",
		})
	}

	if a.Meta.Description == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "missing required frontmatter field: description",
			Fix:      "add `description:` to the frontmatter",
		})
	} else if len(a.Meta.Description) > maxDescriptionLen {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  fmt.Sprintf("description is %d characters, maximum is %d", len(a.Meta.Description), maxDescriptionLen),
			Fix:      "shorten the description",
		})
	}

	if len(a.Meta.Tags) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "article declares no tags",
			Fix:      "add at least one tag to the frontmatter",
		})
	}
	for _, tag := range a.Meta.Tags {
		if !tagPattern.MatchString(tag) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("tag %q is not lowercase-kebab", tag),
				Fix:      fmt.Sprintf("rename to %q", article.Slugify(tag)),
			})
		}
	}

	return issues
}
