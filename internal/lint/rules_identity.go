package lint

import (
	"github.com/google/uuid"

	"git.home.luguber.info/inful/restdoc/internal/article"
)

// UIDRule validates that the article carries a stable uuid.
type UIDRule struct{}

// Name returns the rule identifier.
func (r *UIDRule) Name() string { return "frontmatter-uid" }

// Check validates presence and format of the uid field.
func (r *UIDRule) Check(a *article.Article) []Issue {
	if !a.HadFrontmatter {
		return nil // the metadata rule already reports this
	}
	if a.Meta.UID == "" {
		return []Issue{{
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  "article has no uid; stable references need one",
			Fix:      "run `restdoc lint --fix` to generate one",
		}}
	}
	if _, err := uuid.Parse(a.Meta.UID); err != nil {
		return []Issue{{
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "uid is not a valid uuid: " + a.Meta.UID,
			Fix:      "remove the uid and run `restdoc lint --fix` to regenerate",
		}}
	}
	return nil
}

// FingerprintRule validates that the stored content fingerprint matches the
// article's current content.
type FingerprintRule struct{}

// Name returns the rule identifier.
func (r *FingerprintRule) Name() string { return "frontmatter-fingerprint" }

// Check recomputes the canonical fingerprint and compares.
func (r *FingerprintRule) Check(a *article.Article) []Issue {
	if !a.HadFrontmatter {
		return nil
	}

	current, err := a.ComputeFingerprint()
	if err != nil {
		return []Issue{{
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  "failed to compute content fingerprint: " + err.Error(),
		}}
	}

	if a.Meta.Fingerprint == "" {
		return []Issue{{
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  "article has no content fingerprint",
			Fix:      "run `restdoc lint --fix` to add one",
		}}
	}
	if a.Meta.Fingerprint != current {
		return []Issue{{
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  "content fingerprint is stale",
			Fix:      "run `restdoc lint --fix` to update fingerprint and lastmod",
		}}
	}
	return nil
}
