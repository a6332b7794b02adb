package lint

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/restdoc/internal/article"
)

// FixResult describes what a fix pass changed.
type FixResult struct {
	UIDAdded           bool
	FingerprintUpdated bool
	Saved              bool
}

// Fix applies the automatic fixes: missing uid, stale fingerprint (which
// also refreshes lastmod). It rewrites the article in place only when
// something changed; dryRun reports without writing.
func Fix(a *article.Article, now time.Time, dryRun bool) (FixResult, error) {
	var res FixResult

	if _, added := a.EnsureUID(); added {
		res.UIDAdded = true
	}

	changed, err := a.UpsertFingerprint(now)
	if err != nil {
		return res, fmt.Errorf("upsert fingerprint: %w", err)
	}
	res.FingerprintUpdated = changed

	if dryRun || (!res.UIDAdded && !res.FingerprintUpdated) {
		return res, nil
	}

	if err := a.Save(); err != nil {
		return res, fmt.Errorf("save article: %w", err)
	}
	res.Saved = true
	return res, nil
}
