package article

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/restdoc/internal/frontmatter"
)

// Frontmatter keys excluded from fingerprint canonicalization. lastmod and
// uid churn without content changes; aliases are routing metadata.
const (
	hashExcludeLastmod = "lastmod"
	hashExcludeUID     = "uid"
	hashExcludeAliases = "aliases"
)

// ComputeFingerprint computes the canonical content fingerprint of the
// article.
//
// Canonicalization: the fingerprint, lastmod, uid and aliases keys are
// excluded, remaining frontmatter is serialized as LF YAML with sorted keys,
// and a single trailing newline is trimmed before hashing.
func (a *Article) ComputeFingerprint() (string, error) {
	forHash := make(map[string]any, len(a.Fields))
	for k, v := range a.Fields {
		switch k {
		case mdfp.FingerprintField, hashExcludeLastmod, hashExcludeUID, hashExcludeAliases:
			continue
		}
		forHash[k] = v
	}

	fmForHash := ""
	if len(forHash) > 0 {
		serialized, err := frontmatter.SerializeYAML(forHash, frontmatter.Style{Newline: "\n"})
		if err != nil {
			return "", err
		}
		fmForHash = strings.TrimSuffix(string(serialized), "\n")
	}

	return mdfp.CalculateFingerprintFromParts(fmForHash, string(a.Body)), nil
}

// EnsureUID makes sure the article carries a uid, generating one only when
// the key is missing.
func (a *Article) EnsureUID() (uid string, changed bool) {
	if a.Meta.UID != "" {
		return a.Meta.UID, false
	}
	uid = uuid.NewString()
	a.Fields["uid"] = uid
	a.Meta.UID = uid
	return uid, true
}

// UpsertFingerprint recomputes the fingerprint and, when it changes, updates
// lastmod to now.
func (a *Article) UpsertFingerprint(now time.Time) (changed bool, err error) {
	fp, err := a.ComputeFingerprint()
	if err != nil {
		return false, err
	}
	if a.Meta.Fingerprint == fp {
		return false, nil
	}
	a.Fields[mdfp.FingerprintField] = fp
	a.Fields["lastmod"] = now.UTC().Format(time.RFC3339)
	a.Meta.Fingerprint = fp
	a.Meta.Lastmod = now.UTC()
	return true, nil
}
