// Package article models the single markdown article this tool operates on.
package article

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/restdoc/internal/frontmatter"
)

// Meta holds the article's frontmatter metadata.
type Meta struct {
	Title       string
	Description string
	Tags        []string
	Slug        string
	UID         string
	Fingerprint string
	Lastmod     time.Time
}

// Article is a parsed markdown article: metadata plus body, with enough raw
// state retained for stable rewriting.
type Article struct {
	Path string
	Meta Meta

	// Fields is the raw decoded frontmatter map, including keys Meta does
	// not model.
	Fields map[string]any

	Body           []byte
	HadFrontmatter bool
	Style          frontmatter.Style
}

// Load reads and parses the article at path.
func Load(path string) (*Article, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read article: %w", err)
	}

	a, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	a.Path = path
	if a.Meta.Slug == "" {
		a.Meta.Slug = Slugify(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	return a, nil
}

// Parse parses raw article content.
//
// A document without frontmatter parses successfully with empty Meta; an
// unterminated frontmatter block returns frontmatter.ErrMissingClosingDelimiter.
func Parse(content []byte) (*Article, error) {
	fm, body, had, style, err := frontmatter.Split(content)
	if err != nil {
		return nil, err
	}

	fields, err := frontmatter.ParseYAML(fm)
	if err != nil {
		return nil, fmt.Errorf("decode frontmatter: %w", err)
	}

	a := &Article{
		Fields:         fields,
		Body:           body,
		HadFrontmatter: had,
		Style:          style,
	}
	a.Meta = decodeMeta(fields)
	if a.Meta.Slug == "" && a.Meta.Title != "" {
		a.Meta.Slug = Slugify(a.Meta.Title)
	}
	return a, nil
}

// Content reassembles the article from its current fields and body.
func (a *Article) Content() ([]byte, error) {
	fm, err := frontmatter.SerializeYAML(a.Fields, a.Style)
	if err != nil {
		return nil, fmt.Errorf("serialize frontmatter: %w", err)
	}
	had := a.HadFrontmatter || len(a.Fields) > 0
	return frontmatter.Join(fm, a.Body, had, a.Style), nil
}

// Save writes the reassembled article back to its source path.
func (a *Article) Save() error {
	if a.Path == "" {
		return fmt.Errorf("article has no source path")
	}
	content, err := a.Content()
	if err != nil {
		return err
	}
	return os.WriteFile(a.Path, content, 0o644)
}

func decodeMeta(fields map[string]any) Meta {
	m := Meta{
		Title:       stringField(fields, "title"),
		Description: stringField(fields, "description"),
		Slug:        stringField(fields, "slug"),
		UID:         stringField(fields, "uid"),
		Fingerprint: stringField(fields, mdfp.FingerprintField),
	}

	switch tags := fields["tags"].(type) {
	case []any:
		for _, t := range tags {
			if s := strings.TrimSpace(fmt.Sprint(t)); s != "" {
				m.Tags = append(m.Tags, s)
			}
		}
	case []string:
		m.Tags = append(m.Tags, tags...)
	case string:
		for _, t := range strings.Split(tags, ",") {
			if s := strings.TrimSpace(t); s != "" {
				m.Tags = append(m.Tags, s)
			}
		}
	}

	if raw := stringField(fields, "lastmod"); raw != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if ts, err := time.Parse(layout, raw); err == nil {
				m.Lastmod = ts
				break
			}
		}
	}

	return m
}

func stringField(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
