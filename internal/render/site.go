package render

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// WriteSite writes the rendered page and the content directory's assets into
// outputDir using atomic staging: everything lands in a temp sibling
// directory which is swapped in only when complete, so a serving daemon
// never reads a half-written site.
func WriteSite(page *Page, contentDir, outputDir string) error {
	parent := filepath.Dir(outputDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create output parent: %w", err)
	}

	staging, err := os.MkdirTemp(parent, ".restdoc-staging-")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := os.WriteFile(filepath.Join(staging, "index.html"), page.HTML, 0o644); err != nil {
		return fmt.Errorf("write index.html: %w", err)
	}
	if contentDir != "" {
		if err := copyAssets(contentDir, staging); err != nil {
			return fmt.Errorf("copy assets: %w", err)
		}
	}

	// Swap: remove the previous site, then rename staging into place.
	old := outputDir + ".old"
	_ = os.RemoveAll(old)
	if _, err := os.Stat(outputDir); err == nil {
		if err := os.Rename(outputDir, old); err != nil {
			return fmt.Errorf("move previous site aside: %w", err)
		}
	}
	if err := os.Rename(staging, outputDir); err != nil {
		// Try to restore the previous site before giving up.
		_ = os.Rename(old, outputDir)
		return fmt.Errorf("swap site into place: %w", err)
	}
	_ = os.RemoveAll(old)

	slog.Info("Wrote site", slog.String("output", outputDir), slog.String("hash", page.Hash[:8]))
	return nil
}

// copyAssets copies non-markdown, non-hidden files beneath contentDir into
// dst, preserving relative layout.
func copyAssets(contentDir, dst string) error {
	return filepath.WalkDir(contentDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && name != "." {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(name), ".md") {
			return nil
		}

		rel, err := filepath.Rel(contentDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(filepath.Clean(dst))
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
