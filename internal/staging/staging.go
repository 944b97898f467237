// Package staging prepares the build directory: it wipes it, then copies the
// static asset directories and top-level HTML pages of the site into it.
package staging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"yongpei/internal/config"
	"yongpei/internal/failure"
	"yongpei/internal/logger"
)

// Result counts what Stage copied.
type Result struct {
	Dirs  []string
	Pages []string
}

// Stager copies a site tree into its build directory.
type Stager struct {
	log       *logger.Logger
	root      string
	buildDir  string
	assetDirs []string
	excluded  []string
}

// New creates a stager for cfg. The category and product templates are never copied.
func New(cfg config.SiteConfig, log *logger.Logger) *Stager {
	if log == nil {
		log = logger.Discard()
	}

	return &Stager{
		log:       log,
		root:      cfg.Root,
		buildDir:  cfg.BuildDir,
		assetDirs: cfg.AssetDirs,
		excluded:  cfg.ExcludedHTML(),
	}
}

// Clean removes the build directory. A missing directory is already clean.
func (s *Stager) Clean() error {
	if err := os.RemoveAll(s.buildDir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: clean %s: %w", failure.ErrFilesystem, s.buildDir, err)
	}

	return nil
}

// Stage cleans the build directory and copies the site into it.
func (s *Stager) Stage() (*Result, error) {
	s.log.Info("Cleaning build directory", "dir", s.buildDir)

	if err := s.Clean(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.buildDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", failure.ErrFilesystem, s.buildDir, err)
	}

	result := &Result{}

	for _, dir := range s.assetDirs {
		src := filepath.Join(s.root, dir)

		if err := os.CopyFS(filepath.Join(s.buildDir, dir), os.DirFS(src)); err != nil {
			return nil, fmt.Errorf("%w: copy %s: %w", failure.ErrFilesystem, src, err)
		}

		result.Dirs = append(result.Dirs, dir)
	}

	pages, err := s.topLevelPages()
	if err != nil {
		return nil, err
	}

	for _, name := range pages {
		if err := copyFile(filepath.Join(s.root, name), filepath.Join(s.buildDir, name)); err != nil {
			return nil, err
		}

		result.Pages = append(result.Pages, name)
	}

	s.log.Info("Static files copied", "dirs", len(result.Dirs), "pages", len(result.Pages))

	return result, nil
}

// topLevelPages lists *.html directly under the root, minus the templates.
func (s *Stager) topLevelPages() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", failure.ErrFilesystem, s.root, err)
	}

	var pages []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".html") || slices.Contains(s.excluded, name) {
			continue
		}

		pages = append(pages, name)
	}

	return pages, nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", failure.ErrFilesystem, src, err)
	}

	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("%w: write %s: %w", failure.ErrFilesystem, dst, err)
	}

	return nil
}
