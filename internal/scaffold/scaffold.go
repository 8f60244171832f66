// Package scaffold writes a starter document root: a few linked HTML pages
// and stylesheets rendered from embedded templates.
package scaffold

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed assets/*.css
var assetsFS embed.FS

// ErrOutputDirRequired is returned when no document root is given.
var ErrOutputDirRequired = errors.New("output directory is required")

// Link is an anchor on a generated page.
type Link struct {
	Href  string
	Label string
}

// Page is one generated HTML file, relative to the document root.
type Page struct {
	Path       string
	Title      string
	Heading    string
	Stylesheet string
	Links      []Link
}

// Options controls generation.
type Options struct {
	OutputDir string
	SiteName  string
	DryRun    bool
}

// Result lists the files touched by Generate, relative to OutputDir.
type Result struct {
	Written   []string
	Unchanged []string
}

// Generator renders the starter site.
type Generator struct {
	logger *slog.Logger
}

// NewGenerator creates a new Generator.
func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{logger: logger}
}

// Pages returns the page set for siteName. Directory links end in "/" so
// they resolve to index.html without a redirect.
func Pages(siteName string) []Page {
	name := cases.Title(language.English).String(strings.TrimSpace(siteName))
	if name == "" {
		name = "Home"
	}
	return []Page{
		{
			Path:       "index.html",
			Title:      name,
			Heading:    name,
			Stylesheet: "base.css",
			Links: []Link{
				{Href: "deep/", Label: "Deep"},
				{Href: "hardcode/", Label: "Hardcode"},
			},
		},
		{
			Path:       "deep/index.html",
			Title:      name + " - Deep",
			Heading:    "Deep",
			Stylesheet: "deep.css",
			Links:      []Link{{Href: "../", Label: "Back"}},
		},
		{
			Path:       "hardcode/index.html",
			Title:      name + " - Hardcode",
			Heading:    "Hardcode",
			Stylesheet: "/base.css",
			Links:      []Link{{Href: "/", Label: "Back"}},
		},
	}
}

// assets maps embedded stylesheets to their place in the document root.
var assets = map[string]string{
	"assets/base.css": "base.css",
	"assets/deep.css": "deep/deep.css",
}

// Generate writes the starter site into opts.OutputDir. Files whose content
// is already current are left untouched, so running it twice is a no-op.
func (g *Generator) Generate(ctx context.Context, opts Options) (*Result, error) {
	if opts.OutputDir == "" {
		return nil, ErrOutputDirRequired
	}

	g.logger.Info("starting scaffold", "output_dir", opts.OutputDir, "dry_run", opts.DryRun)

	files, err := renderFiles(opts.SiteName)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, rel := range sortedKeys(files) {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if opts.DryRun {
			g.logger.Info("dry-run: would write", "path", rel)
			continue
		}
		written, err := writeFileIfChanged(filepath.Join(opts.OutputDir, filepath.FromSlash(rel)), files[rel], g.logger)
		if err != nil {
			return result, fmt.Errorf("failed to write %s: %w", rel, err)
		}
		if written {
			result.Written = append(result.Written, rel)
		} else {
			result.Unchanged = append(result.Unchanged, rel)
		}
	}

	g.logger.Info("scaffold completed",
		"written", len(result.Written),
		"unchanged", len(result.Unchanged))
	return result, nil
}

// renderFiles returns every file of the site keyed by slash-separated path.
func renderFiles(siteName string) (map[string][]byte, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	files := make(map[string][]byte)
	for _, page := range Pages(siteName) {
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, "page.tmpl", page); err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", page.Path, err)
		}
		files[page.Path] = buf.Bytes()
	}

	for src, dst := range assets {
		data, err := assetsFS.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded %s: %w", src, err)
		}
		files[dst] = data
	}
	return files, nil
}
