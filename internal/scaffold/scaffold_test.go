package scaffold

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clean-dependency-project/wwwserve/internal/logger"
	"github.com/clean-dependency-project/wwwserve/internal/resolver"
)

var wantFiles = []string{
	"base.css",
	"deep/deep.css",
	"deep/index.html",
	"hardcode/index.html",
	"index.html",
}

func TestPages(t *testing.T) {
	tests := []struct {
		siteName string
		want     string
	}{
		{"my site", "My Site"},
		{"  docs ", "Docs"},
		{"", "Home"},
	}
	for _, tt := range tests {
		pages := Pages(tt.siteName)
		if len(pages) != 3 {
			t.Fatalf("Pages(%q) returned %d pages, want 3", tt.siteName, len(pages))
		}
		if pages[0].Heading != tt.want {
			t.Errorf("Pages(%q) heading = %q, want %q", tt.siteName, pages[0].Heading, tt.want)
		}
		for _, p := range pages {
			for _, l := range p.Links {
				if l.Href != "/" && l.Href != "../" && !strings.HasSuffix(l.Href, "/") {
					t.Errorf("page %s links to %q, want a slash-terminated directory", p.Path, l.Href)
				}
			}
		}
	}
}

func TestGenerate(t *testing.T) {
	out := filepath.Join(t.TempDir(), "www")
	g := NewGenerator(logger.Discard())

	result, err := g.Generate(context.Background(), Options{OutputDir: out, SiteName: "test site"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if strings.Join(result.Written, ",") != strings.Join(wantFiles, ",") {
		t.Errorf("Written = %v, want %v", result.Written, wantFiles)
	}
	if len(result.Unchanged) != 0 {
		t.Errorf("Unchanged = %v, want none", result.Unchanged)
	}

	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	if err != nil {
		t.Fatalf("failed to read index.html: %v", err)
	}
	for _, want := range []string{"<h1>Test Site</h1>", `href="deep/"`, `href="base.css"`} {
		if !strings.Contains(string(index), want) {
			t.Errorf("index.html missing %q:\n%s", want, index)
		}
	}

	// Second run touches nothing.
	again, err := g.Generate(context.Background(), Options{OutputDir: out, SiteName: "test site"})
	if err != nil {
		t.Fatalf("Generate() second run error: %v", err)
	}
	if len(again.Written) != 0 || len(again.Unchanged) != len(wantFiles) {
		t.Errorf("second run = %+v, want all unchanged", again)
	}

	// A different name rewrites only the pages.
	renamed, err := g.Generate(context.Background(), Options{OutputDir: out, SiteName: "other"})
	if err != nil {
		t.Fatalf("Generate() rename error: %v", err)
	}
	if len(renamed.Written) != 3 {
		t.Errorf("rename wrote %v, want the 3 pages", renamed.Written)
	}
}

func TestGenerate_DryRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "www")

	result, err := NewGenerator(nil).Generate(context.Background(), Options{OutputDir: out, DryRun: true})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(result.Written)+len(result.Unchanged) != 0 {
		t.Errorf("dry run result = %+v, want empty", result)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("dry run created %s", out)
	}
}

func TestGenerate_Errors(t *testing.T) {
	g := NewGenerator(logger.Discard())

	if _, err := g.Generate(context.Background(), Options{}); !errors.Is(err, ErrOutputDirRequired) {
		t.Errorf("Generate() error = %v, want ErrOutputDirRequired", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Generate(ctx, Options{OutputDir: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}

func TestGenerate_ServedByResolver(t *testing.T) {
	out := filepath.Join(t.TempDir(), "www")
	if _, err := NewGenerator(logger.Discard()).Generate(context.Background(), Options{OutputDir: out}); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	r := resolver.New(out, resolver.PolicyDirectory, nil)
	tests := []struct {
		path string
		want int
	}{
		{"/", 200},
		{"/base.css", 200},
		{"/deep", 301},
		{"/deep/", 200},
		{"/deep/deep.css", 200},
		{"/hardcode/", 200},
		{"/hardcode/index.html", 200},
	}
	for _, tt := range tests {
		if got := r.Classify(resolver.Request{Method: "GET", Path: tt.path}).Status(); got != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, got, tt.want)
		}
	}
}
