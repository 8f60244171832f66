package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clean-dependency-project/wwwserve/internal/config"
	"github.com/clean-dependency-project/wwwserve/internal/storage"
)

func runApp(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	app := NewApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	err := app.RunContext(ctx, append([]string{"wwwserve", "--log-level", "error"}, args...))
	return out.String(), err
}

func TestNewApp(t *testing.T) {
	app := NewApp()
	if app.Name != "wwwserve" {
		t.Errorf("Name = %q, want wwwserve", app.Name)
	}
	if app.DefaultCommand != "serve" {
		t.Errorf("DefaultCommand = %q, want serve", app.DefaultCommand)
	}

	want := map[string]bool{"serve": false, "init": false, "access-log": false}
	for _, cmd := range app.Commands {
		if _, ok := want[cmd.Name]; ok {
			want[cmd.Name] = true
		}
		if cmd.Action == nil {
			t.Errorf("command %s has no action", cmd.Name)
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %s not registered", name)
		}
	}
}

func TestServe_StopsOnCancelledContext(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "www")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("failed to create root: %v", err)
	}
	dbPath := filepath.Join(dir, "access.db")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runApp(t, ctx, "serve", "--host", "127.0.0.1", "--port", "0", "--root", root, "--access-db", dbPath)
	if err != nil {
		t.Fatalf("serve returned error: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("access log database not created: %v", err)
	}
}

func TestServe_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad policy", []string{"serve", "--redirect-policy", "sometimes"}, "unknown redirect policy"},
		{"bad port", []string{"serve", "--port", "99999"}, "port must be"},
		{"traversing root", []string{"serve", "--root", "../www"}, "document_root"},
		{"bad log level", []string{"--log-level", "loud", "serve"}, "invalid logLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runApp(t, context.Background(), tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestServe_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "wwwserve.yaml")
	if err := os.WriteFile(cfgPath, []byte("version: \"3.0\"\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := runApp(t, context.Background(), "--config", cfgPath, "serve")
	if !errors.Is(err, config.ErrVersionUnsupported) {
		t.Errorf("error = %v, want ErrVersionUnsupported", err)
	}
}

func TestInit_WritesRootAndConfig(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "site")
	cfgPath := filepath.Join(dir, "wwwserve.yaml")

	out, err := runApp(t, context.Background(), "init", "--root", root, "--name", "demo", "--write-config", cfgPath)
	if err != nil {
		t.Fatalf("init returned error: %v", err)
	}
	if !strings.Contains(out, "5 written") {
		t.Errorf("output = %q, want 5 written", out)
	}
	if _, err := os.Stat(filepath.Join(root, "deep", "index.html")); err != nil {
		t.Errorf("deep/index.html not written: %v", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.Server.DocumentRoot != root {
		t.Errorf("DocumentRoot = %q, want %q", cfg.Server.DocumentRoot, root)
	}

	out, err = runApp(t, context.Background(), "init", "--root", root, "--name", "demo")
	if err != nil {
		t.Fatalf("second init returned error: %v", err)
	}
	if !strings.Contains(out, "0 written, 5 unchanged") {
		t.Errorf("second output = %q, want all unchanged", out)
	}
}

func TestInit_DryRun(t *testing.T) {
	root := filepath.Join(t.TempDir(), "site")
	if _, err := runApp(t, context.Background(), "init", "--root", root, "--dry-run"); err != nil {
		t.Fatalf("init returned error: %v", err)
	}
	if _, err := os.Stat(root); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("dry run created %s", root)
	}
}

func TestAccessLog_Command(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "access.db")
	db, err := storage.InitDB(storage.Config{DatabasePath: dbPath})
	if err != nil {
		t.Fatalf("InitDB() error: %v", err)
	}
	for _, rec := range []storage.AccessRecord{
		{RemoteAddr: "127.0.0.1:1", Method: "GET", Path: "/", Status: 200, Bytes: 100},
		{RemoteAddr: "127.0.0.1:2", Method: "POST", Path: "/", Status: 405, Bytes: 200},
	} {
		rec := rec
		if err := db.RecordAccess(&rec); err != nil {
			t.Fatalf("RecordAccess() error: %v", err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	out, err := runApp(t, context.Background(), "access-log", "--db", dbPath, "--output", "json")
	if err != nil {
		t.Fatalf("access-log returned error: %v", err)
	}
	var report AccessReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(report.Records) != 2 || len(report.ByStatus) != 2 {
		t.Errorf("report = %+v, want 2 records and 2 statuses", report)
	}
}

func TestAccessLog_MissingDatabase(t *testing.T) {
	_, err := runApp(t, context.Background(), "access-log", "--db", filepath.Join(t.TempDir(), "none.db"))
	if !errors.Is(err, ErrAccessLogMissing) {
		t.Errorf("error = %v, want ErrAccessLogMissing", err)
	}
}
