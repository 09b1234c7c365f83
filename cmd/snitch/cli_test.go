package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/snitch-dev/snitch/internal/config"
	"github.com/snitch-dev/snitch/internal/index"
	"github.com/snitch-dev/snitch/internal/ops"
)

// setupTestDB creates a temporary index database for testing.
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	db, err := index.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init test index: %v", err)
	}
	cleanup := func() {
		db.Close()
	}
	return db, cleanup
}

// newProject creates a temp project with a .git dir and one source file.
func newProject(t *testing.T, source string) (string, string) {
	t.Helper()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(root, "notes.txt")
	if err := os.WriteFile(file, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	return root, file
}

// captureStdout runs fn with stdout redirected to a buffer.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w

	runErr := fn()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), runErr
}

func TestCLICapture(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := config.DefaultConfig()

	root, file := newProject(t, "TODO fix login bug\n")
	app := newCLIApp(db, cfg)

	// Pipe the entry body via stdin
	oldStdin := os.Stdin
	stdinR, stdinW, _ := os.Pipe()
	os.Stdin = stdinR
	go func() {
		_, _ = stdinW.WriteString("Found while testing the login form.")
		stdinW.Close()
	}()

	out, err := captureStdout(t, func() error {
		return app.Run([]string{"snitch", "capture", "--line=1", "--template=nt", "--title=Fix login bug", file})
	})
	os.Stdin = oldStdin

	if err != nil {
		t.Fatalf("capture command failed: %v", err)
	}

	var output ops.CaptureOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}

	if output.ID != "6ee6aad8a2c07efc303174a5f97fc204" {
		t.Errorf("id = %q", output.ID)
	}
	if output.Seq != 1 {
		t.Errorf("seq = %d, want 1", output.Seq)
	}
	if output.ProjectRoot != root {
		t.Errorf("project root = %q, want %q", output.ProjectRoot, root)
	}

	track, err := os.ReadFile(filepath.Join(root, "TRACKING.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(track), "Found while testing the login form.") {
		t.Errorf("tracking file missing piped body:\n%s", track)
	}
}

func TestCLICaptureMissingFile(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	app := newCLIApp(db, config.DefaultConfig())
	_, err := captureStdout(t, func() error {
		return app.Run([]string{"snitch", "capture", "--line=1", "--template=nt", "--title=X"})
	})
	if err == nil {
		t.Fatal("expected error for missing file argument")
	}
	if !strings.Contains(err.Error(), "INVALID_REQUEST") {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestCLIEntries(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := config.DefaultConfig()

	_, file := newProject(t, "task one\ntask two\n")
	for i, title := range []string{"First", "Second"} {
		if _, err := ops.Capture(db, cfg, ops.CaptureInput{
			File: file, Line: i + 1, TemplateKey: "nt", Title: title,
		}); err != nil {
			t.Fatalf("setup capture failed: %v", err)
		}
	}

	app := newCLIApp(db, cfg)
	out, err := captureStdout(t, func() error {
		return app.Run([]string{"snitch", "entries", file})
	})
	if err != nil {
		t.Fatalf("entries command failed: %v", err)
	}

	var output ops.EntriesOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if output.Count != 2 {
		t.Errorf("count = %d, want 2", output.Count)
	}
	if output.Entries[0].Title != "First" {
		t.Errorf("entries[0].Title = %q", output.Entries[0].Title)
	}
}

func TestCLIRender(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, file := newProject(t, "see (#1) [[id:abc123][the fix]] here\n")

	app := newCLIApp(db, config.DefaultConfig())
	out, err := captureStdout(t, func() error {
		return app.Run([]string{"snitch", "render", file})
	})
	if err != nil {
		t.Fatalf("render command failed: %v", err)
	}
	if out != "see (#1) [the fix] here\n" {
		t.Errorf("render output = %q", out)
	}
}

func TestCLILocate(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := config.DefaultConfig()

	root, file := newProject(t, "indexed line\n")
	captured, err := ops.Capture(db, cfg, ops.CaptureInput{
		File: file, Line: 1, TemplateKey: "nt", Title: "Indexed",
	})
	if err != nil {
		t.Fatalf("setup capture failed: %v", err)
	}

	app := newCLIApp(db, cfg)
	out, err := captureStdout(t, func() error {
		return app.Run([]string{"snitch", "locate", captured.ID})
	})
	if err != nil {
		t.Fatalf("locate command failed: %v", err)
	}

	var output ops.LocateOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if output.Location.ProjectRoot != root {
		t.Errorf("project_root = %q, want %q", output.Location.ProjectRoot, root)
	}
}

func TestCLILocateUnknown(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	app := newCLIApp(db, config.DefaultConfig())
	_, err := captureStdout(t, func() error {
		return app.Run([]string{"snitch", "locate", "deadbeef"})
	})
	if err == nil {
		t.Fatal("expected error for unknown id")
	}
	if !strings.Contains(err.Error(), "NOT_FOUND") {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestCLIExport(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	cfg := config.DefaultConfig()

	root, file := newProject(t, "task line\n")
	if _, err := ops.Capture(db, cfg, ops.CaptureInput{
		File: file, Line: 1, TemplateKey: "nt", Title: "A task",
	}); err != nil {
		t.Fatalf("setup capture failed: %v", err)
	}

	app := newCLIApp(db, cfg)
	out, err := captureStdout(t, func() error {
		return app.Run([]string{"snitch", "export", "--format=yaml", file})
	})
	if err != nil {
		t.Fatalf("export command failed: %v", err)
	}

	var output ops.ExportOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if output.OutputFile != filepath.Join(root, "TRACKING.yaml") {
		t.Errorf("output_file = %q", output.OutputFile)
	}
	data, err := os.ReadFile(output.OutputFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "title: A task") {
		t.Errorf("exported YAML missing title:\n%s", data)
	}
}

func TestIsCLIMode(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"snitch"}, false},
		{[]string{"snitch", "capture"}, true},
		{[]string{"snitch", "entries"}, true},
		{[]string{"snitch", "--help"}, true},
		{[]string{"snitch", "-v"}, true},
		{[]string{"snitch", "bogus"}, false},
	}
	for _, tt := range tests {
		os.Args = tt.args
		if got := isCLIMode(); got != tt.want {
			t.Errorf("isCLIMode(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
