package ops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/snitch-dev/snitch/internal/config"
	"github.com/snitch-dev/snitch/internal/errors"
	"github.com/snitch-dev/snitch/internal/index"
)

// newProject creates a temp project with a .git dir and one source file,
// returning the project root and the source file path.
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

func TestCaptureEndToEnd(t *testing.T) {
	root, file := newProject(t, "TODO fix race condition\n")
	cfg := config.DefaultConfig()

	out, err := Capture(nil, cfg, CaptureInput{
		File:        file,
		Start:       0,
		End:         len("TODO fix race condition"),
		TemplateKey: "nt",
		Title:       "Fix race condition",
	})
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	if out.ID != "6beb45c9843b5f9361f03c8e6a97e7cb" {
		t.Errorf("id = %q", out.ID)
	}
	if out.Seq != 1 {
		t.Errorf("seq = %d, want 1", out.Seq)
	}
	if out.ProjectRoot != root {
		t.Errorf("project root = %q, want %q", out.ProjectRoot, root)
	}
	if out.Heading != "Tasks" {
		t.Errorf("heading = %q, want Tasks", out.Heading)
	}

	src, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	want := "(#1) [[id:6beb45c9843b5f9361f03c8e6a97e7cb][TODO fix race condition]]\n"
	if string(src) != want {
		t.Errorf("source after capture = %q, want %q", src, want)
	}

	track, err := os.ReadFile(filepath.Join(root, "TRACKING.md"))
	if err != nil {
		t.Fatal(err)
	}
	for _, fragment := range []string{"# Tasks", "## Fix race condition", ":id: 6beb45c9843b5f9361f03c8e6a97e7cb", ":seq: 1"} {
		if !strings.Contains(string(track), fragment) {
			t.Errorf("tracking file missing %q:\n%s", fragment, track)
		}
	}
}

func TestCaptureLineSelection(t *testing.T) {
	_, file := newProject(t, "first line\nsecond line\nthird line\n")
	cfg := config.DefaultConfig()

	out, err := Capture(nil, cfg, CaptureInput{
		File:        file,
		Line:        2,
		TemplateKey: "ni",
		Title:       "New issue",
	})
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if out.Label != "second line" {
		t.Errorf("label = %q, want %q", out.Label, "second line")
	}

	src, _ := os.ReadFile(file)
	if !strings.Contains(string(src), "first line\n(#1) [[id:") {
		t.Errorf("line 2 not rewritten in place:\n%s", src)
	}
	if !strings.Contains(string(src), "][second line]]\nthird line\n") {
		t.Errorf("surrounding lines disturbed:\n%s", src)
	}
}

func TestCaptureLinePastEOF(t *testing.T) {
	_, file := newProject(t, "only line\n")
	_, err := Capture(nil, config.DefaultConfig(), CaptureInput{
		File: file, Line: 5, TemplateKey: "nt", Title: "X",
	})
	if !errors.IsCode(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestCaptureValidation(t *testing.T) {
	_, file := newProject(t, "text\n")
	cfg := config.DefaultConfig()

	cases := []struct {
		name string
		in   CaptureInput
	}{
		{"missing title", CaptureInput{File: file, End: 4, TemplateKey: "nt"}},
		{"missing file", CaptureInput{End: 4, TemplateKey: "nt", Title: "T"}},
		{"unknown template", CaptureInput{File: file, End: 4, TemplateKey: "zz", Title: "T"}},
		{"empty selection", CaptureInput{File: file, TemplateKey: "nt", Title: "T"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Capture(nil, cfg, tc.in); !errors.IsCode(err, errors.ErrInvalidRequest) {
				t.Errorf("err = %v, want INVALID_REQUEST", err)
			}
		})
	}
}

func TestCaptureOutsideProject(t *testing.T) {
	dir := t.TempDir() // no .git, no .snitch
	file := filepath.Join(dir, "loose.txt")
	os.WriteFile(file, []byte("text\n"), 0o644)

	_, err := Capture(nil, config.DefaultConfig(), CaptureInput{
		File: file, End: 4, TemplateKey: "nt", Title: "T",
	})
	if !errors.IsCode(err, errors.ErrNotInProject) {
		t.Errorf("err = %v, want NOT_IN_PROJECT", err)
	}
}

func TestCaptureRecordsIndex(t *testing.T) {
	root, file := newProject(t, "indexed text\n")
	db, err := index.Init(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	out, err := Capture(db, config.DefaultConfig(), CaptureInput{
		File: file, End: len("indexed text"), TemplateKey: "nt", Title: "Indexed",
	})
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	located, err := Locate(db, LocateInput{ID: out.ID})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if located.Location.ProjectRoot != root {
		t.Errorf("located root = %q, want %q", located.Location.ProjectRoot, root)
	}
	if located.Location.Seq != 1 {
		t.Errorf("located seq = %d, want 1", located.Location.Seq)
	}
}

func TestEntriesListsAndFilters(t *testing.T) {
	_, file := newProject(t, "task text\nissue text\n")
	cfg := config.DefaultConfig()

	mustCapture := func(line int, key, title string) {
		t.Helper()
		if _, err := Capture(nil, cfg, CaptureInput{File: file, Line: line, TemplateKey: key, Title: title}); err != nil {
			t.Fatalf("Capture(%s): %v", title, err)
		}
	}
	mustCapture(1, "nt", "A task")
	mustCapture(2, "ni", "An issue")

	all, err := Entries(cfg, EntriesInput{Path: file})
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if all.Count != 2 {
		t.Fatalf("count = %d, want 2", all.Count)
	}

	tasks, err := Entries(cfg, EntriesInput{Path: file, Heading: "Tasks"})
	if err != nil {
		t.Fatalf("Entries(Tasks): %v", err)
	}
	if tasks.Count != 1 || tasks.Entries[0].Title != "A task" {
		t.Errorf("filtered = %+v", tasks.Entries)
	}
}

func TestEntriesEmptyProject(t *testing.T) {
	_, file := newProject(t, "nothing captured\n")
	out, err := Entries(config.DefaultConfig(), EntriesInput{Path: file})
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if out.Count != 0 || out.Entries == nil {
		t.Errorf("want empty non-nil slice, got %+v", out.Entries)
	}
}

func TestRenderCollapsesLinks(t *testing.T) {
	_, file := newProject(t, "see (#1) [[id:abc123][the fix]] here\n")

	out, err := Render(RenderInput{File: file, Cursor: -1})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out.Links != 1 {
		t.Errorf("links = %d, want 1", out.Links)
	}
	if out.Text != "see (#1) [the fix] here\n" {
		t.Errorf("text = %q", out.Text)
	}
}

func TestRenderCursorShowsRaw(t *testing.T) {
	raw := "see (#1) [[id:abc123][the fix]] here\n"
	_, file := newProject(t, raw)

	out, err := Render(RenderInput{File: file, Cursor: strings.Index(raw, "[[") + 2})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out.Text != raw {
		t.Errorf("text = %q, want raw source", out.Text)
	}
}

func TestExportWritesFile(t *testing.T) {
	root, file := newProject(t, "task text\n")
	cfg := config.DefaultConfig()
	if _, err := Capture(nil, cfg, CaptureInput{File: file, Line: 1, TemplateKey: "nt", Title: "A task"}); err != nil {
		t.Fatal(err)
	}

	out, err := Export(cfg, ExportInput{Path: file, Format: "json"})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if out.OutputFile != filepath.Join(root, "TRACKING.json") {
		t.Errorf("output file = %q", out.OutputFile)
	}
	if out.Count != 1 {
		t.Errorf("count = %d, want 1", out.Count)
	}

	data, err := os.ReadFile(out.OutputFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"title": "A task"`) {
		t.Errorf("exported JSON missing title:\n%s", data)
	}
}

func TestExportRejectsBadFormat(t *testing.T) {
	_, file := newProject(t, "x\n")
	_, err := Export(config.DefaultConfig(), ExportInput{Path: file, Format: "xml"})
	if !errors.IsCode(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestExportRefusesTrackingOverwrite(t *testing.T) {
	_, file := newProject(t, "x\n")
	_, err := Export(config.DefaultConfig(), ExportInput{Path: file, Format: "md"})
	if !errors.IsCode(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestLocateUnknownID(t *testing.T) {
	db, err := index.Init(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	_, err = Locate(db, LocateInput{ID: "deadbeef"})
	if !errors.IsCode(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}
