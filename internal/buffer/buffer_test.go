package buffer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/snitch-dev/snitch/internal/errors"
)

func TestInsertDelete(t *testing.T) {
	b := New("test", "hello world")

	if err := b.Insert(5, ","); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if b.Text() != "hello, world" {
		t.Errorf("Text = %q", b.Text())
	}

	if err := b.Delete(0, 7); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if b.Text() != "world" {
		t.Errorf("Text = %q", b.Text())
	}
}

func TestReplace(t *testing.T) {
	b := New("test", "one two three")
	if err := b.Replace(4, 7, "2"); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if b.Text() != "one 2 three" {
		t.Errorf("Text = %q", b.Text())
	}
}

func TestRangeChecks(t *testing.T) {
	b := New("test", "abc")
	if err := b.Insert(4, "x"); !errors.IsCode(err, errors.ErrInvalidRequest) {
		t.Errorf("Insert out of range: err = %v", err)
	}
	if err := b.Delete(2, 1); !errors.IsCode(err, errors.ErrInvalidRequest) {
		t.Errorf("Delete with end < start: err = %v", err)
	}
	if _, err := b.Slice(-1, 2); !errors.IsCode(err, errors.ErrInvalidRequest) {
		t.Errorf("Slice negative start: err = %v", err)
	}
}

func TestMarkerShiftsOnInsertBefore(t *testing.T) {
	b := New("test", "aaa TODO bbb")
	start := b.NewMarker(4, true)
	end := b.NewMarker(8, false)

	if err := b.Insert(0, "xx"); err != nil {
		t.Fatal(err)
	}

	s, _ := start.Offset()
	e, _ := end.Offset()
	if s != 6 || e != 10 {
		t.Errorf("markers = (%d, %d), want (6, 10)", s, e)
	}
	if got, _ := b.Slice(s, e); got != "TODO" {
		t.Errorf("region = %q, want TODO", got)
	}
}

func TestMarkerGravityAtBoundaries(t *testing.T) {
	b := New("test", "aaTODObb")
	start := b.NewMarker(2, true)
	end := b.NewMarker(6, false)

	// Insertion exactly at the start pushes the region right.
	if err := b.Insert(2, "__"); err != nil {
		t.Fatal(err)
	}
	s, _ := start.Offset()
	e, _ := end.Offset()
	if s != 4 || e != 8 {
		t.Fatalf("after insert at start: (%d, %d), want (4, 8)", s, e)
	}

	// Insertion exactly at the end does not grow the region.
	if err := b.Insert(8, "__"); err != nil {
		t.Fatal(err)
	}
	s, _ = start.Offset()
	e, _ = end.Offset()
	if s != 4 || e != 8 {
		t.Fatalf("after insert at end: (%d, %d), want (4, 8)", s, e)
	}
	if got, _ := b.Slice(s, e); got != "TODO" {
		t.Errorf("region = %q, want TODO", got)
	}
}

func TestMarkerClampsOnSpanningDelete(t *testing.T) {
	b := New("test", "0123456789")
	start := b.NewMarker(4, true)
	end := b.NewMarker(7, false)

	// Delete [2, 6) straddles the start marker.
	if err := b.Delete(2, 6); err != nil {
		t.Fatal(err)
	}
	s, _ := start.Offset()
	e, _ := end.Offset()
	if s != 2 || e != 3 {
		t.Errorf("markers = (%d, %d), want (2, 3)", s, e)
	}
	if s > e {
		t.Error("regionStart must never pass regionEnd")
	}
}

func TestMarkerDeleteWholeRegion(t *testing.T) {
	b := New("test", "abcdefgh")
	start := b.NewMarker(2, true)
	end := b.NewMarker(6, false)

	if err := b.Delete(1, 7); err != nil {
		t.Fatal(err)
	}
	s, _ := start.Offset()
	e, _ := end.Offset()
	if s != 1 || e != 1 {
		t.Errorf("markers = (%d, %d), want collapsed (1, 1)", s, e)
	}
}

func TestRegionCollapseThenInsertKeepsOrdering(t *testing.T) {
	b := New("test", "abcdefgh")
	start, end := b.NewRegion(2, 6)

	// Deleting the whole selection collapses both markers onto offset 2;
	// typing at the collapse point advances the start marker but not the
	// end marker, which would invert the region without the pair link.
	if err := b.Delete(2, 6); err != nil {
		t.Fatal(err)
	}
	if err := b.Insert(2, "XY"); err != nil {
		t.Fatal(err)
	}

	s, _ := start.Offset()
	e, _ := end.Offset()
	if s > e {
		t.Fatalf("markers = (%d, %d), regionStart must never pass regionEnd", s, e)
	}
	if s != 2 || e != 2 {
		t.Errorf("markers = (%d, %d), want collapsed (2, 2)", s, e)
	}
	if _, err := b.Slice(s, e); err != nil {
		t.Errorf("collapsed region must stay sliceable: %v", err)
	}
}

func TestRegionNonCollapsedInsertUnaffected(t *testing.T) {
	b := New("test", "abcdefgh")
	start, end := b.NewRegion(2, 4)

	// An insertion at the region start larger than the region itself must
	// shift the whole region, not pin the start to the stale end offset.
	if err := b.Insert(2, "01234"); err != nil {
		t.Fatal(err)
	}

	s, _ := start.Offset()
	e, _ := end.Offset()
	if s != 7 || e != 9 {
		t.Errorf("markers = (%d, %d), want (7, 9)", s, e)
	}
	if got, _ := b.Slice(s, e); got != "cd" {
		t.Errorf("region = %q, want cd", got)
	}
}

func TestRegionEndDropUnlinksPair(t *testing.T) {
	b := New("test", "abcdefgh")
	start, end := b.NewRegion(2, 2)
	end.Drop()

	// With the end marker gone its frozen offset must not pin the start.
	if err := b.Insert(2, "XY"); err != nil {
		t.Fatal(err)
	}
	if s, _ := start.Offset(); s != 4 {
		t.Errorf("start = %d, want 4", s)
	}
}

func TestMarkerInvalidAfterClose(t *testing.T) {
	r := NewRegistry()
	b := New("test", "text")
	r.Add(b)
	m := b.NewMarker(2, true)

	r.Close("test")

	if _, ok := m.Offset(); ok {
		t.Error("marker should be invalid after its buffer is closed")
	}
	if _, ok := r.Get("test"); ok {
		t.Error("closed buffer should not resolve")
	}
}

func TestMarkerDrop(t *testing.T) {
	b := New("test", "text")
	m := b.NewMarker(1, true)
	m.Drop()
	if _, ok := m.Offset(); ok {
		t.Error("dropped marker should be invalid")
	}
	// Edits after a drop must not touch the detached marker.
	if err := b.Insert(0, "x"); err != nil {
		t.Fatal(err)
	}
}

func TestChangeAndSaveListeners(t *testing.T) {
	b := New("test", "text")

	var changes []Change
	var saves int
	cid := b.OnChange(func(c Change) { changes = append(changes, c) })
	b.OnSave(func() { saves++ })

	if err := b.Insert(0, "ab"); err != nil {
		t.Fatal(err)
	}
	if err := b.Delete(0, 1); err != nil {
		t.Fatal(err)
	}
	if err := b.Save(); err != nil {
		t.Fatal(err)
	}

	if len(changes) != 2 {
		t.Fatalf("len(changes) = %d, want 2", len(changes))
	}
	if changes[0].Inserted != 2 || changes[1].Deleted != 1 {
		t.Errorf("changes = %+v", changes)
	}
	if saves != 1 {
		t.Errorf("saves = %d, want 1", saves)
	}

	b.Unsubscribe(cid)
	if err := b.Insert(0, "x"); err != nil {
		t.Fatal(err)
	}
	if len(changes) != 2 {
		t.Error("unsubscribed listener still fired")
	}
}

func TestOpenAndSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.go")
	if err := os.WriteFile(path, []byte("package note"), 0644); err != nil {
		t.Fatal(err)
	}

	b, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if b.Text() != "package note" {
		t.Errorf("Text = %q", b.Text())
	}

	if err := b.Insert(b.Len(), "\n"); err != nil {
		t.Fatal(err)
	}
	if err := b.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "package note\n" {
		t.Errorf("file = %q", string(data))
	}
}
