// Package buffer provides an in-memory text buffer with live position
// markers and edit/save notifications. All operations are driven from a
// single event loop; buffers are not safe for concurrent mutation.
package buffer

import (
	"fmt"
	"os"

	"github.com/snitch-dev/snitch/internal/errors"
)

// Change describes one splice applied to a buffer.
type Change struct {
	Off      int // byte offset of the splice
	Deleted  int // bytes removed at Off
	Inserted int // bytes inserted at Off
}

// Buffer is a byte-offset text buffer. A buffer may be backed by a file, in
// which case Save writes the current text back to it.
type Buffer struct {
	name    string
	path    string
	text    string
	closed  bool
	markers []*Marker

	nextSub    int
	changeSubs map[int]func(Change)
	saveSubs   map[int]func()
}

// New creates a buffer holding text. The name is the registry lookup key.
func New(name, text string) *Buffer {
	return &Buffer{
		name:       name,
		text:       text,
		changeSubs: make(map[int]func(Change)),
		saveSubs:   make(map[int]func()),
	}
}

// Open reads path into a new file-backed buffer named after the path.
func Open(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open buffer: %w", err)
	}
	b := New(path, string(data))
	b.path = path
	return b, nil
}

// Name returns the buffer's registry key.
func (b *Buffer) Name() string { return b.name }

// Len returns the buffer length in bytes.
func (b *Buffer) Len() int { return len(b.text) }

// Text returns the full buffer contents.
func (b *Buffer) Text() string { return b.text }

// Slice returns the text in [start, end).
func (b *Buffer) Slice(start, end int) (string, error) {
	if err := b.checkRange(start, end); err != nil {
		return "", err
	}
	return b.text[start:end], nil
}

// Insert splices s into the buffer at off, adjusting markers and notifying
// change listeners.
func (b *Buffer) Insert(off int, s string) error {
	if err := b.checkRange(off, off); err != nil {
		return err
	}
	b.text = b.text[:off] + s + b.text[off:]
	for _, m := range b.markers {
		m.adjustInsert(off, len(s))
	}
	for _, m := range b.markers {
		m.pinToPair()
	}
	b.notifyChange(Change{Off: off, Inserted: len(s)})
	return nil
}

// Delete removes the text in [start, end), adjusting markers and notifying
// change listeners.
func (b *Buffer) Delete(start, end int) error {
	if err := b.checkRange(start, end); err != nil {
		return err
	}
	b.text = b.text[:start] + b.text[end:]
	for _, m := range b.markers {
		m.adjustDelete(start, end)
	}
	b.notifyChange(Change{Off: start, Deleted: end - start})
	return nil
}

// Replace substitutes the text in [start, end) with s. Markers see it as a
// delete followed by an insert.
func (b *Buffer) Replace(start, end int, s string) error {
	if err := b.Delete(start, end); err != nil {
		return err
	}
	return b.Insert(start, s)
}

// Save writes a file-backed buffer to disk and notifies save listeners.
// Buffers without a backing file only notify.
func (b *Buffer) Save() error {
	if b.path != "" {
		if err := os.WriteFile(b.path, []byte(b.text), 0644); err != nil {
			return fmt.Errorf("save buffer: %w", err)
		}
	}
	for _, fn := range b.saveSubs {
		fn()
	}
	return nil
}

// OnChange registers fn for edit notifications and returns a subscription id.
func (b *Buffer) OnChange(fn func(Change)) int {
	b.nextSub++
	b.changeSubs[b.nextSub] = fn
	return b.nextSub
}

// OnSave registers fn for save notifications and returns a subscription id.
func (b *Buffer) OnSave(fn func()) int {
	b.nextSub++
	b.saveSubs[b.nextSub] = fn
	return b.nextSub
}

// Unsubscribe removes a change or save listener by id. Removing an unknown
// id is a no-op, so features can tear down without caring which kind it was.
func (b *Buffer) Unsubscribe(id int) {
	delete(b.changeSubs, id)
	delete(b.saveSubs, id)
}

func (b *Buffer) notifyChange(c Change) {
	for _, fn := range b.changeSubs {
		fn(c)
	}
}

func (b *Buffer) checkRange(start, end int) error {
	if b.closed {
		return errors.NewStaleMarker(b.name)
	}
	if start < 0 || end < start || end > len(b.text) {
		return errors.NewInvalidRequest(fmt.Sprintf("range [%d, %d) out of bounds for buffer of %d bytes", start, end, len(b.text)))
	}
	return nil
}
