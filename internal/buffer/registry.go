package buffer

import "sync"

// Registry tracks open buffers by name. Holders of a name have a weak
// reference: the buffer may be closed underneath them, after which lookups
// fail and its markers report invalid.
type Registry struct {
	mu   sync.Mutex
	bufs map[string]*Buffer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{bufs: make(map[string]*Buffer)}
}

// Add registers a buffer under its name, replacing any previous buffer with
// that name.
func (r *Registry) Add(b *Buffer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bufs[b.Name()] = b
}

// Get looks up an open buffer by name.
func (r *Registry) Get(name string) (*Buffer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bufs[name]
	return b, ok
}

// Close removes a buffer from the registry and invalidates its markers.
func (r *Registry) Close(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bufs[name]; ok {
		b.closed = true
		delete(r.bufs, name)
	}
}
