package staging

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Handle identifies a local preview of a queued file. Handles are
// process-local and never sent to the store.
type Handle string

// Previews hands out preview handles for queued files. Every acquired handle
// keeps the file's buffer alive until it is released.
type Previews interface {
	Acquire(file File) (Handle, error)
	Release(handle Handle)
}

// MemoryPreviews keeps preview buffers in process memory
type MemoryPreviews struct {
	mu      sync.RWMutex
	objs    map[Handle]File
	observe func(delta int64)
}

// NewMemoryPreviews returns an empty preview registry
func NewMemoryPreviews() *MemoryPreviews {
	return &MemoryPreviews{objs: make(map[Handle]File)}
}

// Observe registers fn to be told about every acquire (+1) and release (-1)
func (p *MemoryPreviews) Observe(fn func(delta int64)) {
	p.mu.Lock()
	p.observe = fn
	p.mu.Unlock()
}

// Acquire stores a copy of the file and returns its handle
func (p *MemoryPreviews) Acquire(file File) (Handle, error) {
	if len(file.Data) == 0 {
		return "", fmt.Errorf("preview %q: empty file", file.Name)
	}
	h := Handle("preview://" + uuid.NewString())
	stored := file
	stored.Data = append([]byte(nil), file.Data...)

	p.mu.Lock()
	p.objs[h] = stored
	observe := p.observe
	p.mu.Unlock()

	if observe != nil {
		observe(1)
	}
	return h, nil
}

// Release drops the buffer behind handle. Unknown handles are ignored.
func (p *MemoryPreviews) Release(handle Handle) {
	p.mu.Lock()
	_, ok := p.objs[handle]
	delete(p.objs, handle)
	observe := p.observe
	p.mu.Unlock()

	if ok && observe != nil {
		observe(-1)
	}
}

// Open returns the file behind a live handle for rendering
func (p *MemoryPreviews) Open(handle Handle) (File, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	f, ok := p.objs[handle]
	if !ok {
		return File{}, false
	}
	f.Data = append([]byte(nil), f.Data...)
	return f, true
}

// Outstanding returns the number of handles not yet released
func (p *MemoryPreviews) Outstanding() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.objs)
}
