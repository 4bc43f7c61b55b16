package localfile

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"merchhold/internal/errors"
	"merchhold/ports"
)

// Handle is a file-system backed resource handle. Writes go through a
// temp file in the same directory plus a rename, so a reader never
// observes a half-written resource.
type Handle struct {
	name string
	path string
}

// NewHandle creates a handle over a spreadsheet file on disk.
func NewHandle(name, path string) *Handle {
	return &Handle{name: name, path: path}
}

// Name identifies the resource in error context and logs.
func (h *Handle) Name() string { return h.name }

// Path exposes the backing file path for diagnostics.
func (h *Handle) Path() string { return h.path }

// Verify confirms the file exists and is opened read-write. A missing
// file is ResourceUnavailable; an access refusal is PermissionDenied.
func (h *Handle) Verify(ctx context.Context) error {
	f, err := os.OpenFile(h.path, os.O_RDWR, 0)
	if err != nil {
		if os.IsPermission(err) {
			return errors.PermissionDenied(h.name)
		}
		return errors.ResourceUnavailable(h.name, err)
	}
	return f.Close()
}

// ReadAll loads the full file content.
func (h *Handle) ReadAll(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, errors.PermissionDenied(h.name)
		}
		return nil, errors.ResourceUnavailable(h.name, err)
	}
	return data, nil
}

// WriteAll replaces the full file content atomically.
func (h *Handle) WriteAll(ctx context.Context, data []byte) error {
	dir := filepath.Dir(h.path)
	tmp, err := os.CreateTemp(dir, ".merchhold-*")
	if err != nil {
		return errors.WriteError(h.name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WriteError(h.name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WriteError(h.name, err)
	}
	if err := os.Rename(tmpName, h.path); err != nil {
		os.Remove(tmpName)
		return errors.WriteError(h.name, err)
	}
	return nil
}

// Store keeps the durable handle per resource kind.
type Store struct {
	mu      sync.RWMutex
	handles map[ports.ResourceKind]ports.ResourceHandle
}

// NewStore creates an empty handle store.
func NewStore() *Store {
	return &Store{handles: make(map[ports.ResourceKind]ports.ResourceHandle)}
}

// Get returns the linked handle for kind, NoLinkedResource when absent.
func (s *Store) Get(ctx context.Context, kind ports.ResourceKind) (ports.ResourceHandle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.handles[kind]
	if !ok {
		return nil, errors.NoLinkedResource(string(kind))
	}
	return h, nil
}

// Set links a handle for kind, replacing any previous one.
func (s *Store) Set(ctx context.Context, kind ports.ResourceKind, h ports.ResourceHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handles[kind] = h
	return nil
}
