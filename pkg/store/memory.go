package store

import (
	"context"
	"sort"
	"sync"

	"github.com/diagramkit/diagramkit/pkg/errors"
	"github.com/diagramkit/diagramkit/pkg/model"
)

// MemoryStore is an in-memory diagram store for development and testing.
type MemoryStore struct {
	mu       sync.RWMutex
	diagrams map[string]*model.Diagram
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{diagrams: make(map[string]*model.Diagram)}
}

// Get retrieves a diagram by id. The returned diagram is a deep copy;
// mutating it does not affect the stored document.
func (s *MemoryStore) Get(ctx context.Context, id string) (*model.Diagram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.diagrams[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeDiagramNotFound, "diagram %q not found", id)
	}
	return d.Clone()
}

// Put stores a deep copy of the diagram, detaching the stored document
// from the caller's pointer.
func (s *MemoryStore) Put(ctx context.Context, d *model.Diagram) error {
	if err := d.Validate(); err != nil {
		return err
	}
	stored, err := d.Clone()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagrams[stored.ID] = stored
	return nil
}

// Delete removes a diagram.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.diagrams, id)
	return nil
}

// List returns all stored diagram ids, sorted.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.diagrams))
	for id := range s.diagrams {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
