// Package store provides diagram persistence.
//
// This package defines the Store interface with implementations for
// different backends:
//   - memory: In-memory storage for development/testing
//   - file: File-based storage for CLI applications
//   - mongo: MongoDB-backed storage for server deployments
//
// Stores hold whole diagrams. Geometry edits flow through pkg/dispatch
// and are saved back as complete documents; the store does not apply
// per-element deltas itself.
package store

import (
	"context"

	"github.com/diagramkit/diagramkit/pkg/model"
)

// Store is the interface for diagram storage backends.
type Store interface {
	// Get retrieves a diagram by id. A missing diagram yields an error
	// with code DIAGRAM_NOT_FOUND.
	Get(ctx context.Context, id string) (*model.Diagram, error)

	// Put stores a diagram, replacing any existing one with the same id.
	Put(ctx context.Context, d *model.Diagram) error

	// Delete removes a diagram. Deleting a missing diagram is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the ids of all stored diagrams.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
