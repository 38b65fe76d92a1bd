package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory keeps settings documents in process memory. It is safe for
// concurrent use and loses everything on exit.
type Memory struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]Record)}
}

// Load returns a copy of the user's document, or ErrNotFound.
func (m *Memory) Load(_ context.Context, userID string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[userID]
	if !ok {
		return Record{}, ErrNotFound
	}
	rec.Document = append([]byte(nil), rec.Document...)
	return rec, nil
}

// Save replaces the user's document and assigns a new revision.
func (m *Memory) Save(_ context.Context, userID string, document []byte) (Record, error) {
	rec := Record{
		UserID:    userID,
		Document:  append([]byte(nil), document...),
		Revision:  uuid.NewString(),
		UpdatedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.records[userID] = rec
	m.mu.Unlock()

	rec.Document = append([]byte(nil), rec.Document...)
	return rec, nil
}

// Delete removes the user's document. Deleting a missing document is not an
// error.
func (m *Memory) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	delete(m.records, userID)
	m.mu.Unlock()
	return nil
}

// Count returns the number of stored documents.
func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

// Close is a no-op; the documents are dropped with the store.
func (m *Memory) Close() error {
	return nil
}
