package persist

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/matzehuels/storyboard/pkg/errors"
)

// MemoryStore keeps documents in memory. Values are deep-copied through JSON
// so callers never share state with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Document, error) {
	s.mu.RLock()
	data, ok := s.docs[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode document %s", key)
	}
	return &doc, nil
}

func (s *MemoryStore) Put(_ context.Context, doc *Document) error {
	if err := stamp(doc); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode document %s", doc.Key)
	}
	s.mu.Lock()
	s.docs[doc.Key] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.docs, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
