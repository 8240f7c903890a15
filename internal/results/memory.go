package results

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultMemoryCapacity bounds the summaries a MemoryStore keeps by id
const DefaultMemoryCapacity = 64

// MemoryStore is the process-local Store used when Redis is not configured
type MemoryStore struct {
	latest   atomic.Pointer[Summary]
	mu       sync.Mutex
	byID     map[string]*Summary
	order    []string
	capacity int
}

// NewMemoryStore creates a store keeping at most capacity summaries
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity < 1 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{
		byID:     make(map[string]*Summary, capacity),
		capacity: capacity,
	}
}

// Save stores s under a new id, evicting the oldest summary when full
func (m *MemoryStore) Save(ctx context.Context, s *Summary) (string, error) {
	s.ID = uuid.New().String()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	if len(m.order) >= m.capacity {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.byID, oldest)
	}
	m.byID[s.ID] = s
	m.order = append(m.order, s.ID)
	m.mu.Unlock()

	m.latest.Store(s)
	return s.ID, nil
}

// Get returns the summary saved under id
func (m *MemoryStore) Get(ctx context.Context, id string) (*Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Latest returns the most recently saved summary
func (m *MemoryStore) Latest(ctx context.Context) (*Summary, error) {
	s := m.latest.Load()
	if s == nil {
		return nil, ErrNotFound
	}
	return s, nil
}
