package results

import (
	"context"
	"sort"
	"sync"

	"github.com/park285/chess-rules/pkg/chessdto"
)

// MemoryStore keeps results in process. Used when neither Redis nor
// Postgres is configured, and in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]*chessdto.GameResult
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]*chessdto.GameResult)}
}

func (m *MemoryStore) Save(ctx context.Context, r *chessdto.GameResult) error {
	if r == nil {
		return nil
	}
	cp := cloneResult(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byID[r.GameID]; !exists {
		m.order = append(m.order, r.GameID)
	}
	m.byID[r.GameID] = cp
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, gameID string) (*chessdto.GameResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.byID[gameID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneResult(r), nil
}

// Recent returns newest first by EndedAt, falling back to insertion order.
func (m *MemoryStore) Recent(ctx context.Context, limit int) ([]*chessdto.GameResult, error) {
	m.mu.RLock()
	items := make([]*chessdto.GameResult, 0, len(m.order))
	seq := make(map[string]int, len(m.order))
	for i, id := range m.order {
		items = append(items, cloneResult(m.byID[id]))
		seq[id] = i
	}
	m.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if !items[i].EndedAt.Equal(items[j].EndedAt) {
			return items[i].EndedAt.After(items[j].EndedAt)
		}
		return seq[items[i].GameID] > seq[items[j].GameID]
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

func cloneResult(r *chessdto.GameResult) *chessdto.GameResult {
	cp := *r
	cp.MovesSAN = append([]string(nil), r.MovesSAN...)
	cp.MovesUCI = append([]string(nil), r.MovesUCI...)
	return &cp
}
