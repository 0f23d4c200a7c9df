package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/battlecards/service/internal/models"
)

// MemoryStore keeps games in a map keyed by id, each record guarded by its
// own mutex. It backs tests and dev mode; production uses the postgres store.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*memoryEntry
}

type memoryEntry struct {
	mu sync.Mutex
	g  *models.Game
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[uuid.UUID]*memoryEntry)}
}

func (s *MemoryStore) Create(ctx context.Context, g *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ID] = &memoryEntry{g: g.Clone()}
	return nil
}

func (s *MemoryStore) entry(id uuid.UUID) (*memoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.g.Clone(), nil
}

// Update applies fn to a clone of the record under the entry mutex and swaps
// the clone in only on success, so a rejected action leaves the stored game
// byte-for-byte unchanged.
func (s *MemoryStore) Update(ctx context.Context, id uuid.UUID, fn UpdateFunc) (*models.Game, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.g.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()
	e.g = next
	return next.Clone(), nil
}

func (s *MemoryStore) ListByPlayer(ctx context.Context, name string) ([]*models.Game, error) {
	s.mu.RLock()
	entries := make([]*memoryEntry, 0, len(s.games))
	for _, e := range s.games {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	var out []*models.Game
	for _, e := range entries {
		e.mu.Lock()
		if _, ok := e.g.SideOf(name); ok {
			out = append(out, e.g.Clone())
		}
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
