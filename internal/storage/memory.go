package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"scriptvoice/internal/scripts"
)

// MemoryRepository keeps everything in process memory. It backs the server
// when no database is configured.
type MemoryRepository struct {
	mu           sync.RWMutex
	enhancements []scripts.Enhancement
	generations  map[uuid.UUID]scripts.Generation
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{generations: make(map[uuid.UUID]scripts.Generation)}
}

func (r *MemoryRepository) SaveEnhancement(_ context.Context, enh scripts.Enhancement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enhancements = append(r.enhancements, enh)
	return nil
}

func (r *MemoryRepository) RecentEnhancements(_ context.Context, limit int) ([]scripts.Enhancement, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scripts.Enhancement, 0, min(limit, len(r.enhancements)))
	for i := len(r.enhancements) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.enhancements[i])
	}
	return out, nil
}

func (r *MemoryRepository) CreateGeneration(_ context.Context, gen scripts.Generation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	gen.Audio = append([]byte(nil), gen.Audio...)
	r.generations[gen.ID] = gen
	return nil
}

func (r *MemoryRepository) GetGeneration(_ context.Context, id uuid.UUID) (scripts.Generation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.generations[id]
	if !ok {
		return scripts.Generation{}, scripts.ErrNotFound
	}
	gen.Audio = append([]byte(nil), gen.Audio...)
	return gen, nil
}

// ListGenerations mirrors the SQL listing: newest first, audio omitted.
func (r *MemoryRepository) ListGenerations(_ context.Context, filter scripts.GenerationFilter) ([]scripts.Generation, error) {
	r.mu.RLock()
	all := make([]scripts.Generation, 0, len(r.generations))
	for _, gen := range r.generations {
		if filter.Voice != nil && *filter.Voice != "" && gen.Speaker1 != *filter.Voice && gen.Speaker2 != *filter.Voice {
			continue
		}
		gen.Audio = nil
		all = append(all, gen)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if filter.Offset >= len(all) {
		return nil, nil
	}
	all = all[max(filter.Offset, 0):]

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
