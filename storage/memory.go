package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var errNotInitialized = errors.New("store is not initialized")

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]Run
	generations map[string][]Generation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]Run)
	s.generations = make(map[string][]Generation)
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return Run{}, false, errNotInitialized
	}
	run, ok := s.runs[id]
	return run, ok, nil
}

// SaveGeneration replaces any generation with the same iteration.
func (s *MemoryStore) SaveGeneration(_ context.Context, runID string, gen Generation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	gens := s.generations[runID]
	for i := range gens {
		if gens[i].Iteration == gen.Iteration {
			gens[i] = gen
			return nil
		}
	}
	gens = append(gens, gen)
	sort.Slice(gens, func(i, j int) bool { return gens[i].Iteration < gens[j].Iteration })
	s.generations[runID] = gens
	return nil
}

func (s *MemoryStore) Generations(_ context.Context, runID string) ([]Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errNotInitialized
	}
	gens := s.generations[runID]
	out := make([]Generation, len(gens))
	copy(out, gens)
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
