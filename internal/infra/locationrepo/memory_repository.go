package locationrepo

import (
	"context"
	"sync"

	"github.com/yanqian/weather-outfit/internal/domain/location"
)

// MemoryRepository keeps the location list in process memory for tests/dev.
type MemoryRepository struct {
	mu        sync.RWMutex
	locations []location.Location
	found     bool
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Load implements location.Repository.
func (r *MemoryRepository) Load(_ context.Context) ([]location.Location, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneLocations(r.locations), r.found, nil
}

// Save implements location.Repository.
func (r *MemoryRepository) Save(_ context.Context, locations []location.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locations = cloneLocations(locations)
	r.found = true
	return nil
}

func cloneLocations(in []location.Location) []location.Location {
	out := make([]location.Location, len(in))
	copy(out, in)
	return out
}

// capped trims to the registry bound before anything is written out.
func capped(in []location.Location) []location.Location {
	if len(in) > location.MaxLocations {
		return in[:location.MaxLocations]
	}
	return in
}

var _ location.Repository = (*MemoryRepository)(nil)
