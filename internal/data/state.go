package data

import (
	"context"
	"sync"

	"github.com/upseller/upseller/internal/biz/domain"
	"github.com/upseller/upseller/internal/biz/repo"
)

// AppState holds the master service's mutable state: listings and the
// dispatch mode. Constructed once at startup and passed explicitly; there
// are no package-level globals.
type AppState struct {
	mu       sync.RWMutex
	listings map[string]*domain.Listing
	order    []string // insertion order for List
	mode     domain.Mode
}

// NewAppState creates the application state with the given initial mode
func NewAppState(mode domain.Mode) *AppState {
	if mode == "" {
		mode = domain.ModeMock
	}
	return &AppState{
		listings: make(map[string]*domain.Listing),
		mode:     mode,
	}
}

// Mode returns the current dispatch mode
func (s *AppState) Mode() domain.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetMode changes the dispatch mode
func (s *AppState) SetMode(mode domain.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

// Listings returns the state as a ListingRepo
func (s *AppState) Listings() repo.ListingRepo {
	return (*stateListingRepo)(s)
}

// stateListingRepo adapts AppState to the ListingRepo interface
type stateListingRepo AppState

func (r *stateListingRepo) Save(ctx context.Context, listing *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.listings[listing.ID]; !exists {
		r.order = append(r.order, listing.ID)
	}
	clone := *listing
	r.listings[listing.ID] = &clone
	return nil
}

func (r *stateListingRepo) Get(ctx context.Context, id string) (*domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[id]
	if !ok {
		return nil, nil
	}
	clone := *listing
	return &clone, nil
}

func (r *stateListingRepo) List(ctx context.Context) ([]*domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Listing, 0, len(r.order))
	for _, id := range r.order {
		clone := *r.listings[id]
		result = append(result, &clone)
	}
	return result, nil
}
