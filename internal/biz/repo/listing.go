package repo

import (
	"context"

	"github.com/upseller/upseller/internal/biz/domain"
)

// ListingRepo is the listing store interface
type ListingRepo interface {
	// Save stores a listing (create or seller edit)
	Save(ctx context.Context, listing *domain.Listing) error

	// Get returns a listing by ID, or nil if absent
	Get(ctx context.Context, id string) (*domain.Listing, error)

	// List returns all listings
	List(ctx context.Context) ([]*domain.Listing, error)
}
