// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"hearth/internal/domain/entity"
)

// ErrListingNotFound is a domain-specific error returned when a listing is not found.
var ErrListingNotFound = errors.New("listing not found")

// ErrDuplicateListing is returned when a listing with the same MLS number already exists.
var ErrDuplicateListing = errors.New("listing already exists")

// PriceStats summarizes the stored price distribution for the report path.
type PriceStats struct {
	Min int64
	Max int64
	Avg float64
}

// ListingRepository defines the standard operations for listing persistence.
// The application layer depends on this interface, not the concrete implementation.
type ListingRepository interface {
	// Create persists a new listing aggregate (root plus optional detail,
	// feature set and photos) to the storage.
	Create(ctx context.Context, listing *entity.Listing) error

	// ExistsByMLSNumber reports whether a listing with the given external
	// identity is already stored.
	ExistsByMLSNumber(ctx context.Context, mlsNumber string) (bool, error)

	// FindByMLSNumber retrieves a single listing aggregate, including its
	// dependents, by its external identity.
	FindByMLSNumber(ctx context.Context, mlsNumber string) (*entity.Listing, error)

	// Count returns the total number of stored listings.
	Count(ctx context.Context) (int64, error)

	// CountByPropertyType returns stored listing counts keyed by property type.
	CountByPropertyType(ctx context.Context) (map[entity.PropertyType]int64, error)

	// PriceStats returns min/avg/max over stored listing prices.
	PriceStats(ctx context.Context) (*PriceStats, error)

	// CountPhotos returns the total number of stored photo rows.
	CountPhotos(ctx context.Context) (int64, error)
}
