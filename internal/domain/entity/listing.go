// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// PropertyType enumerates the structure categories the dataset covers.
type PropertyType string

const (
	PropertyTypeSingleFamily PropertyType = "single_family"
	PropertyTypeCondo        PropertyType = "condo"
	PropertyTypeTownhouse    PropertyType = "townhouse"
)

// Default listing status values applied when the generated payload omits them.
const (
	DefaultStatus      = "active"
	DefaultListingType = "for_sale"
)

// Listing is the aggregate root for one synthetic property record. The MLS
// number is the external identity and is immutable once the record is stored;
// Detail, Features and Photos are optional dependents written atomically with
// the root.
type Listing struct {
	ID           uuid.UUID // Surrogate primary key, generated application-side.
	MLSNumber    string    // External identity, unique across the store.
	Address      string
	ZipCode      string
	Latitude     float64
	Longitude    float64
	Bedrooms     int
	Bathrooms    float64 // Typically a multiple of 0.5.
	Sqft         int
	LotSize      *int // Nil for units without their own lot.
	YearBuilt    int
	PropertyType PropertyType
	Stories      int
	GarageSpaces int
	Price        int
	PricePerSqft *float64 // Derived from price and square footage at insert time.
	HOAFee       int
	PropertyTax  int
	Status       string
	ListingType  string
	Detail       *ListingDetail
	Features     *FeatureSet
	Photos       []*Photo
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListingDetail carries the marketing and agent-facing attributes of a listing.
type ListingDetail struct {
	ListingID            uuid.UUID
	ListDate             time.Time
	DaysOnMarket         int
	Description          string
	KeyFeatures          []string // Ordered list of selling points.
	AgentName            string
	AgentPhone           string
	AgentEmail           string
	Brokerage            string
	OpenHouseDates       []string
	VirtualTourAvailable bool
	OriginalPrice        *int
	PriceHistory         []PriceChange // Ordered oldest first.
	UpdatedAt            time.Time
}

// PriceChange is one entry in a listing's price history.
type PriceChange struct {
	Date  string `json:"date"`
	Price int    `json:"price"`
	Event string `json:"event"`
}

// FeatureSet holds the amenity and livability attributes of a listing.
type FeatureSet struct {
	ListingID             uuid.UUID
	Flooring              []string
	KitchenFeatures       []string
	BathroomFeatures      []string
	HasFireplace          bool
	FireplaceCount        int
	Cooling               string
	Heating               string
	YardFeatures          []string
	HasPool               bool
	HasSpa                bool
	GarageType            string
	SecurityFeatures      []string
	AccessibilityFeatures []string
	GreenFeatures         []string
	SchoolDistrict        string
	WalkScore             int // 0-100
	TransitScore          int // 0-100
	BikeScore             int // 0-100
	UpdatedAt             time.Time
}

// Photo is one gallery entry of a listing. ImageURL stays nil until a separate
// enrichment pass resolves it against an image provider.
type Photo struct {
	ID        uuid.UUID
	ListingID uuid.UUID
	Caption   string
	RoomType  string
	IsPrimary bool
	SortOrder int // Display ordering; ties broken by insertion index.
	ImageURL  *string
	CreatedAt time.Time
}
