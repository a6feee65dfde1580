package usecase

import (
	"context"

	"hearth/internal/domain/entity"
)

// Pacer gates each completion call. The rate limiter implements it.
type Pacer interface {
	Wait(ctx context.Context) error
}

// GeneratorUsecase turns generation requests into validated listing payloads
// by calling the completion endpoint in slices of batchSize. Slice failures
// are isolated; the returned set holds whatever the surviving slices produced.
type GeneratorUsecase interface {
	GenerateBatch(ctx context.Context, requests []entity.GenerationRequest, batchSize int) ([]GeneratedListing, error)
}

// GeneratedListing is the declared schema of one model-produced listing
// record. Anything that fails these constraints never reaches the store.
type GeneratedListing struct {
	MLSNumber    string  `json:"mls_number" validate:"required"`
	Address      string  `json:"address" validate:"required"`
	ZipCode      string  `json:"zip_code" validate:"required"`
	Latitude     float64 `json:"latitude" validate:"required"`
	Longitude    float64 `json:"longitude" validate:"required"`
	Bedrooms     int     `json:"bedrooms" validate:"required,gt=0"`
	Bathrooms    float64 `json:"bathrooms" validate:"required,gt=0"`
	Sqft         int     `json:"sqft" validate:"required,gt=0"`
	LotSize      *int    `json:"lot_size,omitempty"`
	YearBuilt    int     `json:"year_built" validate:"required"`
	PropertyType string  `json:"property_type" validate:"required,oneof=single_family condo townhouse"`
	Stories      int     `json:"stories" validate:"gte=0"`
	GarageSpaces int     `json:"garage_spaces" validate:"gte=0"`
	Price        int     `json:"price" validate:"required,gt=0"`
	HOAFee       int     `json:"hoa_fee" validate:"gte=0"`
	PropertyTax  int     `json:"property_tax" validate:"gte=0"`
	Status       string  `json:"status"`
	ListingType  string  `json:"listing_type"`

	Detail   *GeneratedDetail   `json:"detail,omitempty"`
	Features *GeneratedFeatures `json:"features,omitempty"`
	Photos   []GeneratedPhoto   `json:"photos,omitempty" validate:"dive"`
}

// GeneratedDetail is the optional marketing block of a generated record.
type GeneratedDetail struct {
	ListDate             string                 `json:"list_date" validate:"required,datetime=2006-01-02"`
	DaysOnMarket         int                    `json:"days_on_market" validate:"gte=0"`
	Description          string                 `json:"description"`
	KeyFeatures          []string               `json:"key_features"`
	AgentName            string                 `json:"agent_name"`
	AgentPhone           string                 `json:"agent_phone"`
	AgentEmail           string                 `json:"agent_email"`
	Brokerage            string                 `json:"brokerage"`
	OpenHouseDates       []string               `json:"open_house_dates"`
	VirtualTourAvailable bool                   `json:"virtual_tour_available"`
	OriginalPrice        *int                   `json:"original_price,omitempty"`
	PriceHistory         []GeneratedPriceChange `json:"price_history"`
}

// GeneratedPriceChange is one price-history entry of a generated record.
type GeneratedPriceChange struct {
	Date  string `json:"date"`
	Price int    `json:"price"`
	Event string `json:"event"`
}

// GeneratedFeatures is the optional amenity block of a generated record.
type GeneratedFeatures struct {
	Flooring              []string `json:"flooring"`
	KitchenFeatures       []string `json:"kitchen_features"`
	BathroomFeatures      []string `json:"bathroom_features"`
	HasFireplace          bool     `json:"has_fireplace"`
	FireplaceCount        int      `json:"fireplace_count" validate:"gte=0"`
	Cooling               string   `json:"cooling"`
	Heating               string   `json:"heating"`
	YardFeatures          []string `json:"yard_features"`
	HasPool               bool     `json:"has_pool"`
	HasSpa                bool     `json:"has_spa"`
	GarageType            string   `json:"garage_type"`
	SecurityFeatures      []string `json:"security_features"`
	AccessibilityFeatures []string `json:"accessibility_features"`
	GreenFeatures         []string `json:"green_features"`
	SchoolDistrict        string   `json:"school_district"`
	WalkScore             int      `json:"walk_score" validate:"gte=0,lte=100"`
	TransitScore          int      `json:"transit_score" validate:"gte=0,lte=100"`
	BikeScore             int      `json:"bike_score" validate:"gte=0,lte=100"`
}

// GeneratedPhoto is one gallery entry of a generated record. The image URL is
// never model-produced; a separate enrichment path resolves it later. A nil
// sort order means the model omitted it and the photo takes its array position.
type GeneratedPhoto struct {
	Caption   string `json:"caption"`
	RoomType  string `json:"room_type"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder *int   `json:"sort_order,omitempty" validate:"omitempty,gte=0"`
}
