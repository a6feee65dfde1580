package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ListingModel mirrors the 'listings' table. The MLS number carries a unique
// index; dependents cascade-delete from the root.
// It is an exported type so it can be used by the GORM Gen tool from other packages.
type ListingModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	MLSNumber    string    `gorm:"type:varchar(32);uniqueIndex;not null"`
	Address      string    `gorm:"type:text;not null"`
	ZipCode      string    `gorm:"type:varchar(10);not null"`
	Latitude     float64   `gorm:"type:decimal(10,8);not null"`
	Longitude    float64   `gorm:"type:decimal(11,8);not null"`
	Bedrooms     int       `gorm:"not null"`
	Bathrooms    float64   `gorm:"type:decimal(3,1);not null"`
	Sqft         int       `gorm:"not null"`
	LotSize      *int
	YearBuilt    int     `gorm:"not null"`
	PropertyType string  `gorm:"type:varchar(32);not null;index"`
	Stories      int     `gorm:"not null;default:1"`
	GarageSpaces int     `gorm:"not null;default:0"`
	Price        int     `gorm:"not null"`
	PricePerSqft *float64 `gorm:"type:decimal(10,2)"`
	HOAFee       int     `gorm:"not null;default:0"`
	PropertyTax  int     `gorm:"not null;default:0"`
	Status       string  `gorm:"type:varchar(32);not null;default:'active'"`
	ListingType  string  `gorm:"type:varchar(32);not null;default:'for_sale'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Detail   *ListingDetailModel  `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	Features *ListingFeatureModel `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	Photos   []*ListingPhotoModel `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (ListingModel) TableName() string {
	return "listings"
}

// PriceChangeJSON is one price-history entry as stored inside the JSON column.
type PriceChangeJSON struct {
	Date  string `json:"date"`
	Price int    `json:"price"`
	Event string `json:"event"`
}

// ListingDetailModel mirrors the 'listing_details' table. ListingID references listings.id.
// List-valued fields are serialized to JSON columns; readers deserialize on read.
type ListingDetailModel struct {
	ListingID            uuid.UUID                              `gorm:"type:uuid;primaryKey"`
	ListDate             time.Time                              `gorm:"not null"`
	DaysOnMarket         int                                    `gorm:"not null;default:0"`
	Description          string                                 `gorm:"type:text"`
	KeyFeatures          datatypes.JSONSlice[string]            `gorm:"type:jsonb"`
	AgentName            string                                 `gorm:"type:varchar(100)"`
	AgentPhone           string                                 `gorm:"type:varchar(32)"`
	AgentEmail           string                                 `gorm:"type:varchar(255)"`
	Brokerage            string                                 `gorm:"type:varchar(100)"`
	OpenHouseDates       datatypes.JSONSlice[string]            `gorm:"type:jsonb"`
	VirtualTourAvailable bool                                   `gorm:"not null;default:false"`
	OriginalPrice        *int
	PriceHistory         datatypes.JSONSlice[PriceChangeJSON] `gorm:"type:jsonb"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName explicitly sets the table name for GORM.
func (ListingDetailModel) TableName() string {
	return "listing_details"
}

// ListingFeatureModel mirrors the 'listing_features' table. ListingID references listings.id.
type ListingFeatureModel struct {
	ListingID             uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Flooring              datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	KitchenFeatures       datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	BathroomFeatures      datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	HasFireplace          bool                        `gorm:"not null;default:false"`
	FireplaceCount        int                         `gorm:"not null;default:0"`
	Cooling               string                      `gorm:"type:varchar(64)"`
	Heating               string                      `gorm:"type:varchar(64)"`
	YardFeatures          datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	HasPool               bool                        `gorm:"not null;default:false"`
	HasSpa                bool                        `gorm:"not null;default:false"`
	GarageType            string                      `gorm:"type:varchar(32)"`
	SecurityFeatures      datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	AccessibilityFeatures datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	GreenFeatures         datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	SchoolDistrict        string                      `gorm:"type:varchar(100)"`
	WalkScore             int                         `gorm:"not null;default:0"`
	TransitScore          int                         `gorm:"not null;default:0"`
	BikeScore             int                         `gorm:"not null;default:0"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName explicitly sets the table name for GORM.
func (ListingFeatureModel) TableName() string {
	return "listing_features"
}

// ListingPhotoModel mirrors the 'listing_photos' table. ImageURL stays NULL
// until the enrichment path resolves it.
type ListingPhotoModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;index"`
	Caption   string    `gorm:"type:text"`
	RoomType  string    `gorm:"type:varchar(32)"`
	IsPrimary bool      `gorm:"not null;default:false"`
	SortOrder int       `gorm:"not null;default:0"`
	ImageURL  *string   `gorm:"type:text"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ListingPhotoModel) TableName() string {
	return "listing_photos"
}
