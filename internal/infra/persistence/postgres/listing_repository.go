// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"hearth/internal/domain/entity"
	"hearth/internal/domain/repository"
	"hearth/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// listingRepository implements the repository.ListingRepository interface.
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository is the constructor for listingRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewListingRepository(db *gorm.DB) repository.ListingRepository {
	return &listingRepository{
		db: db,
	}
}

// Create persists a new listing aggregate. GORM's association create writes
// the root row plus the detail, feature-set and photo rows in one pass; callers
// run this inside TransactionManager.Execute so the aggregate is all-or-nothing.
func (repo *listingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	listingM := fromListingDomain(listing)

	if err := repo.db.WithContext(ctx).Create(listingM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateListing
		}
		if isNotNullConstraintViolation(err) {
			return errors.Wrap(err, "missing required listing information")
		}

		return errors.Wrap(err, "failed to create listing")
	}

	listing.CreatedAt = listingM.CreatedAt
	listing.UpdatedAt = listingM.UpdatedAt

	return nil
}

// ExistsByMLSNumber reports whether the external identity is already stored.
func (repo *listingRepository) ExistsByMLSNumber(ctx context.Context, mlsNumber string) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.ListingModel{}).
		Where("mls_number = ?", mlsNumber).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check listing existence")
	}

	return count > 0, nil
}

// FindByMLSNumber retrieves a listing aggregate with its dependents preloaded.
// Photos come back in stable display order.
func (repo *listingRepository) FindByMLSNumber(ctx context.Context, mlsNumber string) (*entity.Listing, error) {
	var listingM model.ListingModel

	if err := repo.db.WithContext(ctx).
		Preload("Detail").
		Preload("Features").
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Where("mls_number = ?", mlsNumber).
		First(&listingM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrListingNotFound
		}

		return nil, errors.Wrap(err, "failed to find listing by MLS number")
	}

	return toListingDomain(&listingM), nil
}

// Count returns the total number of stored listings.
func (repo *listingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.ListingModel{}).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count listings")
	}

	return count, nil
}

// CountByPropertyType returns stored listing counts keyed by property type.
func (repo *listingRepository) CountByPropertyType(ctx context.Context) (map[entity.PropertyType]int64, error) {
	var rows []struct {
		PropertyType string
		Total        int64
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.ListingModel{}).
		Select("property_type, count(*) as total").
		Group("property_type").
		Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to count listings by property type")
	}

	counts := make(map[entity.PropertyType]int64, len(rows))
	for _, row := range rows {
		counts[entity.PropertyType(row.PropertyType)] = row.Total
	}

	return counts, nil
}

// PriceStats returns min/avg/max over stored listing prices.
func (repo *listingRepository) PriceStats(ctx context.Context) (*repository.PriceStats, error) {
	var row struct {
		Min int64
		Max int64
		Avg float64
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.ListingModel{}).
		Select("coalesce(min(price), 0) as min, coalesce(max(price), 0) as max, coalesce(avg(price), 0) as avg").
		Scan(&row).Error; err != nil {
		return nil, errors.Wrap(err, "failed to compute price stats")
	}

	return &repository.PriceStats{Min: row.Min, Max: row.Max, Avg: row.Avg}, nil
}

// CountPhotos returns the total number of stored photo rows.
func (repo *listingRepository) CountPhotos(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.ListingPhotoModel{}).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count photos")
	}

	return count, nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// fromListingDomain converts a domain Listing entity to a GORM ListingModel for persistence.
func fromListingDomain(data *entity.Listing) *model.ListingModel {
	if data == nil {
		return nil
	}

	return &model.ListingModel{
		ID:           data.ID,
		MLSNumber:    data.MLSNumber,
		Address:      data.Address,
		ZipCode:      data.ZipCode,
		Latitude:     data.Latitude,
		Longitude:    data.Longitude,
		Bedrooms:     data.Bedrooms,
		Bathrooms:    data.Bathrooms,
		Sqft:         data.Sqft,
		LotSize:      data.LotSize,
		YearBuilt:    data.YearBuilt,
		PropertyType: string(data.PropertyType),
		Stories:      data.Stories,
		GarageSpaces: data.GarageSpaces,
		Price:        data.Price,
		PricePerSqft: data.PricePerSqft,
		HOAFee:       data.HOAFee,
		PropertyTax:  data.PropertyTax,
		Status:       data.Status,
		ListingType:  data.ListingType,
		Detail:       fromDetailDomain(data.ID, data.Detail),
		Features:     fromFeatureDomain(data.ID, data.Features),
		Photos:       fromPhotoDomain(data.ID, data.Photos),
	}
}

// toListingDomain converts a GORM ListingModel to a domain Listing entity.
func toListingDomain(data *model.ListingModel) *entity.Listing {
	if data == nil {
		return nil
	}

	return &entity.Listing{
		ID:           data.ID,
		MLSNumber:    data.MLSNumber,
		Address:      data.Address,
		ZipCode:      data.ZipCode,
		Latitude:     data.Latitude,
		Longitude:    data.Longitude,
		Bedrooms:     data.Bedrooms,
		Bathrooms:    data.Bathrooms,
		Sqft:         data.Sqft,
		LotSize:      data.LotSize,
		YearBuilt:    data.YearBuilt,
		PropertyType: entity.PropertyType(data.PropertyType),
		Stories:      data.Stories,
		GarageSpaces: data.GarageSpaces,
		Price:        data.Price,
		PricePerSqft: data.PricePerSqft,
		HOAFee:       data.HOAFee,
		PropertyTax:  data.PropertyTax,
		Status:       data.Status,
		ListingType:  data.ListingType,
		Detail:       toDetailDomain(data.Detail),
		Features:     toFeatureDomain(data.Features),
		Photos:       toPhotoDomain(data.Photos),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromDetailDomain(listingID uuid.UUID, data *entity.ListingDetail) *model.ListingDetailModel {
	if data == nil {
		return nil
	}

	history := make([]model.PriceChangeJSON, 0, len(data.PriceHistory))
	for _, change := range data.PriceHistory {
		history = append(history, model.PriceChangeJSON(change))
	}

	return &model.ListingDetailModel{
		ListingID:            listingID,
		ListDate:             data.ListDate,
		DaysOnMarket:         data.DaysOnMarket,
		Description:          data.Description,
		KeyFeatures:          datatypes.NewJSONSlice(data.KeyFeatures),
		AgentName:            data.AgentName,
		AgentPhone:           data.AgentPhone,
		AgentEmail:           data.AgentEmail,
		Brokerage:            data.Brokerage,
		OpenHouseDates:       datatypes.NewJSONSlice(data.OpenHouseDates),
		VirtualTourAvailable: data.VirtualTourAvailable,
		OriginalPrice:        data.OriginalPrice,
		PriceHistory:         datatypes.NewJSONSlice(history),
	}
}

func toDetailDomain(data *model.ListingDetailModel) *entity.ListingDetail {
	if data == nil {
		return nil
	}

	history := make([]entity.PriceChange, 0, len(data.PriceHistory))
	for _, change := range data.PriceHistory {
		history = append(history, entity.PriceChange(change))
	}

	return &entity.ListingDetail{
		ListingID:            data.ListingID,
		ListDate:             data.ListDate,
		DaysOnMarket:         data.DaysOnMarket,
		Description:          data.Description,
		KeyFeatures:          data.KeyFeatures,
		AgentName:            data.AgentName,
		AgentPhone:           data.AgentPhone,
		AgentEmail:           data.AgentEmail,
		Brokerage:            data.Brokerage,
		OpenHouseDates:       data.OpenHouseDates,
		VirtualTourAvailable: data.VirtualTourAvailable,
		OriginalPrice:        data.OriginalPrice,
		PriceHistory:         history,
		UpdatedAt:            data.UpdatedAt,
	}
}

func fromFeatureDomain(listingID uuid.UUID, data *entity.FeatureSet) *model.ListingFeatureModel {
	if data == nil {
		return nil
	}

	return &model.ListingFeatureModel{
		ListingID:             listingID,
		Flooring:              datatypes.NewJSONSlice(data.Flooring),
		KitchenFeatures:       datatypes.NewJSONSlice(data.KitchenFeatures),
		BathroomFeatures:      datatypes.NewJSONSlice(data.BathroomFeatures),
		HasFireplace:          data.HasFireplace,
		FireplaceCount:        data.FireplaceCount,
		Cooling:               data.Cooling,
		Heating:               data.Heating,
		YardFeatures:          datatypes.NewJSONSlice(data.YardFeatures),
		HasPool:               data.HasPool,
		HasSpa:                data.HasSpa,
		GarageType:            data.GarageType,
		SecurityFeatures:      datatypes.NewJSONSlice(data.SecurityFeatures),
		AccessibilityFeatures: datatypes.NewJSONSlice(data.AccessibilityFeatures),
		GreenFeatures:         datatypes.NewJSONSlice(data.GreenFeatures),
		SchoolDistrict:        data.SchoolDistrict,
		WalkScore:             data.WalkScore,
		TransitScore:          data.TransitScore,
		BikeScore:             data.BikeScore,
	}
}

func toFeatureDomain(data *model.ListingFeatureModel) *entity.FeatureSet {
	if data == nil {
		return nil
	}

	return &entity.FeatureSet{
		ListingID:             data.ListingID,
		Flooring:              data.Flooring,
		KitchenFeatures:       data.KitchenFeatures,
		BathroomFeatures:      data.BathroomFeatures,
		HasFireplace:          data.HasFireplace,
		FireplaceCount:        data.FireplaceCount,
		Cooling:               data.Cooling,
		Heating:               data.Heating,
		YardFeatures:          data.YardFeatures,
		HasPool:               data.HasPool,
		HasSpa:                data.HasSpa,
		GarageType:            data.GarageType,
		SecurityFeatures:      data.SecurityFeatures,
		AccessibilityFeatures: data.AccessibilityFeatures,
		GreenFeatures:         data.GreenFeatures,
		SchoolDistrict:        data.SchoolDistrict,
		WalkScore:             data.WalkScore,
		TransitScore:          data.TransitScore,
		BikeScore:             data.BikeScore,
		UpdatedAt:             data.UpdatedAt,
	}
}

func fromPhotoDomain(listingID uuid.UUID, data []*entity.Photo) []*model.ListingPhotoModel {
	if len(data) == 0 {
		return nil
	}

	photos := make([]*model.ListingPhotoModel, 0, len(data))
	for _, photo := range data {
		photos = append(photos, &model.ListingPhotoModel{
			ID:        photo.ID,
			ListingID: listingID,
			Caption:   photo.Caption,
			RoomType:  photo.RoomType,
			IsPrimary: photo.IsPrimary,
			SortOrder: photo.SortOrder,
			ImageURL:  photo.ImageURL,
		})
	}

	return photos
}

func toPhotoDomain(data []*model.ListingPhotoModel) []*entity.Photo {
	if len(data) == 0 {
		return nil
	}

	photos := make([]*entity.Photo, 0, len(data))
	for _, photo := range data {
		photos = append(photos, &entity.Photo{
			ID:        photo.ID,
			ListingID: photo.ListingID,
			Caption:   photo.Caption,
			RoomType:  photo.RoomType,
			IsPrimary: photo.IsPrimary,
			SortOrder: photo.SortOrder,
			ImageURL:  photo.ImageURL,
			CreatedAt: photo.CreatedAt,
		})
	}

	return photos
}
