package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"hearth/internal/domain/entity"
	"hearth/internal/domain/repository"
	"hearth/internal/usecase"
)

// alderPointBounds is the geographic envelope every stored listing must fall
// inside. orb points are (lon, lat).
var alderPointBounds = orb.Bound{
	Min: orb.Point{-122.3, 37.8},
	Max: orb.Point{-122.2, 37.9},
}

const (
	minYearBuilt = 1800
)

type inserterService struct {
	listings  repository.ListingRepository
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewInserterService builds the write half of the pipeline.
func NewInserterService(
	listings repository.ListingRepository,
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.InserterUsecase {
	return &inserterService{
		listings:  listings,
		txManager: txManager,
		logger:    logger,
	}
}

// Insert runs every record through range validation, skips MLS numbers the
// store already holds, and writes each survivor's aggregate in its own
// transaction. Per-record failures are tallied, not raised; an error return
// means the walk itself could not continue.
func (s *inserterService) Insert(
	ctx context.Context,
	records []usecase.GeneratedListing,
) (usecase.InsertResult, error) {
	var result usecase.InsertResult
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := validateRecord(record); err != nil {
			result.SkippedInvalid++
			s.logger.Warn("record failed range validation",
				slog.Int("index", i),
				slog.String("mlsNumber", record.MLSNumber),
				slog.Any("error", err))

			continue
		}

		exists, err := s.listings.ExistsByMLSNumber(ctx, record.MLSNumber)
		if err != nil {
			return result, errors.Wrap(err, "duplicate pre-check")
		}
		if exists {
			result.SkippedDuplicate++

			continue
		}

		listing := toListingEntity(record)
		err = s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
			return factory.NewListingRepository().Create(ctx, listing)
		})
		switch {
		case err == nil:
			result.Inserted++
		case errors.Is(err, repository.ErrDuplicateListing):
			// Lost the race against a concurrent writer; same outcome as
			// the pre-check catching it.
			result.SkippedDuplicate++
		default:
			result.Failed++
			s.logger.Error("listing insert failed",
				slog.String("mlsNumber", record.MLSNumber),
				slog.Any("error", err))
		}
	}

	return result, nil
}

// validateRecord enforces the range constraints the struct tags cannot express.
func validateRecord(record usecase.GeneratedListing) error {
	if record.Bedrooms <= 0 {
		return errors.New("bedrooms must be positive")
	}
	if record.Bathrooms <= 0 {
		return errors.New("bathrooms must be positive")
	}
	if record.Sqft <= 0 {
		return errors.New("sqft must be positive")
	}
	if record.Price <= 0 {
		return errors.New("price must be positive")
	}
	if record.YearBuilt < minYearBuilt || record.YearBuilt > time.Now().Year() {
		return errors.Errorf("year built %d outside plausible range", record.YearBuilt)
	}
	if !alderPointBounds.Contains(orb.Point{record.Longitude, record.Latitude}) {
		return errors.Errorf("coordinates (%f, %f) outside the Alder Point envelope",
			record.Latitude, record.Longitude)
	}

	return nil
}

// toListingEntity maps a validated payload onto the domain aggregate, filling
// the derived and defaulted fields the model never produces.
func toListingEntity(record usecase.GeneratedListing) *entity.Listing {
	listing := &entity.Listing{
		ID:           uuid.New(),
		MLSNumber:    record.MLSNumber,
		Address:      record.Address,
		ZipCode:      record.ZipCode,
		Latitude:     record.Latitude,
		Longitude:    record.Longitude,
		Bedrooms:     record.Bedrooms,
		Bathrooms:    record.Bathrooms,
		Sqft:         record.Sqft,
		LotSize:      record.LotSize,
		YearBuilt:    record.YearBuilt,
		PropertyType: entity.PropertyType(record.PropertyType),
		Stories:      record.Stories,
		GarageSpaces: record.GarageSpaces,
		Price:        record.Price,
		HOAFee:       record.HOAFee,
		PropertyTax:  record.PropertyTax,
		Status:       record.Status,
		ListingType:  record.ListingType,
	}

	if record.Sqft > 0 {
		pricePerSqft := float64(record.Price) / float64(record.Sqft)
		listing.PricePerSqft = &pricePerSqft
	}
	if listing.Status == "" {
		listing.Status = entity.DefaultStatus
	}
	if listing.ListingType == "" {
		listing.ListingType = entity.DefaultListingType
	}

	if record.Detail != nil {
		listing.Detail = toDetailEntity(listing.ID, *record.Detail)
	}
	if record.Features != nil {
		listing.Features = toFeatureEntity(listing.ID, *record.Features)
	}
	listing.Photos = toPhotoEntities(listing.ID, record.Photos)

	return listing
}

func toDetailEntity(listingID uuid.UUID, detail usecase.GeneratedDetail) *entity.ListingDetail {
	// The format is enforced upstream by the schema validator, so a parse
	// failure leaves the zero time rather than dropping the record.
	listDate, _ := time.Parse("2006-01-02", detail.ListDate)

	history := make([]entity.PriceChange, 0, len(detail.PriceHistory))
	for _, change := range detail.PriceHistory {
		history = append(history, entity.PriceChange{
			Date:  change.Date,
			Price: change.Price,
			Event: change.Event,
		})
	}

	return &entity.ListingDetail{
		ListingID:            listingID,
		ListDate:             listDate,
		DaysOnMarket:         detail.DaysOnMarket,
		Description:          detail.Description,
		KeyFeatures:          detail.KeyFeatures,
		AgentName:            detail.AgentName,
		AgentPhone:           detail.AgentPhone,
		AgentEmail:           detail.AgentEmail,
		Brokerage:            detail.Brokerage,
		OpenHouseDates:       detail.OpenHouseDates,
		VirtualTourAvailable: detail.VirtualTourAvailable,
		OriginalPrice:        detail.OriginalPrice,
		PriceHistory:         history,
	}
}

func toFeatureEntity(listingID uuid.UUID, features usecase.GeneratedFeatures) *entity.FeatureSet {
	return &entity.FeatureSet{
		ListingID:             listingID,
		Flooring:              features.Flooring,
		KitchenFeatures:       features.KitchenFeatures,
		BathroomFeatures:      features.BathroomFeatures,
		HasFireplace:          features.HasFireplace,
		FireplaceCount:        features.FireplaceCount,
		Cooling:               features.Cooling,
		Heating:               features.Heating,
		YardFeatures:          features.YardFeatures,
		HasPool:               features.HasPool,
		HasSpa:                features.HasSpa,
		GarageType:            features.GarageType,
		SecurityFeatures:      features.SecurityFeatures,
		AccessibilityFeatures: features.AccessibilityFeatures,
		GreenFeatures:         features.GreenFeatures,
		SchoolDistrict:        features.SchoolDistrict,
		WalkScore:             features.WalkScore,
		TransitScore:          features.TransitScore,
		BikeScore:             features.BikeScore,
	}
}

// toPhotoEntities fills the gallery defaults: a photo with no sort order takes
// its slice position (an explicit zero is kept), and the first photo is
// promoted to primary when none is flagged.
func toPhotoEntities(listingID uuid.UUID, photos []usecase.GeneratedPhoto) []*entity.Photo {
	if len(photos) == 0 {
		return nil
	}

	hasPrimary := false
	for _, photo := range photos {
		if photo.IsPrimary {
			hasPrimary = true

			break
		}
	}

	entities := make([]*entity.Photo, 0, len(photos))
	for i, photo := range photos {
		sortOrder := i
		if photo.SortOrder != nil {
			sortOrder = *photo.SortOrder
		}

		entities = append(entities, &entity.Photo{
			ID:        uuid.New(),
			ListingID: listingID,
			Caption:   photo.Caption,
			RoomType:  photo.RoomType,
			IsPrimary: photo.IsPrimary || (!hasPrimary && i == 0),
			SortOrder: sortOrder,
		})
	}

	return entities
}
