// Package impl contains the concrete implementations of the application's use cases.
package impl

import (
	"math"
	"math/rand/v2"
	"time"

	"hearth/internal/domain/entity"
	"hearth/internal/usecase"
)

// weighted pairs a candidate value with its draw weight.
type weighted[T any] struct {
	value  T
	weight int
}

// Target distribution of the dataset: mostly single-family homes, with a
// smaller share of condos and townhouses.
var propertyTypeWeights = []weighted[entity.PropertyType]{
	{value: entity.PropertyTypeSingleFamily, weight: 70},
	{value: entity.PropertyTypeCondo, weight: 20},
	{value: entity.PropertyTypeTownhouse, weight: 10},
}

// Bedroom mix over the 2-5 range.
var bedroomWeights = []weighted[int]{
	{value: 2, weight: 25},
	{value: 3, weight: 40},
	{value: 4, weight: 25},
	{value: 5, weight: 10},
}

type rangeSpec struct {
	priceMin, priceMax int
	sqftMin, sqftMax   int
	yearMin, yearMax   int
}

// Per-type price and size bands for the Alder Point market.
var listingRanges = map[entity.PropertyType]rangeSpec{
	entity.PropertyTypeSingleFamily: {priceMin: 850_000, priceMax: 2_400_000, sqftMin: 1200, sqftMax: 3400, yearMin: 1895, yearMax: 2015},
	entity.PropertyTypeCondo:        {priceMin: 550_000, priceMax: 1_300_000, sqftMin: 650, sqftMax: 1500, yearMin: 1960, yearMax: 2023},
	entity.PropertyTypeTownhouse:    {priceMin: 700_000, priceMax: 1_700_000, sqftMin: 1000, sqftMax: 2200, yearMin: 1940, yearMax: 2020},
}

// defaultRange backs the lookup for a type outside the closed enum. The enum
// is closed upstream, so this branch should be unreachable.
var defaultRange = rangeSpec{priceMin: 600_000, priceMax: 1_800_000, sqftMin: 800, sqftMax: 2500, yearMin: 1900, yearMax: 2023}

type plannerService struct {
	rng *rand.Rand
}

// NewPlannerService creates a planner. A nil rng gets a time-seeded source;
// tests pass a fixed seed.
func NewPlannerService(rng *rand.Rand) usecase.PlannerUsecase {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>16))
	}

	return &plannerService{rng: rng}
}

// Plan produces n generation requests matching the target distributions.
func (s *plannerService) Plan(n int) []entity.GenerationRequest {
	requests := make([]entity.GenerationRequest, 0, n)
	for range n {
		propertyType := pickWeighted(s.rng, propertyTypeWeights)
		bedrooms := pickWeighted(s.rng, bedroomWeights)
		ranges := rangeFor(propertyType)

		requests = append(requests, entity.GenerationRequest{
			PropertyType: propertyType,
			PriceMin:     ranges.priceMin,
			PriceMax:     ranges.priceMax,
			Bedrooms:     bedrooms,
			Bathrooms:    deriveBathrooms(s.rng, bedrooms),
			SqftMin:      ranges.sqftMin,
			SqftMax:      ranges.sqftMax,
			YearBuiltMin: ranges.yearMin,
			YearBuiltMax: ranges.yearMax,
		})
	}

	return requests
}

// deriveBathrooms scales the bedroom count by a uniform factor in
// [0.75, 1.25) and rounds to the nearest half bath.
func deriveBathrooms(rng *rand.Rand, bedrooms int) float64 {
	factor := 0.75 + rng.Float64()*0.5

	return math.Round(float64(bedrooms)*factor*2) / 2
}

func rangeFor(propertyType entity.PropertyType) rangeSpec {
	if ranges, ok := listingRanges[propertyType]; ok {
		return ranges
	}

	return defaultRange
}

// pickWeighted draws one value via cumulative-weight subtraction against a
// single uniform draw scaled to the total weight. If floating-point drift
// exhausts the loop without a pick, the last item wins; that fallback is
// intentional, not a distribution bug.
func pickWeighted[T any](rng *rand.Rand, choices []weighted[T]) T {
	total := 0
	for _, choice := range choices {
		total += choice.weight
	}

	draw := rng.Float64() * float64(total)
	for _, choice := range choices {
		draw -= float64(choice.weight)
		if draw < 0 {
			return choice.value
		}
	}

	return choices[len(choices)-1].value
}
