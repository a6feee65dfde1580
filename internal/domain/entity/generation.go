package entity

// GenerationRequest is the per-listing specification handed to the completion
// model. Ranges are inclusive; the model picks concrete values inside them.
type GenerationRequest struct {
	PropertyType PropertyType
	PriceMin     int
	PriceMax     int
	Bedrooms     int
	Bathrooms    float64
	SqftMin      int
	SqftMax      int
	YearBuiltMin int
	YearBuiltMax int
}
