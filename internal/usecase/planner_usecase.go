// Package usecase defines the application-layer interfaces and the data
// transfer objects exchanged between the pipeline stages.
package usecase

import "hearth/internal/domain/entity"

// PlannerUsecase produces the weighted-random population of generation
// requests for one run. Deterministic in shape, stochastic in content.
type PlannerUsecase interface {
	Plan(n int) []entity.GenerationRequest
}
