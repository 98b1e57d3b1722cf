package memory

import (
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/repositories"
)

// CostRepository provides in-memory cost structure storage
type CostRepository struct {
	costs entities.CostStructure
}

// NewCostRepository creates a new in-memory cost repository
func NewCostRepository() *CostRepository {
	return &CostRepository{}
}

// Verify interface compliance
var _ repositories.CostRepository = (*CostRepository)(nil)

// LoadCostStructure loads the cost structure
func (r *CostRepository) LoadCostStructure(costs entities.CostStructure) error {
	r.costs = costs
	return nil
}

// GetCostStructure returns the cost structure
func (r *CostRepository) GetCostStructure() (entities.CostStructure, error) {
	return r.costs, nil
}
