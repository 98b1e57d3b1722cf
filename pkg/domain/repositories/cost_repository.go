package repositories

import "github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"

// CostRepository provides the flat cost structure used by model assembly and
// reporting
type CostRepository interface {
	GetCostStructure() (entities.CostStructure, error)
	LoadCostStructure(costs entities.CostStructure) error
}
