package entities

import "github.com/shopspring/decimal"

// CostStructure is the flat read-only cost record consumed by model assembly
// and reporting. Monetary amounts are decimals; the solver boundary converts
// to float64 coefficients.
type CostStructure struct {
	ProductionPerUnit decimal.Decimal
	// StoragePerUnitDay is the holding cost per unit per day, by state.
	StorageFrozenPerUnitDay  decimal.Decimal
	StorageAmbientPerUnitDay decimal.Decimal
	ShortagePenaltyPerUnit   decimal.Decimal
}

// StoragePerUnitDay returns the holding cost coefficient for a state.
// Thawed product is stored at ambient temperature.
func (c CostStructure) StoragePerUnitDay(s ProductState) decimal.Decimal {
	if s == Frozen {
		return c.StorageFrozenPerUnitDay
	}
	return c.StorageAmbientPerUnitDay
}
