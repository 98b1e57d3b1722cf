package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
)

// StructuralInfeasibilityError reports demand that no combination of
// production, opening inventory or enumerated routes can ever serve. It is
// raised at assembly time, before any solver call, and is never retried
// silently.
type StructuralInfeasibilityError struct {
	Node    entities.NodeID
	Product entities.ProductID
	Date    time.Time
	Demand  float64
	Reason  string
}

func (e *StructuralInfeasibilityError) Error() string {
	return fmt.Sprintf("structurally infeasible: %.1f units of %s at %s on %s cannot be served (%s)",
		e.Demand, e.Product, e.Node, e.Date.Format("2006-01-02"), e.Reason)
}

// IsStructuralInfeasibility reports whether err is a structural
// infeasibility raised during assembly
func IsStructuralInfeasibility(err error) bool {
	var sie *StructuralInfeasibilityError
	return errors.As(err, &sie)
}
