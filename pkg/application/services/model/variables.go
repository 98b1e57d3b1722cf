package model

import (
	"fmt"
	"time"

	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
)

// VarFamily identifies the structural family a decision variable belongs to.
// Together with the populated key fields it forms the structural key that
// warm starts, solution extraction and reporting all agree on.
type VarFamily int

const (
	// VarInventory is end-of-day cohort inventory (node, product,
	// production date, date, state).
	VarInventory VarFamily = iota
	// VarProduction is units produced (node, product, date).
	VarProduction
	// VarShipment is units shipped on one leg (origin, dest, mode, product,
	// production date, delivery date). The transport mode distinguishes
	// parallel legs between the same node pair.
	VarShipment
	// VarAllocation is demand served from one cohort (node, product,
	// production date, demand date, state).
	VarAllocation
	// VarShortage is unmet demand (node, product, date).
	VarShortage
	// VarTruckLoad is units carried by one truck departure (truck, date).
	VarTruckLoad
	// VarTruckUsed is the per-date truck usage binary (truck, date).
	VarTruckUsed
	// VarTruckUsedPattern is the per-weekday truck usage binary used by the
	// pattern phase (truck, weekday).
	VarTruckUsedPattern
	// VarRegularHours is regular labor hours used (node, date).
	VarRegularHours
	// VarOvertimeHours is overtime labor hours used (node, date).
	VarOvertimeHours
)

// String method for VarFamily enum
func (f VarFamily) String() string {
	switch f {
	case VarInventory:
		return "inv"
	case VarProduction:
		return "prod"
	case VarShipment:
		return "ship"
	case VarAllocation:
		return "alloc"
	case VarShortage:
		return "short"
	case VarTruckLoad:
		return "load"
	case VarTruckUsed:
		return "used"
	case VarTruckUsedPattern:
		return "usedwd"
	case VarRegularHours:
		return "reg"
	case VarOvertimeHours:
		return "ot"
	default:
		return "unknown"
	}
}

// VarKey is the structural key of one decision variable. Only the fields
// relevant to the family are populated; the rest stay zero. Keys are
// comparable and used directly in maps and warm-start snapshots.
type VarKey struct {
	Family         VarFamily
	Node           entities.NodeID
	Dest           entities.NodeID
	Mode           entities.TransportMode
	Product        entities.ProductID
	Truck          entities.TruckID
	ProductionDate time.Time
	Date           time.Time
	State          entities.ProductState
	Weekday        time.Weekday
}

const keyDateFormat = "20060102"

// Name returns the canonical solver-facing identifier for the variable
func (k VarKey) Name() string {
	switch k.Family {
	case VarInventory:
		return fmt.Sprintf("inv_%s_%s_%s_%s_%s",
			k.Node, k.Product, k.ProductionDate.Format(keyDateFormat), k.Date.Format(keyDateFormat), k.State)
	case VarProduction:
		return fmt.Sprintf("prod_%s_%s_%s", k.Node, k.Product, k.Date.Format(keyDateFormat))
	case VarShipment:
		return fmt.Sprintf("ship_%s_%s_%s_%s_%s_%s",
			k.Node, k.Dest, k.Mode, k.Product, k.ProductionDate.Format(keyDateFormat), k.Date.Format(keyDateFormat))
	case VarAllocation:
		return fmt.Sprintf("alloc_%s_%s_%s_%s_%s",
			k.Node, k.Product, k.ProductionDate.Format(keyDateFormat), k.Date.Format(keyDateFormat), k.State)
	case VarShortage:
		return fmt.Sprintf("short_%s_%s_%s", k.Node, k.Product, k.Date.Format(keyDateFormat))
	case VarTruckLoad:
		return fmt.Sprintf("load_%s_%s", k.Truck, k.Date.Format(keyDateFormat))
	case VarTruckUsed:
		return fmt.Sprintf("used_%s_%s", k.Truck, k.Date.Format(keyDateFormat))
	case VarTruckUsedPattern:
		return fmt.Sprintf("usedwd_%s_%d", k.Truck, int(k.Weekday))
	case VarRegularHours:
		return fmt.Sprintf("reg_%s_%s", k.Node, k.Date.Format(keyDateFormat))
	case VarOvertimeHours:
		return fmt.Sprintf("ot_%s_%s", k.Node, k.Date.Format(keyDateFormat))
	default:
		return fmt.Sprintf("x_%d", int(k.Family))
	}
}

// DateBearing reports whether the key carries calendar dates that a
// cross-horizon shift must rewrite. Pattern-phase weekday keys are
// date-free on purpose.
func (k VarKey) DateBearing() bool {
	return !k.Date.IsZero() || !k.ProductionDate.IsZero()
}

// Shifted returns a copy of the key with every populated date moved forward
// by n days.
func (k VarKey) Shifted(n int) VarKey {
	out := k
	if !out.ProductionDate.IsZero() {
		out.ProductionDate = entities.AddDays(out.ProductionDate, n)
	}
	if !out.Date.IsZero() {
		out.Date = entities.AddDays(out.Date, n)
	}
	return out
}

// VarKind is the variable's domain
type VarKind int

const (
	Continuous VarKind = iota
	Binary
	Integer
)

// String method for VarKind enum
func (k VarKind) String() string {
	switch k {
	case Binary:
		return "binary"
	case Integer:
		return "integer"
	default:
		return "continuous"
	}
}

// Variable is one declared decision variable
type Variable struct {
	Key   VarKey
	Kind  VarKind
	Lower float64
	// Upper is math.Inf(1) for unbounded-above variables
	Upper float64
}
