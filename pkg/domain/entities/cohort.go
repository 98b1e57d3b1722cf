package entities

import "time"

// CohortKey identifies one inventory cohort: units of Product made on
// ProductionDate, present at Node on Date, held in State. Keys are comparable
// and used directly as sparse-map keys.
type CohortKey struct {
	Node           NodeID
	Product        ProductID
	ProductionDate time.Time
	Date           time.Time
	State          ProductState
}

// Age returns the cohort's age in days on its current date
func (k CohortKey) Age() int {
	return DaysBetween(k.ProductionDate, k.Date)
}

// Valid reports whether the cohort respects time ordering and shelf life
func (k CohortKey) Valid() bool {
	age := k.Age()
	return age >= 0 && age <= ShelfLifeDays(k.State)
}

// ShipmentKey identifies one shipment cohort on a single route leg: units of
// Product made on ProductionDate, delivered to Destination on DeliveryDate
// under the leg's transport Mode. Parallel legs between the same node pair
// differ only by mode, so the mode is part of the identity; without it a
// frozen and an ambient leg would collapse to one tuple. The departure date
// and arrival state are properties of the leg, carried on the index entry
// rather than the key.
type ShipmentKey struct {
	Origin         NodeID
	Destination    NodeID
	Mode           TransportMode
	Product        ProductID
	ProductionDate time.Time
	DeliveryDate   time.Time
}

// AllocationKey identifies the portion of demand at Node for Product on
// DemandDate served from the ProductionDate cohort.
type AllocationKey struct {
	Node           NodeID
	Product        ProductID
	ProductionDate time.Time
	DemandDate     time.Time
}

// InitialInventory declares on-hand stock at horizon start
type InitialInventory struct {
	Node           NodeID
	Product        ProductID
	ProductionDate time.Time
	State          ProductState
	Units          float64
}
