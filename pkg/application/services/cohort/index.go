package cohort

import (
	"fmt"
	"sort"
	"time"

	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/network"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/repositories"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/services"
)

// The index is the sparse set of tuples that could legally hold positive
// quantity. A tuple absent from the index is structurally zero: no variable
// is ever declared for it. Index cardinality grows with horizon length and is
// the dominant lever on solver tractability, so every pruning rule here pays
// off directly in solve time.

// ProductionKey identifies one production slot at a manufacturing node
type ProductionKey struct {
	Node    entities.NodeID
	Product entities.ProductID
	Date    time.Time
}

// AllocationSlot is one demand-allocation tuple split by source state
type AllocationSlot struct {
	entities.AllocationKey
	State entities.ProductState
}

// DemandKey identifies forecast demand at one node for one product and date
type DemandKey struct {
	Node    entities.NodeID
	Product entities.ProductID
	Date    time.Time
}

// TruckDayKey identifies one truck on one operating date
type TruckDayKey struct {
	Truck entities.TruckID
	Date  time.Time
}

// ShipmentEntry carries the leg properties resolved for one shipment tuple
type ShipmentEntry struct {
	Route          entities.Route
	DepartureDate  time.Time
	DepartureState entities.ProductState
	ArrivalState   entities.ProductState
}

// Horizon is the closed date window one index covers
type Horizon struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of dates in the horizon
func (h Horizon) Days() int {
	return entities.DaysBetween(h.Start, h.End) + 1
}

// Contains reports whether a date lies inside the horizon
func (h Horizon) Contains(date time.Time) bool {
	d := entities.DayOf(date)
	return !d.Before(h.Start) && !d.After(h.End)
}

// Index is the sparse cohort/shipment/allocation tuple space for one solve.
// It belongs exclusively to the model assembler that consumes it.
type Index struct {
	Horizon  Horizon
	Products []entities.ProductID

	Cohorts     map[entities.CohortKey]struct{}
	Shipments   map[entities.ShipmentKey]ShipmentEntry
	Allocations map[AllocationSlot]struct{}
	Productions map[ProductionKey]struct{}
	TruckDays   map[TruckDayKey]entities.TruckSchedule
	Demand      map[DemandKey]float64
	// Initial holds opening inventory keyed by its day-one cohort
	Initial map[entities.CohortKey]float64
}

// Stats summarizes index cardinalities for logging and metrics
type Stats struct {
	Cohorts     int
	Shipments   int
	Allocations int
	Productions int
	TruckDays   int
	DemandRows  int
}

// Stats returns the cardinality of each index set
func (ix *Index) Stats() Stats {
	return Stats{
		Cohorts:     len(ix.Cohorts),
		Shipments:   len(ix.Shipments),
		Allocations: len(ix.Allocations),
		Productions: len(ix.Productions),
		TruckDays:   len(ix.TruckDays),
		DemandRows:  len(ix.Demand),
	}
}

// Leg identifies one directed network leg for pruning purposes
type Leg struct {
	Origin      entities.NodeID
	Destination entities.NodeID
}

// Builder enumerates the sparse index from the network, forecast window,
// labor calendar and opening inventory.
type Builder struct {
	graph  *network.Graph
	states *services.ShelfLifeStateMachine
	labor  repositories.LaborCalendar

	// allowed restricts shipment tuples to legs appearing on enumerated
	// routes. Nil admits every leg in the graph.
	allowed map[Leg]struct{}
}

// NewBuilder creates a new index builder
func NewBuilder(graph *network.Graph, states *services.ShelfLifeStateMachine, labor repositories.LaborCalendar) *Builder {
	return &Builder{graph: graph, states: states, labor: labor}
}

// RestrictToLegs limits shipment tuples to the given legs. Legs absent from
// every enumerated route become structurally zero.
func (b *Builder) RestrictToLegs(legs map[Leg]struct{}) {
	b.allowed = legs
}

// Build enumerates every legal tuple for the horizon. Two calls with
// identical inputs produce identical index sets.
func (b *Builder) Build(horizon Horizon, forecast []entities.ForecastEntry, initial []entities.InitialInventory) (*Index, error) {
	horizon.Start = entities.DayOf(horizon.Start)
	horizon.End = entities.DayOf(horizon.End)
	if horizon.End.Before(horizon.Start) {
		return nil, fmt.Errorf("horizon end %s before start %s",
			horizon.End.Format("2006-01-02"), horizon.Start.Format("2006-01-02"))
	}

	ix := &Index{
		Horizon:     horizon,
		Cohorts:     make(map[entities.CohortKey]struct{}),
		Shipments:   make(map[entities.ShipmentKey]ShipmentEntry),
		Allocations: make(map[AllocationSlot]struct{}),
		Productions: make(map[ProductionKey]struct{}),
		TruckDays:   make(map[TruckDayKey]entities.TruckSchedule),
		Demand:      make(map[DemandKey]float64),
		Initial:     make(map[entities.CohortKey]float64),
	}

	if err := b.graph.ValidateForecast(forecast); err != nil {
		return nil, err
	}

	ix.Products = collectProducts(forecast, initial)
	dates := entities.DateRange(horizon.Start, horizon.End)

	// Demand rows inside the window.
	for _, e := range forecast {
		if !horizon.Contains(e.Date) || e.Quantity <= 0 {
			continue
		}
		k := DemandKey{Node: e.Node, Product: e.Product, Date: entities.DayOf(e.Date)}
		ix.Demand[k] += e.Quantity
	}

	// Opening inventory seeds cohorts on the horizon start date.
	for _, lot := range initial {
		key := entities.CohortKey{
			Node:           lot.Node,
			Product:        lot.Product,
			ProductionDate: entities.DayOf(lot.ProductionDate),
			Date:           horizon.Start,
			State:          lot.State,
		}
		if !key.Valid() {
			return nil, fmt.Errorf("initial inventory at %s for %s is already past shelf life", lot.Node, lot.Product)
		}
		ix.Initial[key] += lot.Units
	}

	// Production slots exist only on dates the labor calendar marks as
	// production days. A date with no entry forces production to zero by
	// omitting the slot entirely.
	if err := b.buildProductions(ix, dates); err != nil {
		return nil, err
	}

	// Candidate production dates: dates with at least one production slot
	// plus dates declared by opening inventory. Cohorts and shipments only
	// ever reference these, which keeps the index sparse on weeks with
	// non-production days.
	prodDates := make(map[time.Time]struct{})
	for pk := range ix.Productions {
		prodDates[pk.Date] = struct{}{}
	}
	for ck := range ix.Initial {
		prodDates[ck.ProductionDate] = struct{}{}
	}

	// Inventory cohorts: every storage-capable node, every supported state,
	// every (production date ≤ current date) pair within shelf life.
	b.buildCohorts(ix, dates, prodDates)

	// Shipment tuples per leg, pruned by time ordering and delivery age.
	b.buildShipments(ix, dates, prodDates)

	// Demand allocation slots, split by source state.
	b.buildAllocations(ix)

	// Truck operating days.
	for _, truck := range b.graph.Trucks() {
		for _, d := range dates {
			if truck.RunsOn(d) {
				ix.TruckDays[TruckDayKey{Truck: truck.ID, Date: d}] = truck
			}
		}
	}

	return ix, nil
}

func (b *Builder) buildProductions(ix *Index, dates []time.Time) error {
	for _, node := range b.graph.Nodes() {
		if !node.CanProduce {
			continue
		}
		for _, d := range dates {
			day, ok, err := b.labor.HoursAvailable(d)
			if err != nil {
				return fmt.Errorf("labor calendar lookup for %s: %w", d.Format("2006-01-02"), err)
			}
			if !ok || !day.IsProductionDay || day.MaxHours() <= 0 {
				continue
			}
			for _, p := range ix.Products {
				ix.Productions[ProductionKey{Node: node.ID, Product: p, Date: d}] = struct{}{}
			}
		}
	}
	return nil
}

func (b *Builder) buildCohorts(ix *Index, dates []time.Time, prodDates map[time.Time]struct{}) {
	for _, node := range b.graph.Nodes() {
		if !node.CanStore {
			continue
		}
		for _, state := range node.StorageMode.States() {
			life := entities.ShelfLifeDays(state)
			for pd := range prodDates {
				for _, d := range dates {
					age := entities.DaysBetween(pd, d)
					if age < 0 || age > life {
						continue
					}
					for _, p := range ix.Products {
						ix.Cohorts[entities.CohortKey{
							Node:           node.ID,
							Product:        p,
							ProductionDate: pd,
							Date:           d,
							State:          state,
						}] = struct{}{}
					}
				}
			}
		}
	}
}

func (b *Builder) buildShipments(ix *Index, dates []time.Time, prodDates map[time.Time]struct{}) {
	for _, leg := range b.graph.Routes() {
		if b.allowed != nil {
			if _, ok := b.allowed[Leg{Origin: leg.Origin, Destination: leg.Destination}]; !ok {
				continue
			}
		}
		origin, _ := b.graph.Node(leg.Origin)
		dest, ok := b.graph.Node(leg.Destination)
		if !ok {
			continue
		}

		transitState := leg.Mode.State()
		// Goods depart in the transit state, so the origin must be able to
		// hold that state. Thawed inventory never ships onward (single thaw
		// event per shipment).
		if !origin.StorageMode.Supports(transitState) && !(origin.CanProduce && origin.ProductionState == transitState) {
			continue
		}
		// A leg out of a truck-bound origin with no truck schedule can never
		// carry anything; its tuples are structurally zero.
		if origin.RequiresTrucks && len(b.graph.TrucksOnLeg(leg.Origin, leg.Destination)) == 0 {
			continue
		}

		arrivalState, _ := b.states.ArrivalState(leg.Mode, dest.StorageMode)
		transit := leg.TransitDaysCeil()
		life := entities.ShelfLifeDays(arrivalState)

		for _, delivery := range dates {
			departure := entities.AddDays(delivery, -transit)
			if departure.Before(ix.Horizon.Start) {
				continue
			}
			for pd := range prodDates {
				if pd.After(departure) {
					continue
				}
				if age := entities.DaysBetween(pd, delivery); age > life {
					continue
				}
				for _, p := range ix.Products {
					key := entities.ShipmentKey{
						Origin:         leg.Origin,
						Destination:    leg.Destination,
						Mode:           leg.Mode,
						Product:        p,
						ProductionDate: pd,
						DeliveryDate:   delivery,
					}
					ix.Shipments[key] = ShipmentEntry{
						Route:          leg,
						DepartureDate:  departure,
						DepartureState: transitState,
						ArrivalState:   arrivalState,
					}
				}
			}
		}
	}
}

func (b *Builder) buildAllocations(ix *Index) {
	// One pass over the cohort set: a cohort sitting at a demand node on a
	// demand date is an eligible allocation source. Cohort membership already
	// guarantees the age window for its state.
	for ck := range ix.Cohorts {
		dk := DemandKey{Node: ck.Node, Product: ck.Product, Date: ck.Date}
		if _, ok := ix.Demand[dk]; !ok {
			continue
		}
		ix.Allocations[AllocationSlot{
			AllocationKey: entities.AllocationKey{
				Node:           ck.Node,
				Product:        ck.Product,
				ProductionDate: ck.ProductionDate,
				DemandDate:     ck.Date,
			},
			State: ck.State,
		}] = struct{}{}
	}
}

func collectProducts(forecast []entities.ForecastEntry, initial []entities.InitialInventory) []entities.ProductID {
	seen := make(map[entities.ProductID]struct{})
	var products []entities.ProductID
	for _, e := range forecast {
		if _, ok := seen[e.Product]; !ok {
			seen[e.Product] = struct{}{}
			products = append(products, e.Product)
		}
	}
	for _, lot := range initial {
		if _, ok := seen[lot.Product]; !ok {
			seen[lot.Product] = struct{}{}
			products = append(products, lot.Product)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i] < products[j] })
	return products
}
