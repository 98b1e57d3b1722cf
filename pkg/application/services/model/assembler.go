package model

import (
	"fmt"
	"time"

	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/cohort"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/network"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/repositories"
)

// AssemblerConfig controls assembly policy
type AssemblerConfig struct {
	// AllowShortages permits unmet demand at a per-unit penalty. When false
	// the demand constraints are exact equalities.
	AllowShortages bool
	Phase          Phase
}

// Assembler builds one MILP instance from a cohort index. Every node kind
// shares the same constraint families; capability flags alone decide which
// terms appear, so there is no per-node-type special casing anywhere.
type Assembler struct {
	graph  *network.Graph
	labor  repositories.LaborCalendar
	costs  entities.CostStructure
	config AssemblerConfig
}

// NewAssembler creates a model assembler
func NewAssembler(graph *network.Graph, labor repositories.LaborCalendar, costs entities.CostStructure, config AssemblerConfig) *Assembler {
	return &Assembler{graph: graph, labor: labor, costs: costs, config: config}
}

// legDay identifies one leg on one departure date for truck linking
type legDay struct {
	origin      entities.NodeID
	destination entities.NodeID
	date        time.Time
}

// Assemble declares variables over the sparse index and builds the balance,
// demand, production-capacity and truck-capacity constraint families plus the
// cost objective. The returned model owns its variable space.
func (a *Assembler) Assemble(ix *cohort.Index) (*Model, error) {
	if err := a.preflightDemand(ix); err != nil {
		return nil, err
	}

	m := New(fmt.Sprintf("plan_%s_%s",
		ix.Horizon.Start.Format("20060102"), ix.Horizon.End.Format("20060102")), a.config.Phase)

	arrivals, departures, legDepartures := indexShipments(ix)

	if err := a.declareVariables(m, ix); err != nil {
		return nil, err
	}
	if err := a.buildBalance(m, ix, arrivals, departures); err != nil {
		return nil, err
	}
	if err := a.buildDemand(m, ix); err != nil {
		return nil, err
	}
	if err := a.buildProductionCapacity(m, ix); err != nil {
		return nil, err
	}
	if err := a.buildTruckCapacity(m, ix, legDepartures); err != nil {
		return nil, err
	}
	if err := a.buildObjective(m, ix); err != nil {
		return nil, err
	}

	return m, nil
}

// preflightDemand fails fast when demand exists that the network can never
// serve. With shortages allowed the demand is routed through the shortage
// variable instead; it is never silently dropped.
func (a *Assembler) preflightDemand(ix *cohort.Index) error {
	if a.config.AllowShortages {
		return nil
	}

	// Destinations with any inbound shipment tuple, per product.
	type nodeProduct struct {
		node    entities.NodeID
		product entities.ProductID
	}
	served := make(map[nodeProduct]bool)
	for sk := range ix.Shipments {
		served[nodeProduct{sk.Destination, sk.Product}] = true
	}

	for dk, qty := range ix.Demand {
		node, ok := a.graph.Node(dk.Node)
		if !ok {
			return fmt.Errorf("demand references unknown node %s", dk.Node)
		}
		if node.CanProduce {
			continue
		}
		if served[nodeProduct{dk.Node, dk.Product}] {
			continue
		}
		if hasOpeningStock(ix, dk.Node, dk.Product) {
			continue
		}
		return &StructuralInfeasibilityError{
			Node:    dk.Node,
			Product: dk.Product,
			Date:    dk.Date,
			Demand:  qty,
			Reason:  "no route reaches this destination and shortages are disallowed",
		}
	}
	return nil
}

func hasOpeningStock(ix *cohort.Index, node entities.NodeID, product entities.ProductID) bool {
	for ck := range ix.Initial {
		if ck.Node == node && ck.Product == product {
			return true
		}
	}
	return false
}

func (a *Assembler) declareVariables(m *Model, ix *cohort.Index) error {
	for ck := range ix.Cohorts {
		v := Variable{Key: cohortVarKey(ck), Kind: Continuous, Upper: Unbounded()}
		if err := m.AddVariable(v); err != nil {
			return err
		}
	}

	for pk := range ix.Productions {
		node, _ := a.graph.Node(pk.Node)
		day, ok, err := a.labor.HoursAvailable(pk.Date)
		if err != nil {
			return err
		}
		upper := Unbounded()
		if ok {
			// Bound hint: one product cannot exceed the full day's output.
			upper = node.ProductionRatePerHour * day.MaxHours()
		}
		v := Variable{
			Key:   VarKey{Family: VarProduction, Node: pk.Node, Product: pk.Product, Date: pk.Date},
			Kind:  Continuous,
			Upper: upper,
		}
		if err := m.AddVariable(v); err != nil {
			return err
		}
	}

	for sk := range ix.Shipments {
		v := Variable{Key: shipmentVarKey(sk), Kind: Continuous, Upper: Unbounded()}
		if err := m.AddVariable(v); err != nil {
			return err
		}
	}

	for slot := range ix.Allocations {
		dk := cohort.DemandKey{Node: slot.Node, Product: slot.Product, Date: slot.DemandDate}
		v := Variable{Key: allocationVarKey(slot), Kind: Continuous, Upper: ix.Demand[dk]}
		if err := m.AddVariable(v); err != nil {
			return err
		}
	}

	if a.config.AllowShortages {
		for dk, qty := range ix.Demand {
			v := Variable{
				Key:   VarKey{Family: VarShortage, Node: dk.Node, Product: dk.Product, Date: dk.Date},
				Kind:  Continuous,
				Upper: qty,
			}
			if err := m.AddVariable(v); err != nil {
				return err
			}
		}
	}

	weekdaysDeclared := make(map[VarKey]bool)
	for tk, truck := range ix.TruckDays {
		load := Variable{
			Key:   VarKey{Family: VarTruckLoad, Truck: tk.Truck, Date: tk.Date},
			Kind:  Continuous,
			Upper: truck.CapacityUnits,
		}
		if err := m.AddVariable(load); err != nil {
			return err
		}

		used := a.truckUsedKey(tk)
		if weekdaysDeclared[used] {
			continue
		}
		weekdaysDeclared[used] = true
		if err := m.AddVariable(Variable{Key: used, Kind: Binary, Upper: 1}); err != nil {
			return err
		}
	}

	laborDeclared := make(map[VarKey]bool)
	for pk := range ix.Productions {
		day, ok, err := a.labor.HoursAvailable(pk.Date)
		if err != nil || !ok {
			continue
		}
		regKey := VarKey{Family: VarRegularHours, Node: pk.Node, Date: pk.Date}
		if laborDeclared[regKey] {
			continue
		}
		laborDeclared[regKey] = true
		if err := m.AddVariable(Variable{Key: regKey, Kind: Continuous, Upper: day.FixedHours}); err != nil {
			return err
		}
		otKey := VarKey{Family: VarOvertimeHours, Node: pk.Node, Date: pk.Date}
		if err := m.AddVariable(Variable{Key: otKey, Kind: Continuous, Upper: day.OvertimeCeiling}); err != nil {
			return err
		}
	}

	return nil
}

// truckUsedKey returns the usage binary key for a truck day under the
// current phase. The pattern phase shares one binary per weekday across all
// weeks of the horizon.
func (a *Assembler) truckUsedKey(tk cohort.TruckDayKey) VarKey {
	if a.config.Phase == PatternPhase {
		return VarKey{Family: VarTruckUsedPattern, Truck: tk.Truck, Weekday: tk.Date.Weekday()}
	}
	return VarKey{Family: VarTruckUsed, Truck: tk.Truck, Date: tk.Date}
}

// indexShipments builds the reverse lookups the balance family needs:
// arrivals and departures keyed by the cohort they touch, and departures
// grouped by leg-day for truck linking.
func indexShipments(ix *cohort.Index) (map[entities.CohortKey][]entities.ShipmentKey, map[entities.CohortKey][]entities.ShipmentKey, map[legDay][]entities.ShipmentKey) {
	arrivals := make(map[entities.CohortKey][]entities.ShipmentKey)
	departures := make(map[entities.CohortKey][]entities.ShipmentKey)
	legDepartures := make(map[legDay][]entities.ShipmentKey)

	for sk, entry := range ix.Shipments {
		arr := entities.CohortKey{
			Node:           sk.Destination,
			Product:        sk.Product,
			ProductionDate: sk.ProductionDate,
			Date:           sk.DeliveryDate,
			State:          entry.ArrivalState,
		}
		arrivals[arr] = append(arrivals[arr], sk)

		dep := entities.CohortKey{
			Node:           sk.Origin,
			Product:        sk.Product,
			ProductionDate: sk.ProductionDate,
			Date:           entry.DepartureDate,
			State:          entry.DepartureState,
		}
		departures[dep] = append(departures[dep], sk)

		ld := legDay{origin: sk.Origin, destination: sk.Destination, date: entry.DepartureDate}
		legDepartures[ld] = append(legDepartures[ld], sk)
	}

	return arrivals, departures, legDepartures
}

// buildBalance emits one inventory-balance equality per cohort:
//
//	inv[t] = inv[t−1] + production + arrivals − departures − consumption
//
// The same equation form serves manufacturing, hub, storage and demand nodes;
// capability flags decide which terms exist. Opening inventory enters as the
// constant right-hand side on the horizon's first date.
func (a *Assembler) buildBalance(m *Model, ix *cohort.Index,
	arrivals, departures map[entities.CohortKey][]entities.ShipmentKey) error {

	for ck := range ix.Cohorts {
		terms := []Term{{Key: cohortVarKey(ck), Coef: 1}}
		rhs := 0.0

		prev := ck
		prev.Date = entities.AddDays(ck.Date, -1)
		if _, ok := ix.Cohorts[prev]; ok {
			terms = append(terms, Term{Key: cohortVarKey(prev), Coef: -1})
		}
		if ck.Date.Equal(ix.Horizon.Start) {
			rhs += ix.Initial[ck]
		}

		node, _ := a.graph.Node(ck.Node)
		if node.CanProduce && ck.ProductionDate.Equal(ck.Date) && ck.State == node.ProductionState {
			pk := cohort.ProductionKey{Node: ck.Node, Product: ck.Product, Date: ck.Date}
			if _, ok := ix.Productions[pk]; ok {
				terms = append(terms, Term{
					Key:  VarKey{Family: VarProduction, Node: ck.Node, Product: ck.Product, Date: ck.Date},
					Coef: -1,
				})
			}
		}

		for _, sk := range arrivals[ck] {
			terms = append(terms, Term{Key: shipmentVarKey(sk), Coef: -1})
		}
		for _, sk := range departures[ck] {
			terms = append(terms, Term{Key: shipmentVarKey(sk), Coef: 1})
		}

		slot := cohort.AllocationSlot{
			AllocationKey: entities.AllocationKey{
				Node:           ck.Node,
				Product:        ck.Product,
				ProductionDate: ck.ProductionDate,
				DemandDate:     ck.Date,
			},
			State: ck.State,
		}
		if _, ok := ix.Allocations[slot]; ok {
			terms = append(terms, Term{Key: allocationVarKey(slot), Coef: 1})
		}

		c := Constraint{
			Name:  "bal_" + cohortVarKey(ck).Name(),
			Terms: terms,
			Op:    Eq,
			RHS:   rhs,
		}
		if err := m.AddConstraint(c); err != nil {
			return err
		}
	}
	return nil
}

// buildDemand emits one demand-satisfaction constraint per (node, product,
// date): allocations across production dates and states, plus shortage when
// allowed, must equal forecast demand exactly.
func (a *Assembler) buildDemand(m *Model, ix *cohort.Index) error {
	slotsByDemand := make(map[cohort.DemandKey][]cohort.AllocationSlot)
	for slot := range ix.Allocations {
		dk := cohort.DemandKey{Node: slot.Node, Product: slot.Product, Date: slot.DemandDate}
		slotsByDemand[dk] = append(slotsByDemand[dk], slot)
	}

	for dk, qty := range ix.Demand {
		var terms []Term
		for _, slot := range slotsByDemand[dk] {
			terms = append(terms, Term{Key: allocationVarKey(slot), Coef: 1})
		}
		if a.config.AllowShortages {
			terms = append(terms, Term{
				Key:  VarKey{Family: VarShortage, Node: dk.Node, Product: dk.Product, Date: dk.Date},
				Coef: 1,
			})
		}
		if len(terms) == 0 {
			return &StructuralInfeasibilityError{
				Node:    dk.Node,
				Product: dk.Product,
				Date:    dk.Date,
				Demand:  qty,
				Reason:  "no cohort can serve this demand date within shelf life",
			}
		}
		c := Constraint{
			Name:  fmt.Sprintf("dem_%s_%s_%s", dk.Node, dk.Product, dk.Date.Format("20060102")),
			Terms: terms,
			Op:    Eq,
			RHS:   qty,
		}
		if err := m.AddConstraint(c); err != nil {
			return err
		}
	}
	return nil
}

// buildProductionCapacity ties total production per manufacturing node and
// date to labor hours: Σ_products production ≤ rate × (regular + overtime).
// Dates without a labor entry have no production slots at all, which forces
// output to zero structurally.
func (a *Assembler) buildProductionCapacity(m *Model, ix *cohort.Index) error {
	type nodeDay struct {
		node entities.NodeID
		date time.Time
	}
	byDay := make(map[nodeDay][]cohort.ProductionKey)
	for pk := range ix.Productions {
		nd := nodeDay{pk.Node, pk.Date}
		byDay[nd] = append(byDay[nd], pk)
	}

	for nd, slots := range byDay {
		node, _ := a.graph.Node(nd.node)
		rate := node.ProductionRatePerHour
		if rate <= 0 {
			return fmt.Errorf("producing node %s has non-positive production rate", nd.node)
		}

		terms := make([]Term, 0, len(slots)+2)
		for _, pk := range slots {
			terms = append(terms, Term{
				Key:  VarKey{Family: VarProduction, Node: pk.Node, Product: pk.Product, Date: pk.Date},
				Coef: 1,
			})
		}
		terms = append(terms,
			Term{Key: VarKey{Family: VarRegularHours, Node: nd.node, Date: nd.date}, Coef: -rate},
			Term{Key: VarKey{Family: VarOvertimeHours, Node: nd.node, Date: nd.date}, Coef: -rate},
		)

		c := Constraint{
			Name:  fmt.Sprintf("cap_%s_%s", nd.node, nd.date.Format("20060102")),
			Terms: terms,
			Op:    Le,
			RHS:   0,
		}
		if err := m.AddConstraint(c); err != nil {
			return err
		}
	}
	return nil
}

// buildTruckCapacity links shipments to trucks on legs that require them:
// departures on a leg-day must equal the sum of truck loads, and each load is
// capped by capacity times its usage binary. Trucks are usable only on their
// scheduled weekdays; other days have no truck-day tuple.
func (a *Assembler) buildTruckCapacity(m *Model, ix *cohort.Index, legDepartures map[legDay][]entities.ShipmentKey) error {
	// Capacity per truck day.
	for tk, truck := range ix.TruckDays {
		loadKey := VarKey{Family: VarTruckLoad, Truck: tk.Truck, Date: tk.Date}
		c := Constraint{
			Name: fmt.Sprintf("trk_%s_%s", tk.Truck, tk.Date.Format("20060102")),
			Terms: []Term{
				{Key: loadKey, Coef: 1},
				{Key: a.truckUsedKey(tk), Coef: -truck.CapacityUnits},
			},
			Op:  Le,
			RHS: 0,
		}
		if err := m.AddConstraint(c); err != nil {
			return err
		}
	}

	// Linking per leg-day on truck-bound legs. Leg-days with trucks but no
	// departing tuples still get the equality, forcing their loads to zero.
	type legDayTrucks struct {
		ld     legDay
		trucks []entities.TruckSchedule
	}
	linked := make(map[legDay]legDayTrucks)

	addLeg := func(ld legDay) {
		if _, done := linked[ld]; done {
			return
		}
		origin, ok := a.graph.Node(ld.origin)
		if !ok || !origin.RequiresTrucks {
			return
		}
		var avail []entities.TruckSchedule
		for _, truck := range a.graph.TrucksOnLeg(ld.origin, ld.destination) {
			if _, ok := ix.TruckDays[cohort.TruckDayKey{Truck: truck.ID, Date: ld.date}]; ok {
				avail = append(avail, truck)
			}
		}
		linked[ld] = legDayTrucks{ld: ld, trucks: avail}
	}

	for ld := range legDepartures {
		addLeg(ld)
	}
	for tk, truck := range ix.TruckDays {
		addLeg(legDay{origin: truck.Origin, destination: truck.Destination, date: tk.Date})
	}

	for ld, entry := range linked {
		var terms []Term
		for _, sk := range legDepartures[ld] {
			terms = append(terms, Term{Key: shipmentVarKey(sk), Coef: 1})
		}
		for _, truck := range entry.trucks {
			terms = append(terms, Term{Key: VarKey{Family: VarTruckLoad, Truck: truck.ID, Date: ld.date}, Coef: -1})
		}
		if len(terms) == 0 {
			continue
		}
		c := Constraint{
			Name:  fmt.Sprintf("link_%s_%s_%s", ld.origin, ld.destination, ld.date.Format("20060102")),
			Terms: terms,
			Op:    Eq,
			RHS:   0,
		}
		if err := m.AddConstraint(c); err != nil {
			return err
		}
	}
	return nil
}

// buildObjective sums production, transport, storage-by-state, labor,
// shortage and truck costs. Decimal cost records convert to float64 only
// here, at the solver boundary.
func (a *Assembler) buildObjective(m *Model, ix *cohort.Index) error {
	var terms []Term

	prodCost := a.costs.ProductionPerUnit.InexactFloat64()
	for pk := range ix.Productions {
		terms = append(terms, Term{
			Key:  VarKey{Family: VarProduction, Node: pk.Node, Product: pk.Product, Date: pk.Date},
			Coef: prodCost,
		})
	}

	for sk, entry := range ix.Shipments {
		terms = append(terms, Term{Key: shipmentVarKey(sk), Coef: entry.Route.CostPerUnit})
	}

	for ck := range ix.Cohorts {
		terms = append(terms, Term{
			Key:  cohortVarKey(ck),
			Coef: a.costs.StoragePerUnitDay(ck.State).InexactFloat64(),
		})
	}

	laborCosted := make(map[VarKey]bool)
	for pk := range ix.Productions {
		day, ok, err := a.labor.HoursAvailable(pk.Date)
		if err != nil || !ok {
			continue
		}
		regKey := VarKey{Family: VarRegularHours, Node: pk.Node, Date: pk.Date}
		if laborCosted[regKey] {
			continue
		}
		laborCosted[regKey] = true
		terms = append(terms,
			Term{Key: regKey, Coef: day.RegularRate},
			Term{Key: VarKey{Family: VarOvertimeHours, Node: pk.Node, Date: pk.Date}, Coef: day.OvertimeRate},
		)
	}

	if a.config.AllowShortages {
		penalty := a.costs.ShortagePenaltyPerUnit.InexactFloat64()
		for dk := range ix.Demand {
			terms = append(terms, Term{
				Key:  VarKey{Family: VarShortage, Node: dk.Node, Product: dk.Product, Date: dk.Date},
				Coef: penalty,
			})
		}
	}

	// Truck costs: per-unit on loads, fixed on usage binaries. A pattern
	// binary covers every occurrence of its weekday, so its fixed cost
	// scales by the occurrence count.
	usedOccurrences := make(map[VarKey]int)
	for tk, truck := range ix.TruckDays {
		terms = append(terms, Term{
			Key:  VarKey{Family: VarTruckLoad, Truck: tk.Truck, Date: tk.Date},
			Coef: truck.CostPerUnit,
		})
		usedOccurrences[a.truckUsedKey(tk)]++
	}
	for tk, truck := range ix.TruckDays {
		used := a.truckUsedKey(tk)
		n, pending := usedOccurrences[used]
		if !pending {
			continue
		}
		delete(usedOccurrences, used)
		coef := truck.FixedCost
		if a.config.Phase == PatternPhase {
			coef *= float64(n)
		}
		terms = append(terms, Term{Key: used, Coef: coef})
	}

	return m.SetObjective(Objective{Terms: terms})
}

func cohortVarKey(ck entities.CohortKey) VarKey {
	return VarKey{
		Family:         VarInventory,
		Node:           ck.Node,
		Product:        ck.Product,
		ProductionDate: ck.ProductionDate,
		Date:           ck.Date,
		State:          ck.State,
	}
}

func shipmentVarKey(sk entities.ShipmentKey) VarKey {
	return VarKey{
		Family:         VarShipment,
		Node:           sk.Origin,
		Dest:           sk.Destination,
		Mode:           sk.Mode,
		Product:        sk.Product,
		ProductionDate: sk.ProductionDate,
		Date:           sk.DeliveryDate,
	}
}

func allocationVarKey(slot cohort.AllocationSlot) VarKey {
	return VarKey{
		Family:         VarAllocation,
		Node:           slot.Node,
		Product:        slot.Product,
		ProductionDate: slot.ProductionDate,
		Date:           slot.DemandDate,
		State:          slot.State,
	}
}
