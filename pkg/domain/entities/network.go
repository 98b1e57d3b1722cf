package entities

import "time"

// NodeID represents a unique location identifier
type NodeID string

// ProductID represents a unique product identifier
type ProductID string

// TruckID represents a unique truck-schedule identifier
type TruckID string

// Node represents a location in the distribution network. Nodes are immutable
// for the duration of a solve.
type Node struct {
	ID                    NodeID
	Name                  string
	CanProduce            bool
	CanStore              bool
	HasDemand             bool
	RequiresTrucks        bool
	StorageMode           StorageMode
	ProductionRatePerHour float64
	// ProductionState is the state goods leave the line in. Only meaningful
	// when CanProduce is set.
	ProductionState ProductState
}

// Route represents a directed transport leg between two nodes
type Route struct {
	Origin      NodeID
	Destination NodeID
	Mode        TransportMode
	TransitDays float64
	CostPerUnit float64
}

// TransitDaysCeil returns the whole days a shipment on this leg is in transit
// for cohort-aging purposes. A 1.5-day leg occupies two calendar days.
func (r Route) TransitDaysCeil() int {
	d := int(r.TransitDays)
	if float64(d) < r.TransitDays {
		d++
	}
	return d
}

// TruckSchedule represents a recurring truck departure on one network leg.
// An empty DaysOfWeek set means the truck runs daily.
type TruckSchedule struct {
	ID            TruckID
	Origin        NodeID
	Destination   NodeID
	DaysOfWeek    []time.Weekday
	CapacityUnits float64
	FixedCost     float64
	CostPerUnit   float64
}

// RunsOn reports whether the truck is available on the given date
func (t TruckSchedule) RunsOn(date time.Time) bool {
	if len(t.DaysOfWeek) == 0 {
		return true
	}
	wd := DayOf(date).Weekday()
	for _, d := range t.DaysOfWeek {
		if d == wd {
			return true
		}
	}
	return false
}
