package network

import (
	"sort"

	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/services"
)

// RankBy selects the ranking key pair for enumerated routes
type RankBy int

const (
	RankCostTime RankBy = iota
	RankTimeCost
	RankHopsCost
)

// String method for RankBy enum
func (r RankBy) String() string {
	switch r {
	case RankCostTime:
		return "cost,time"
	case RankTimeCost:
		return "time,cost"
	case RankHopsCost:
		return "hops,cost"
	default:
		return "unknown"
	}
}

// RankedRoute is one enumerated simple path from the origin to a destination
type RankedRoute struct {
	Path             []entities.NodeID
	Legs             []entities.Route
	TotalCostPerUnit float64
	TotalTransitDays float64
	Hops             int
	// ArrivalState is the product state on delivery at the final node, after
	// applying the shelf-life state machine along every leg.
	ArrivalState entities.ProductState
	// RemainingShelfLifeDays is the shelf life left on delivery: the final
	// state's budget minus total transit days.
	RemainingShelfLifeDays float64
}

// EnumeratorConfig bounds the search and sets the delivery freshness floor
type EnumeratorConfig struct {
	MaxHops int
	TopK    int
	RankBy  RankBy
	// MinShelfLifeAtDelivery is the minimum days of shelf life a path must
	// leave on delivery to be enumerable.
	MinShelfLifeAtDelivery float64
}

// Enumerator finds the top-K ranked simple paths from a single origin to each
// requested destination.
type Enumerator struct {
	graph  *Graph
	states *services.ShelfLifeStateMachine
	config EnumeratorConfig

	// collected accumulates candidate paths per destination during one walk
	collected map[entities.NodeID][]RankedRoute
}

// NewEnumerator creates a route enumerator over a built graph
func NewEnumerator(graph *Graph, states *services.ShelfLifeStateMachine, config EnumeratorConfig) *Enumerator {
	if config.MaxHops <= 0 {
		config.MaxHops = 4
	}
	if config.TopK <= 0 {
		config.TopK = 5
	}
	return &Enumerator{graph: graph, states: states, config: config}
}

// Enumerate returns up to K ranked simple paths from origin to each
// destination. A destination with no feasible path maps to an empty list;
// that is a data condition meaning "cannot be served", never an error.
func (e *Enumerator) Enumerate(origin entities.NodeID, destinations []entities.NodeID) map[entities.NodeID][]RankedRoute {
	found := make(map[entities.NodeID][]RankedRoute, len(destinations))
	wanted := make(map[entities.NodeID]bool, len(destinations))
	for _, d := range destinations {
		found[d] = nil
		wanted[d] = true
	}

	visited := map[entities.NodeID]bool{origin: true}
	e.walk(origin, wanted, visited, nil)

	for dest, paths := range e.collected {
		sortRoutes(paths, e.config.RankBy)
		if len(paths) > e.config.TopK {
			paths = paths[:e.config.TopK]
		}
		found[dest] = paths
	}
	e.collected = nil

	return found
}

func (e *Enumerator) walk(current entities.NodeID, wanted map[entities.NodeID]bool,
	visited map[entities.NodeID]bool, path []entities.Route) {

	if len(path) >= e.config.MaxHops {
		return
	}

	for _, leg := range e.graph.OutboundRoutes(current) {
		if visited[leg.Destination] {
			continue
		}

		legs := append(append([]entities.Route(nil), path...), leg)

		if wanted[leg.Destination] {
			if rr, ok := e.evaluate(legs); ok {
				if e.collected == nil {
					e.collected = make(map[entities.NodeID][]RankedRoute)
				}
				e.collected[leg.Destination] = append(e.collected[leg.Destination], rr)
			}
		}

		visited[leg.Destination] = true
		e.walk(leg.Destination, wanted, visited, legs)
		visited[leg.Destination] = false
	}
}

// evaluate prices a candidate path and applies the shelf-life feasibility
// filter. Paths that would deliver with less than the configured minimum
// shelf life are discarded.
func (e *Enumerator) evaluate(legs []entities.Route) (RankedRoute, bool) {
	var cost, transit float64
	state := legs[0].Mode.State()

	nodes := make([]entities.NodeID, 0, len(legs)+1)
	nodes = append(nodes, legs[0].Origin)

	for _, leg := range legs {
		cost += leg.CostPerUnit
		transit += leg.TransitDays
		nodes = append(nodes, leg.Destination)

		dest, ok := e.graph.Node(leg.Destination)
		if !ok {
			return RankedRoute{}, false
		}
		state, _ = e.states.ArrivalState(leg.Mode, dest.StorageMode)
	}

	remaining := float64(entities.ShelfLifeDays(state)) - transit
	if remaining < e.config.MinShelfLifeAtDelivery {
		return RankedRoute{}, false
	}

	return RankedRoute{
		Path:                   nodes,
		Legs:                   legs,
		TotalCostPerUnit:       cost,
		TotalTransitDays:       transit,
		Hops:                   len(legs),
		ArrivalState:           state,
		RemainingShelfLifeDays: remaining,
	}, true
}

func sortRoutes(paths []RankedRoute, by RankBy) {
	sort.Slice(paths, func(i, j int) bool {
		a, b := paths[i], paths[j]
		switch by {
		case RankTimeCost:
			if a.TotalTransitDays != b.TotalTransitDays {
				return a.TotalTransitDays < b.TotalTransitDays
			}
			return a.TotalCostPerUnit < b.TotalCostPerUnit
		case RankHopsCost:
			if a.Hops != b.Hops {
				return a.Hops < b.Hops
			}
			return a.TotalCostPerUnit < b.TotalCostPerUnit
		default: // RankCostTime
			if a.TotalCostPerUnit != b.TotalCostPerUnit {
				return a.TotalCostPerUnit < b.TotalCostPerUnit
			}
			return a.TotalTransitDays < b.TotalTransitDays
		}
	})
}
