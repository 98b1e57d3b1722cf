package network

import (
	"fmt"

	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
)

// Graph is the directed network of nodes, transport legs and truck schedules.
// It is immutable after Build and safe for concurrent reads.
type Graph struct {
	nodes    map[entities.NodeID]entities.Node
	outbound map[entities.NodeID][]entities.Route
	trucks   map[legKey][]entities.TruckSchedule
}

type legKey struct {
	origin      entities.NodeID
	destination entities.NodeID
}

// Build constructs a graph from a network definition and fails fast on
// dangling references. Configuration errors here are fatal: no solve may run
// against a malformed network.
func Build(nodes []entities.Node, routes []entities.Route, trucks []entities.TruckSchedule) (*Graph, error) {
	g := &Graph{
		nodes:    make(map[entities.NodeID]entities.Node, len(nodes)),
		outbound: make(map[entities.NodeID][]entities.Route, len(nodes)),
		trucks:   make(map[legKey][]entities.TruckSchedule),
	}

	for _, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node with empty ID")
		}
		if _, dup := g.nodes[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node %s", n.ID)
		}
		// Production enters the network through the producer's same-day
		// cohort, so a producer must be able to hold its output state or the
		// inventory balance has nowhere to anchor it.
		if n.CanProduce && (!n.CanStore || !n.StorageMode.Supports(n.ProductionState)) {
			return nil, fmt.Errorf("producing node %s cannot store its production state %s", n.ID, n.ProductionState)
		}
		g.nodes[n.ID] = n
	}

	for _, r := range routes {
		if _, ok := g.nodes[r.Origin]; !ok {
			return nil, fmt.Errorf("route %s->%s references unknown origin %s", r.Origin, r.Destination, r.Origin)
		}
		if _, ok := g.nodes[r.Destination]; !ok {
			return nil, fmt.Errorf("route %s->%s references unknown destination %s", r.Origin, r.Destination, r.Destination)
		}
		if r.Origin == r.Destination {
			return nil, fmt.Errorf("route %s->%s is a self-loop", r.Origin, r.Destination)
		}
		if r.TransitDays < 0 {
			return nil, fmt.Errorf("route %s->%s has negative transit time", r.Origin, r.Destination)
		}
		g.outbound[r.Origin] = append(g.outbound[r.Origin], r)
	}

	for _, t := range trucks {
		if _, ok := g.nodes[t.Origin]; !ok {
			return nil, fmt.Errorf("truck %s references unknown origin %s", t.ID, t.Origin)
		}
		if _, ok := g.nodes[t.Destination]; !ok {
			return nil, fmt.Errorf("truck %s references unknown destination %s", t.ID, t.Destination)
		}
		if t.CapacityUnits <= 0 {
			return nil, fmt.Errorf("truck %s has non-positive capacity", t.ID)
		}
		k := legKey{t.Origin, t.Destination}
		g.trucks[k] = append(g.trucks[k], t)
	}

	return g, nil
}

// Node returns the node with the given ID
func (g *Graph) Node(id entities.NodeID) (entities.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in the graph
func (g *Graph) Nodes() []entities.Node {
	out := make([]entities.Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	return out
}

// OutboundRoutes returns the transport legs leaving a node
func (g *Graph) OutboundRoutes(id entities.NodeID) []entities.Route {
	return g.outbound[id]
}

// Routes returns all transport legs in the graph
func (g *Graph) Routes() []entities.Route {
	var out []entities.Route
	for _, legs := range g.outbound {
		out = append(out, legs...)
	}
	return out
}

// TrucksOnLeg returns the truck schedules serving one leg
func (g *Graph) TrucksOnLeg(origin, destination entities.NodeID) []entities.TruckSchedule {
	return g.trucks[legKey{origin, destination}]
}

// Trucks returns all truck schedules in the graph
func (g *Graph) Trucks() []entities.TruckSchedule {
	var out []entities.TruckSchedule
	for _, ts := range g.trucks {
		out = append(out, ts...)
	}
	return out
}

// Reachable returns the set of nodes reachable from origin by any number of
// hops, excluding the origin itself.
func (g *Graph) Reachable(origin entities.NodeID) map[entities.NodeID]bool {
	reached := make(map[entities.NodeID]bool)
	queue := []entities.NodeID{origin}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, leg := range g.outbound[cur] {
			if leg.Destination == origin || reached[leg.Destination] {
				continue
			}
			reached[leg.Destination] = true
			queue = append(queue, leg.Destination)
		}
	}
	return reached
}

// HopCount returns the minimum number of legs from origin to destination,
// or -1 when the destination is unreachable.
func (g *Graph) HopCount(origin, destination entities.NodeID) int {
	if origin == destination {
		return 0
	}
	type visit struct {
		node entities.NodeID
		hops int
	}
	seen := map[entities.NodeID]bool{origin: true}
	queue := []visit{{origin, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, leg := range g.outbound[cur.node] {
			if leg.Destination == destination {
				return cur.hops + 1
			}
			if !seen[leg.Destination] {
				seen[leg.Destination] = true
				queue = append(queue, visit{leg.Destination, cur.hops + 1})
			}
		}
	}
	return -1
}

// DemandNodes returns all nodes flagged as demand locations
func (g *Graph) DemandNodes() []entities.Node {
	var out []entities.Node
	for _, n := range g.nodes {
		if n.HasDemand {
			out = append(out, n)
		}
	}
	return out
}

// ValidateForecast fails fast when forecast entries reference unknown nodes
func (g *Graph) ValidateForecast(entries []entities.ForecastEntry) error {
	for _, e := range entries {
		n, ok := g.nodes[e.Node]
		if !ok {
			return fmt.Errorf("forecast references unknown node %s", e.Node)
		}
		if !n.HasDemand {
			return fmt.Errorf("forecast for node %s which has no demand flag", e.Node)
		}
	}
	return nil
}
