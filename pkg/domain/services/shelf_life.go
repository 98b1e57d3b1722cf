package services

import "github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"

// ShelfLifeStateMachine maps a transport mode and a destination's storage
// capability to the state goods are in on arrival. It is pure and total over
// every (mode, storage mode) pair.
//
// The model assumes at most one thaw event per shipment: frozen goods that
// thaw at an ambient-only destination reset to the thawed budget and a later
// re-freeze is not modeled.
type ShelfLifeStateMachine struct{}

// NewShelfLifeStateMachine creates a new shelf-life state machine
func NewShelfLifeStateMachine() *ShelfLifeStateMachine {
	return &ShelfLifeStateMachine{}
}

// ArrivalState returns the state goods are in after arriving at a node with
// the given storage mode via the given transport mode, together with the
// shelf-life budget in days that applies from that point.
//
// Ambient goods arriving at a frozen-only node are frozen on receipt and
// reset to the frozen budget. Frozen goods arriving at an ambient-only node
// thaw and reset to the thawed budget, which is strictly shorter than fresh
// ambient life. Every other combination leaves the state unchanged.
func (m *ShelfLifeStateMachine) ArrivalState(mode entities.TransportMode, storage entities.StorageMode) (entities.ProductState, int) {
	switch {
	case mode == entities.TransportAmbient && storage == entities.StorageFrozenOnly:
		return entities.Frozen, entities.FrozenShelfLifeDays
	case mode == entities.TransportFrozen && storage == entities.StorageAmbientOnly:
		return entities.Thawed, entities.ThawedShelfLifeDays
	default:
		s := mode.State()
		return s, entities.ShelfLifeDays(s)
	}
}

// ArrivalStateForRoute resolves the arrival state for a route leg given its
// destination node.
func (m *ShelfLifeStateMachine) ArrivalStateForRoute(route entities.Route, destination entities.Node) (entities.ProductState, int) {
	return m.ArrivalState(route.Mode, destination.StorageMode)
}
