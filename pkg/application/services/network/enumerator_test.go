package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/services"
)

func demoEnumerator(t *testing.T, config EnumeratorConfig) *Enumerator {
	t.Helper()
	g, err := Build(demoNodes(), demoRoutes(), nil)
	require.NoError(t, err)
	return NewEnumerator(g, services.NewShelfLifeStateMachine(), config)
}

func TestEnumerateDirectAmbientRoute(t *testing.T) {
	e := demoEnumerator(t, EnumeratorConfig{})

	ranked := e.Enumerate("6122", []entities.NodeID{"6104"})
	require.Len(t, ranked["6104"], 1)

	rr := ranked["6104"][0]
	assert.Equal(t, []entities.NodeID{"6122", "6104"}, rr.Path)
	assert.Equal(t, 1, rr.Hops)
	assert.Equal(t, entities.Ambient, rr.ArrivalState)
	assert.InDelta(t, 1.0, rr.TotalTransitDays, 1e-9)
	assert.InDelta(t, float64(entities.AmbientShelfLifeDays)-1.0, rr.RemainingShelfLifeDays, 1e-9)
}

func TestEnumerateFrozenBufferRouteThawsOnDelivery(t *testing.T) {
	e := demoEnumerator(t, EnumeratorConfig{})

	ranked := e.Enumerate("6122", []entities.NodeID{"6130"})
	require.Len(t, ranked["6130"], 1)

	// Frozen the whole way, thawed on receipt at the ambient-only breadroom.
	// The thaw resets shelf life to the thawed budget, not the ambient one.
	rr := ranked["6130"][0]
	assert.Equal(t, []entities.NodeID{"6122", "LINEAGE", "6130"}, rr.Path)
	assert.Equal(t, entities.Thawed, rr.ArrivalState)
	assert.InDelta(t, 2.5, rr.TotalTransitDays, 1e-9)
	assert.InDelta(t, float64(entities.ThawedShelfLifeDays)-2.5, rr.RemainingShelfLifeDays, 1e-9)
}

func TestEnumerateShelfLifeFloorDiscardsPaths(t *testing.T) {
	// 11.5 days remain on the frozen-buffer path; a floor of 12 kills it
	// while the direct ambient route to 6104 survives.
	e := demoEnumerator(t, EnumeratorConfig{MinShelfLifeAtDelivery: 12})

	ranked := e.Enumerate("6122", []entities.NodeID{"6104", "6130"})
	assert.Len(t, ranked["6104"], 1)
	assert.Empty(t, ranked["6130"])
}

func TestEnumerateUnreachableDestinationIsEmptyNotError(t *testing.T) {
	e := demoEnumerator(t, EnumeratorConfig{})

	ranked := e.Enumerate("6130", []entities.NodeID{"6104"})
	list, present := ranked["6104"]
	assert.True(t, present)
	assert.Empty(t, list)
}

func TestEnumerateMaxHopsBound(t *testing.T) {
	e := demoEnumerator(t, EnumeratorConfig{MaxHops: 1})

	ranked := e.Enumerate("6122", []entities.NodeID{"6104", "6130"})
	assert.Len(t, ranked["6104"], 1)
	assert.Empty(t, ranked["6130"], "two-hop path must be cut off at MaxHops=1")
}

func TestEnumerateRanking(t *testing.T) {
	// Parallel routes to the same destination with opposing cost/time order.
	nodes := []entities.Node{
		{ID: "A", CanProduce: true, CanStore: true, StorageMode: entities.StorageBoth, ProductionRatePerHour: 1, ProductionState: entities.Ambient},
		{ID: "H", CanStore: true, StorageMode: entities.StorageAmbientOnly},
		{ID: "B", CanStore: true, HasDemand: true, StorageMode: entities.StorageAmbientOnly},
	}
	routes := []entities.Route{
		{Origin: "A", Destination: "B", Mode: entities.TransportAmbient, TransitDays: 3, CostPerUnit: 1},
		{Origin: "A", Destination: "H", Mode: entities.TransportAmbient, TransitDays: 0.5, CostPerUnit: 2},
		{Origin: "H", Destination: "B", Mode: entities.TransportAmbient, TransitDays: 0.5, CostPerUnit: 2},
	}
	g, err := Build(nodes, routes, nil)
	require.NoError(t, err)
	states := services.NewShelfLifeStateMachine()

	byCost := NewEnumerator(g, states, EnumeratorConfig{RankBy: RankCostTime})
	ranked := byCost.Enumerate("A", []entities.NodeID{"B"})
	require.Len(t, ranked["B"], 2)
	assert.InDelta(t, 1.0, ranked["B"][0].TotalCostPerUnit, 1e-9)

	byTime := NewEnumerator(g, states, EnumeratorConfig{RankBy: RankTimeCost})
	ranked = byTime.Enumerate("A", []entities.NodeID{"B"})
	require.Len(t, ranked["B"], 2)
	assert.InDelta(t, 1.0, ranked["B"][0].TotalTransitDays, 1e-9)
}

func TestEnumerateTopK(t *testing.T) {
	nodes := []entities.Node{
		{ID: "A", CanProduce: true, CanStore: true, StorageMode: entities.StorageBoth, ProductionRatePerHour: 1, ProductionState: entities.Ambient},
		{ID: "H1", CanStore: true, StorageMode: entities.StorageAmbientOnly},
		{ID: "H2", CanStore: true, StorageMode: entities.StorageAmbientOnly},
		{ID: "B", CanStore: true, HasDemand: true, StorageMode: entities.StorageAmbientOnly},
	}
	routes := []entities.Route{
		{Origin: "A", Destination: "B", Mode: entities.TransportAmbient, TransitDays: 1, CostPerUnit: 1},
		{Origin: "A", Destination: "H1", Mode: entities.TransportAmbient, TransitDays: 1, CostPerUnit: 1},
		{Origin: "H1", Destination: "B", Mode: entities.TransportAmbient, TransitDays: 1, CostPerUnit: 1},
		{Origin: "A", Destination: "H2", Mode: entities.TransportAmbient, TransitDays: 1, CostPerUnit: 1},
		{Origin: "H2", Destination: "B", Mode: entities.TransportAmbient, TransitDays: 1, CostPerUnit: 1},
	}
	g, err := Build(nodes, routes, nil)
	require.NoError(t, err)

	e := NewEnumerator(g, services.NewShelfLifeStateMachine(), EnumeratorConfig{TopK: 2})
	ranked := e.Enumerate("A", []entities.NodeID{"B"})
	assert.Len(t, ranked["B"], 2)
}
