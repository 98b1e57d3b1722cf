package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
)

func demoNodes() []entities.Node {
	return []entities.Node{
		{ID: "6122", Name: "Manufacturing", CanProduce: true, CanStore: true, RequiresTrucks: true,
			StorageMode: entities.StorageBoth, ProductionRatePerHour: 1400, ProductionState: entities.Ambient},
		{ID: "LINEAGE", Name: "Cold Storage", CanStore: true, StorageMode: entities.StorageFrozenOnly},
		{ID: "6104", Name: "Breadroom NSW", CanStore: true, HasDemand: true, StorageMode: entities.StorageAmbientOnly},
		{ID: "6130", Name: "Breadroom WA", CanStore: true, HasDemand: true, StorageMode: entities.StorageAmbientOnly},
	}
}

func demoRoutes() []entities.Route {
	return []entities.Route{
		{Origin: "6122", Destination: "6104", Mode: entities.TransportAmbient, TransitDays: 1.0, CostPerUnit: 0.05},
		{Origin: "6122", Destination: "LINEAGE", Mode: entities.TransportFrozen, TransitDays: 0.5, CostPerUnit: 0.03},
		{Origin: "LINEAGE", Destination: "6130", Mode: entities.TransportFrozen, TransitDays: 2.0, CostPerUnit: 0.12},
	}
}

func TestBuildRejectsMalformedNetworks(t *testing.T) {
	valid := demoNodes()

	tests := []struct {
		name   string
		nodes  []entities.Node
		routes []entities.Route
		trucks []entities.TruckSchedule
	}{
		{
			name:  "empty node ID",
			nodes: []entities.Node{{ID: ""}},
		},
		{
			name:  "duplicate node",
			nodes: []entities.Node{{ID: "A"}, {ID: "A"}},
		},
		{
			name:   "unknown route origin",
			nodes:  valid,
			routes: []entities.Route{{Origin: "NOWHERE", Destination: "6104"}},
		},
		{
			name:   "unknown route destination",
			nodes:  valid,
			routes: []entities.Route{{Origin: "6122", Destination: "NOWHERE"}},
		},
		{
			name:   "self loop",
			nodes:  valid,
			routes: []entities.Route{{Origin: "6122", Destination: "6122"}},
		},
		{
			name:   "negative transit",
			nodes:  valid,
			routes: []entities.Route{{Origin: "6122", Destination: "6104", TransitDays: -1}},
		},
		{
			name: "producer without storage",
			nodes: []entities.Node{{ID: "P", CanProduce: true, CanStore: false,
				ProductionRatePerHour: 100, ProductionState: entities.Ambient}},
		},
		{
			name: "producer cannot store its output state",
			nodes: []entities.Node{{ID: "P", CanProduce: true, CanStore: true,
				StorageMode: entities.StorageFrozenOnly, ProductionRatePerHour: 100,
				ProductionState: entities.Ambient}},
		},
		{
			name:   "unknown truck origin",
			nodes:  valid,
			trucks: []entities.TruckSchedule{{ID: "T1", Origin: "NOWHERE", Destination: "6104", CapacityUnits: 100}},
		},
		{
			name:   "non-positive truck capacity",
			nodes:  valid,
			trucks: []entities.TruckSchedule{{ID: "T1", Origin: "6122", Destination: "6104", CapacityUnits: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.nodes, tt.routes, tt.trucks)
			assert.Error(t, err)
		})
	}
}

func TestBuildValidNetwork(t *testing.T) {
	g, err := Build(demoNodes(), demoRoutes(), []entities.TruckSchedule{
		{ID: "T1", Origin: "6122", Destination: "LINEAGE", CapacityUnits: 14080},
	})
	require.NoError(t, err)

	node, ok := g.Node("6122")
	require.True(t, ok)
	assert.True(t, node.CanProduce)

	assert.Len(t, g.OutboundRoutes("6122"), 2)
	assert.Len(t, g.OutboundRoutes("6130"), 0)
	assert.Len(t, g.TrucksOnLeg("6122", "LINEAGE"), 1)
	assert.Empty(t, g.TrucksOnLeg("6122", "6104"))
	assert.Len(t, g.DemandNodes(), 2)
}

func TestReachableAndHopCount(t *testing.T) {
	g, err := Build(demoNodes(), demoRoutes(), nil)
	require.NoError(t, err)

	reached := g.Reachable("6122")
	assert.True(t, reached["6104"])
	assert.True(t, reached["LINEAGE"])
	assert.True(t, reached["6130"])
	assert.False(t, reached["6122"])

	assert.Equal(t, 1, g.HopCount("6122", "6104"))
	assert.Equal(t, 2, g.HopCount("6122", "6130"))
	assert.Equal(t, 0, g.HopCount("6122", "6122"))
	assert.Equal(t, -1, g.HopCount("6130", "6122"))
}

func TestValidateForecast(t *testing.T) {
	g, err := Build(demoNodes(), demoRoutes(), nil)
	require.NoError(t, err)

	assert.NoError(t, g.ValidateForecast([]entities.ForecastEntry{
		{Node: "6104", Product: "BREAD_WHITE", Quantity: 100},
	}))
	assert.Error(t, g.ValidateForecast([]entities.ForecastEntry{
		{Node: "NOWHERE", Product: "BREAD_WHITE", Quantity: 100},
	}))
	// Non-demand nodes must not carry forecast rows.
	assert.Error(t, g.ValidateForecast([]entities.ForecastEntry{
		{Node: "LINEAGE", Product: "BREAD_WHITE", Quantity: 100},
	}))
}
