package memory

import (
	"testing"
	"time"

	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
)

func TestNetworkRepositoryRoundTrip(t *testing.T) {
	repo := NewNetworkRepository()

	if err := repo.LoadNodes([]entities.Node{{ID: "A", Name: "Plant", CanProduce: true}}); err != nil {
		t.Fatalf("LoadNodes failed: %v", err)
	}
	if err := repo.LoadRoutes([]entities.Route{{Origin: "A", Destination: "B", TransitDays: 1}}); err != nil {
		t.Fatalf("LoadRoutes failed: %v", err)
	}
	if err := repo.LoadTrucks([]entities.TruckSchedule{{ID: "T1", Origin: "A", Destination: "B", CapacityUnits: 100}}); err != nil {
		t.Fatalf("LoadTrucks failed: %v", err)
	}

	nodes, err := repo.GetNodes()
	if err != nil || len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d (err %v)", len(nodes), err)
	}
	routes, err := repo.GetRoutes()
	if err != nil || len(routes) != 1 {
		t.Fatalf("expected 1 route, got %d (err %v)", len(routes), err)
	}
	trucks, err := repo.GetTrucks()
	if err != nil || len(trucks) != 1 {
		t.Fatalf("expected 1 truck, got %d (err %v)", len(trucks), err)
	}
}

func TestNetworkRepositoryNormalizesInventoryDates(t *testing.T) {
	repo := NewNetworkRepository()
	noon := time.Date(2025, 5, 28, 15, 45, 0, 0, time.UTC)

	err := repo.LoadInitialInventory([]entities.InitialInventory{
		{Node: "A", Product: "P", ProductionDate: noon, State: entities.Frozen, Units: 500},
	})
	if err != nil {
		t.Fatalf("LoadInitialInventory failed: %v", err)
	}

	inv, err := repo.GetInitialInventory()
	if err != nil {
		t.Fatalf("GetInitialInventory failed: %v", err)
	}
	if len(inv) != 1 {
		t.Fatalf("expected 1 lot, got %d", len(inv))
	}
	want := time.Date(2025, 5, 28, 0, 0, 0, 0, time.UTC)
	if !inv[0].ProductionDate.Equal(want) {
		t.Errorf("expected production date normalized to midnight, got %v", inv[0].ProductionDate)
	}
}
