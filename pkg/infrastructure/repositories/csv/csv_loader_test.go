package csv

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadNodes(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "nodes.csv", `id,name,can_produce,can_store,has_demand,requires_trucks,storage_mode,production_rate_per_hour,production_state
6122,Manufacturing,true,true,false,true,both,1400,ambient
LINEAGE,Cold Storage,false,true,false,false,frozen-only,,
`)

	nodes, err := NewLoader().LoadNodes(path)
	if err != nil {
		t.Fatalf("LoadNodes failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}

	plant := nodes[0]
	if plant.ID != "6122" || !plant.CanProduce || !plant.RequiresTrucks {
		t.Errorf("unexpected plant node: %+v", plant)
	}
	if plant.ProductionRatePerHour != 1400 {
		t.Errorf("expected rate 1400, got %v", plant.ProductionRatePerHour)
	}
	if plant.StorageMode != entities.StorageBoth {
		t.Errorf("expected storage mode both, got %v", plant.StorageMode)
	}

	buffer := nodes[1]
	if buffer.StorageMode != entities.StorageFrozenOnly {
		t.Errorf("expected frozen-only storage, got %v", buffer.StorageMode)
	}
	if buffer.ProductionRatePerHour != 0 {
		t.Errorf("expected empty rate to parse as zero, got %v", buffer.ProductionRatePerHour)
	}
}

func TestLoadNodesRejectsBadHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "nodes.csv", `id,label
6122,Manufacturing
`)
	if _, err := NewLoader().LoadNodes(path); err == nil {
		t.Error("expected header mismatch error")
	}
}

func TestLoadRoutes(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "routes.csv", `origin,destination,mode,transit_days,cost_per_unit
6122,6104,ambient,1.0,0.05
6122,LINEAGE,frozen,0.5,0.03
`)

	routes, err := NewLoader().LoadRoutes(path)
	if err != nil {
		t.Fatalf("LoadRoutes failed: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(routes))
	}
	if routes[0].Mode != entities.TransportAmbient {
		t.Errorf("expected ambient transport, got %v", routes[0].Mode)
	}
	if routes[1].Mode != entities.TransportFrozen || routes[1].TransitDays != 0.5 {
		t.Errorf("unexpected frozen route: %+v", routes[1])
	}
}

func TestLoadTrucksWeekdays(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "trucks.csv", `id,origin,destination,days_of_week,capacity_units,fixed_cost,cost_per_unit
T1,6122,6104,monday|wednesday|friday,14080,400,0.01
T2,6122,LINEAGE,,14080,350,0.01
`)

	trucks, err := NewLoader().LoadTrucks(path)
	if err != nil {
		t.Fatalf("LoadTrucks failed: %v", err)
	}
	if len(trucks) != 2 {
		t.Fatalf("expected 2 trucks, got %d", len(trucks))
	}

	want := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	if len(trucks[0].DaysOfWeek) != len(want) {
		t.Fatalf("expected %d weekdays, got %d", len(want), len(trucks[0].DaysOfWeek))
	}
	for i, day := range want {
		if trucks[0].DaysOfWeek[i] != day {
			t.Errorf("weekday %d: expected %v, got %v", i, day, trucks[0].DaysOfWeek[i])
		}
	}
	// Empty days_of_week means a daily departure.
	if trucks[1].DaysOfWeek != nil {
		t.Errorf("expected nil weekdays for daily truck, got %v", trucks[1].DaysOfWeek)
	}
}

func TestLoadTrucksRejectsBadWeekday(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "trucks.csv", `id,origin,destination,days_of_week,capacity_units,fixed_cost,cost_per_unit
T1,6122,6104,funday,14080,400,0.01
`)
	if _, err := NewLoader().LoadTrucks(path); err == nil {
		t.Error("expected invalid weekday error")
	}
}

func TestLoadForecast(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "forecast.csv", `node,product,date,quantity
6104,BREAD_WHITE,2025-06-02,3200
6130,BREAD_WHITE,2025-06-03,900
`)

	entries, err := NewLoader().LoadForecast(path)
	if err != nil {
		t.Fatalf("LoadForecast failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	wantDate := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if !entries[0].Date.Equal(wantDate) {
		t.Errorf("expected date %v, got %v", wantDate, entries[0].Date)
	}
	if entries[0].Quantity != 3200 {
		t.Errorf("expected quantity 3200, got %v", entries[0].Quantity)
	}
}

func TestLoadLabor(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "labor.csv", `date,fixed_hours,overtime_ceiling,regular_rate,overtime_rate
2025-06-02,12,2,25,37.5
`)

	days, err := NewLoader().LoadLabor(path)
	if err != nil {
		t.Fatalf("LoadLabor failed: %v", err)
	}
	day, ok := days[time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)]
	if !ok {
		t.Fatal("expected entry for 2025-06-02")
	}
	if !day.IsProductionDay || day.FixedHours != 12 || day.OvertimeCeiling != 2 {
		t.Errorf("unexpected labor day: %+v", day)
	}
	if day.OvertimeRate != 37.5 {
		t.Errorf("expected overtime rate 37.5, got %v", day.OvertimeRate)
	}
}

func TestLoadInitialInventory(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "inventory.csv", `node,product,production_date,state,units
LINEAGE,BREAD_WHITE,2025-05-20,frozen,5000
`)

	inv, err := NewLoader().LoadInitialInventory(path)
	if err != nil {
		t.Fatalf("LoadInitialInventory failed: %v", err)
	}
	if len(inv) != 1 {
		t.Fatalf("expected 1 lot, got %d", len(inv))
	}
	if inv[0].State != entities.Frozen || inv[0].Units != 5000 {
		t.Errorf("unexpected lot: %+v", inv[0])
	}
}

func TestLoadCosts(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "costs.csv", `production_per_unit,storage_frozen_per_unit_day,storage_ambient_per_unit_day,shortage_penalty_per_unit
0.80,0.02,0.005,10
`)

	costs, err := NewLoader().LoadCosts(path)
	if err != nil {
		t.Fatalf("LoadCosts failed: %v", err)
	}
	if costs.ProductionPerUnit.String() != "0.8" {
		t.Errorf("expected production cost 0.8, got %s", costs.ProductionPerUnit)
	}
	if costs.ShortagePenaltyPerUnit.String() != "10" {
		t.Errorf("expected shortage penalty 10, got %s", costs.ShortagePenaltyPerUnit)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := NewLoader().LoadNodes(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
