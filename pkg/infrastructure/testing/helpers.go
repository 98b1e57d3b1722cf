package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
	"github.com/sverzijl/planning-latest-sub005/pkg/infrastructure/repositories/memory"
)

// Scenario bundles the repositories for one planning scenario
type Scenario struct {
	Forecast *memory.ForecastRepository
	Labor    *memory.LaborCalendar
	Costs    *memory.CostRepository
	Network  *memory.NetworkRepository
	Start    time.Time
}

// BuildDemoScenario builds the three-echelon demo network: a manufacturing
// site shipping ambient product directly to one breadroom, and frozen product
// through a cold-storage buffer to a remote breadroom where it thaws on
// receipt.
func BuildDemoScenario() *Scenario {
	forecastRepo := memory.NewForecastRepository()
	laborCal := memory.NewLaborCalendar()
	costRepo := memory.NewCostRepository()
	networkRepo := memory.NewNetworkRepository()

	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC) // a Monday

	nodes := []entities.Node{
		{
			ID:                    "6122",
			Name:                  "Manufacturing",
			CanProduce:            true,
			CanStore:              true,
			RequiresTrucks:        true,
			StorageMode:           entities.StorageBoth,
			ProductionRatePerHour: 1400,
			ProductionState:       entities.Ambient,
		},
		{
			ID:          "LINEAGE",
			Name:        "Cold Storage Buffer",
			CanStore:    true,
			StorageMode: entities.StorageFrozenOnly,
		},
		{
			ID:          "6104",
			Name:        "Breadroom NSW",
			CanStore:    true,
			HasDemand:   true,
			StorageMode: entities.StorageAmbientOnly,
		},
		{
			ID:          "6130",
			Name:        "Breadroom WA",
			CanStore:    true,
			HasDemand:   true,
			StorageMode: entities.StorageAmbientOnly,
		},
	}

	routes := []entities.Route{
		{
			Origin:      "6122",
			Destination: "6104",
			Mode:        entities.TransportAmbient,
			TransitDays: 1.0,
			CostPerUnit: 0.05,
		},
		{
			Origin:      "6122",
			Destination: "LINEAGE",
			Mode:        entities.TransportFrozen,
			TransitDays: 0.5,
			CostPerUnit: 0.03,
		},
		{
			Origin:      "LINEAGE",
			Destination: "6130",
			Mode:        entities.TransportFrozen,
			TransitDays: 2.0,
			CostPerUnit: 0.12,
		},
	}

	trucks := []entities.TruckSchedule{
		{
			ID:            "T-6104-AM",
			Origin:        "6122",
			Destination:   "6104",
			DaysOfWeek:    []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
			CapacityUnits: 14080,
			FixedCost:     400,
			CostPerUnit:   0.01,
		},
		{
			ID:            "T-LIN-PM",
			Origin:        "6122",
			Destination:   "LINEAGE",
			DaysOfWeek:    []time.Weekday{time.Monday, time.Wednesday, time.Friday},
			CapacityUnits: 14080,
			FixedCost:     350,
			CostPerUnit:   0.01,
		},
	}

	if err := networkRepo.LoadNodes(nodes); err != nil {
		panic(err)
	}
	if err := networkRepo.LoadRoutes(routes); err != nil {
		panic(err)
	}
	if err := networkRepo.LoadTrucks(trucks); err != nil {
		panic(err)
	}

	// Two weeks of weekday demand at both breadrooms.
	var entries []entities.ForecastEntry
	for day := 0; day < 14; day++ {
		date := entities.AddDays(start, day)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		entries = append(entries,
			entities.ForecastEntry{Node: "6104", Product: "BREAD_WHITE", Date: date, Quantity: 3200},
			entities.ForecastEntry{Node: "6104", Product: "BREAD_MULTI", Date: date, Quantity: 1100},
			entities.ForecastEntry{Node: "6130", Product: "BREAD_WHITE", Date: date, Quantity: 900},
		)
	}
	if err := forecastRepo.LoadEntries(entries); err != nil {
		panic(err)
	}

	// Weekday production with overtime headroom; weekends idle.
	days := make(map[time.Time]entities.LaborDay)
	for day := -3; day < 21; day++ {
		date := entities.AddDays(start, day)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		days[date] = entities.LaborDay{
			IsProductionDay: true,
			FixedHours:      12,
			OvertimeCeiling: 2,
			RegularRate:     25,
			OvertimeRate:    37.5,
		}
	}
	if err := laborCal.LoadDays(days); err != nil {
		panic(err)
	}

	if err := costRepo.LoadCostStructure(entities.CostStructure{
		ProductionPerUnit:        decimal.NewFromFloat(0.80),
		StorageFrozenPerUnitDay:  decimal.NewFromFloat(0.02),
		StorageAmbientPerUnitDay: decimal.NewFromFloat(0.005),
		ShortagePenaltyPerUnit:   decimal.NewFromFloat(10),
	}); err != nil {
		panic(err)
	}

	return &Scenario{
		Forecast: forecastRepo,
		Labor:    laborCal,
		Costs:    costRepo,
		Network:  networkRepo,
		Start:    start,
	}
}

// BuildSmallScenario builds a two-node network for basic tests: one producer
// shipping ambient product over a single untrucked leg to one demand node.
func BuildSmallScenario() *Scenario {
	forecastRepo := memory.NewForecastRepository()
	laborCal := memory.NewLaborCalendar()
	costRepo := memory.NewCostRepository()
	networkRepo := memory.NewNetworkRepository()

	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	nodes := []entities.Node{
		{
			ID:                    "PLANT",
			Name:                  "Plant",
			CanProduce:            true,
			CanStore:              true,
			StorageMode:           entities.StorageBoth,
			ProductionRatePerHour: 100,
			ProductionState:       entities.Ambient,
		},
		{
			ID:          "STORE",
			Name:        "Store",
			CanStore:    true,
			HasDemand:   true,
			StorageMode: entities.StorageAmbientOnly,
		},
	}
	routes := []entities.Route{
		{
			Origin:      "PLANT",
			Destination: "STORE",
			Mode:        entities.TransportAmbient,
			TransitDays: 1.0,
			CostPerUnit: 0.10,
		},
	}

	if err := networkRepo.LoadNodes(nodes); err != nil {
		panic(err)
	}
	if err := networkRepo.LoadRoutes(routes); err != nil {
		panic(err)
	}

	if err := forecastRepo.LoadEntries([]entities.ForecastEntry{
		{Node: "STORE", Product: "LOAF", Date: entities.AddDays(start, 2), Quantity: 500},
		{Node: "STORE", Product: "LOAF", Date: entities.AddDays(start, 3), Quantity: 300},
	}); err != nil {
		panic(err)
	}

	days := make(map[time.Time]entities.LaborDay)
	for day := 0; day < 7; day++ {
		days[entities.AddDays(start, day)] = entities.LaborDay{
			IsProductionDay: true,
			FixedHours:      8,
			OvertimeCeiling: 4,
			RegularRate:     20,
			OvertimeRate:    30,
		}
	}
	if err := laborCal.LoadDays(days); err != nil {
		panic(err)
	}

	if err := costRepo.LoadCostStructure(entities.CostStructure{
		ProductionPerUnit:        decimal.NewFromFloat(1),
		StorageFrozenPerUnitDay:  decimal.NewFromFloat(0.02),
		StorageAmbientPerUnitDay: decimal.NewFromFloat(0.01),
		ShortagePenaltyPerUnit:   decimal.NewFromFloat(25),
	}); err != nil {
		panic(err)
	}

	return &Scenario{
		Forecast: forecastRepo,
		Labor:    laborCal,
		Costs:    costRepo,
		Network:  networkRepo,
		Start:    start,
	}
}
