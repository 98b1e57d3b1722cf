package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
)

// Loader handles loading planning scenario data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadNodes loads network nodes from a CSV file
func (l *Loader) LoadNodes(filename string) ([]entities.Node, error) {
	records, err := readAll(filename, "nodes")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"id", "name", "can_produce", "can_store", "has_demand", "requires_trucks", "storage_mode", "production_rate_per_hour", "production_state"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("nodes CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var nodes []entities.Node
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("nodes CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		node, err := parseNode(record)
		if err != nil {
			return nil, fmt.Errorf("nodes CSV row %d: %w", i+2, err)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// LoadRoutes loads network routes from a CSV file
func (l *Loader) LoadRoutes(filename string) ([]entities.Route, error) {
	records, err := readAll(filename, "routes")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"origin", "destination", "mode", "transit_days", "cost_per_unit"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("routes CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var routes []entities.Route
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("routes CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		mode, err := parseTransportMode(record[2])
		if err != nil {
			return nil, fmt.Errorf("routes CSV row %d: %w", i+2, err)
		}
		transitDays, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("routes CSV row %d: invalid transit_days: %s", i+2, record[3])
		}
		costPerUnit, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return nil, fmt.Errorf("routes CSV row %d: invalid cost_per_unit: %s", i+2, record[4])
		}

		routes = append(routes, entities.Route{
			Origin:      entities.NodeID(record[0]),
			Destination: entities.NodeID(record[1]),
			Mode:        mode,
			TransitDays: transitDays,
			CostPerUnit: costPerUnit,
		})
	}
	return routes, nil
}

// LoadTrucks loads truck schedules from a CSV file. The days_of_week column
// holds pipe-separated weekday names; empty means a daily departure.
func (l *Loader) LoadTrucks(filename string) ([]entities.TruckSchedule, error) {
	records, err := readAll(filename, "trucks")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"id", "origin", "destination", "days_of_week", "capacity_units", "fixed_cost", "cost_per_unit"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("trucks CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var trucks []entities.TruckSchedule
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("trucks CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		daysOfWeek, err := parseWeekdays(record[3])
		if err != nil {
			return nil, fmt.Errorf("trucks CSV row %d: %w", i+2, err)
		}
		capacity, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return nil, fmt.Errorf("trucks CSV row %d: invalid capacity_units: %s", i+2, record[4])
		}
		fixedCost, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			return nil, fmt.Errorf("trucks CSV row %d: invalid fixed_cost: %s", i+2, record[5])
		}
		costPerUnit, err := strconv.ParseFloat(record[6], 64)
		if err != nil {
			return nil, fmt.Errorf("trucks CSV row %d: invalid cost_per_unit: %s", i+2, record[6])
		}

		trucks = append(trucks, entities.TruckSchedule{
			ID:            entities.TruckID(record[0]),
			Origin:        entities.NodeID(record[1]),
			Destination:   entities.NodeID(record[2]),
			DaysOfWeek:    daysOfWeek,
			CapacityUnits: capacity,
			FixedCost:     fixedCost,
			CostPerUnit:   costPerUnit,
		})
	}
	return trucks, nil
}

// LoadForecast loads forecast entries from a CSV file
func (l *Loader) LoadForecast(filename string) ([]entities.ForecastEntry, error) {
	records, err := readAll(filename, "forecast")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"node", "product", "date", "quantity"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("forecast CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var entries []entities.ForecastEntry
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("forecast CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		date, err := time.Parse("2006-01-02", record[2])
		if err != nil {
			return nil, fmt.Errorf("forecast CSV row %d: invalid date: %s (expected YYYY-MM-DD)", i+2, record[2])
		}
		quantity, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("forecast CSV row %d: invalid quantity: %s", i+2, record[3])
		}

		entries = append(entries, entities.ForecastEntry{
			Node:     entities.NodeID(record[0]),
			Product:  entities.ProductID(record[1]),
			Date:     date,
			Quantity: quantity,
		})
	}
	return entries, nil
}

// LoadLabor loads the labor calendar from a CSV file. Dates absent from the
// file are non-production days.
func (l *Loader) LoadLabor(filename string) (map[time.Time]entities.LaborDay, error) {
	records, err := readAll(filename, "labor")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"date", "fixed_hours", "overtime_ceiling", "regular_rate", "overtime_rate"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("labor CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	days := make(map[time.Time]entities.LaborDay)
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("labor CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		date, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			return nil, fmt.Errorf("labor CSV row %d: invalid date: %s (expected YYYY-MM-DD)", i+2, record[0])
		}
		fields := make([]float64, 4)
		for j := 0; j < 4; j++ {
			fields[j], err = strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("labor CSV row %d: invalid %s: %s", i+2, expectedHeader[j+1], record[j+1])
			}
		}

		days[entities.DayOf(date)] = entities.LaborDay{
			IsProductionDay: true,
			FixedHours:      fields[0],
			OvertimeCeiling: fields[1],
			RegularRate:     fields[2],
			OvertimeRate:    fields[3],
		}
	}
	return days, nil
}

// LoadInitialInventory loads opening inventory from a CSV file
func (l *Loader) LoadInitialInventory(filename string) ([]entities.InitialInventory, error) {
	records, err := readAll(filename, "inventory")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"node", "product", "production_date", "state", "units"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("inventory CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var inventory []entities.InitialInventory
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("inventory CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		productionDate, err := time.Parse("2006-01-02", record[2])
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: invalid production_date: %s (expected YYYY-MM-DD)", i+2, record[2])
		}
		state, err := parseProductState(record[3])
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: %w", i+2, err)
		}
		units, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: invalid units: %s", i+2, record[4])
		}

		inventory = append(inventory, entities.InitialInventory{
			Node:           entities.NodeID(record[0]),
			Product:        entities.ProductID(record[1]),
			ProductionDate: productionDate,
			State:          state,
			Units:          units,
		})
	}
	return inventory, nil
}

// LoadCosts loads the cost structure from a CSV file with a single data row
func (l *Loader) LoadCosts(filename string) (entities.CostStructure, error) {
	records, err := readAll(filename, "costs")
	if err != nil {
		return entities.CostStructure{}, err
	}

	expectedHeader := []string{"production_per_unit", "storage_frozen_per_unit_day", "storage_ambient_per_unit_day", "shortage_penalty_per_unit"}
	if !validateHeader(records[0], expectedHeader) {
		return entities.CostStructure{}, fmt.Errorf("costs CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}
	record := records[1]
	if len(record) != len(expectedHeader) {
		return entities.CostStructure{}, fmt.Errorf("costs CSV row 2: expected %d columns, got %d", len(expectedHeader), len(record))
	}

	fields := make([]decimal.Decimal, 4)
	for i := 0; i < 4; i++ {
		fields[i], err = decimal.NewFromString(record[i])
		if err != nil {
			return entities.CostStructure{}, fmt.Errorf("costs CSV row 2: invalid %s: %s", expectedHeader[i], record[i])
		}
	}

	return entities.CostStructure{
		ProductionPerUnit:        fields[0],
		StorageFrozenPerUnitDay:  fields[1],
		StorageAmbientPerUnitDay: fields[2],
		ShortagePenaltyPerUnit:   fields[3],
	}, nil
}

// Helper functions for parsing CSV records

func readAll(filename, kind string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}
	return records, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}
	return true
}

func parseNode(record []string) (entities.Node, error) {
	flags := make([]bool, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseBool(record[i+2])
		if err != nil {
			return entities.Node{}, fmt.Errorf("invalid boolean: %s", record[i+2])
		}
		flags[i] = v
	}

	storageMode, err := parseStorageMode(record[6])
	if err != nil {
		return entities.Node{}, err
	}

	rate := 0.0
	if record[7] != "" {
		rate, err = strconv.ParseFloat(record[7], 64)
		if err != nil {
			return entities.Node{}, fmt.Errorf("invalid production_rate_per_hour: %s", record[7])
		}
	}

	productionState := entities.Ambient
	if record[8] != "" {
		productionState, err = parseProductState(record[8])
		if err != nil {
			return entities.Node{}, err
		}
	}

	return entities.Node{
		ID:                    entities.NodeID(record[0]),
		Name:                  record[1],
		CanProduce:            flags[0],
		CanStore:              flags[1],
		HasDemand:             flags[2],
		RequiresTrucks:        flags[3],
		StorageMode:           storageMode,
		ProductionRatePerHour: rate,
		ProductionState:       productionState,
	}, nil
}

func parseStorageMode(s string) (entities.StorageMode, error) {
	switch strings.ToLower(s) {
	case "frozen-only":
		return entities.StorageFrozenOnly, nil
	case "ambient-only":
		return entities.StorageAmbientOnly, nil
	case "both":
		return entities.StorageBoth, nil
	default:
		return entities.StorageBoth, fmt.Errorf("invalid storage_mode: %s (expected: frozen-only, ambient-only, or both)", s)
	}
}

func parseTransportMode(s string) (entities.TransportMode, error) {
	switch strings.ToLower(s) {
	case "frozen":
		return entities.TransportFrozen, nil
	case "ambient":
		return entities.TransportAmbient, nil
	default:
		return entities.TransportAmbient, fmt.Errorf("invalid mode: %s (expected: frozen or ambient)", s)
	}
}

func parseProductState(s string) (entities.ProductState, error) {
	switch strings.ToLower(s) {
	case "frozen":
		return entities.Frozen, nil
	case "ambient":
		return entities.Ambient, nil
	case "thawed":
		return entities.Thawed, nil
	default:
		return entities.Ambient, fmt.Errorf("invalid state: %s (expected: frozen, ambient, or thawed)", s)
	}
}

func parseWeekdays(s string) ([]time.Weekday, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	names := map[string]time.Weekday{
		"sunday":    time.Sunday,
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
	}

	var days []time.Weekday
	for _, part := range strings.Split(s, "|") {
		day, ok := names[strings.ToLower(strings.TrimSpace(part))]
		if !ok {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		days = append(days, day)
	}
	return days, nil
}
