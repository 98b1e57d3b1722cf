package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sverzijl/planning-latest-sub005/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	SolveTime time.Duration
}

// Generate creates output in the specified format
func Generate(result *dto.PlanResult, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(result, config)
	case "json":
		return generateJSONOutput(result, config)
	case "csv":
		return generateCSVOutput(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(result *dto.PlanResult, config Config) error {
	fmt.Printf("Plan Summary\n")
	fmt.Printf("============\n\n")

	fmt.Printf("Horizon: %s to %s\n",
		result.HorizonStart.Format("2006-01-02"),
		result.HorizonEnd.Format("2006-01-02"))
	fmt.Printf("Status: %s\n", result.Status)
	fmt.Printf("Objective: %.2f (gap %.4f)\n", result.Objective, result.Gap)
	if config.SolveTime > 0 {
		fmt.Printf("Solve Time: %v\n", config.SolveTime)
	}
	fmt.Println()

	if len(result.Production) > 0 {
		fmt.Printf("Production Runs:\n")
		fmt.Printf("%-12s %-10s %-12s %12s\n", "Date", "Node", "Product", "Units")
		fmt.Printf("%-12s %-10s %-12s %12s\n", "------------", "----------", "------------", "------------")
		for _, line := range result.Production {
			fmt.Printf("%-12s %-10s %-12s %12.1f\n",
				line.Date.Format("2006-01-02"),
				line.Node,
				line.Product,
				line.Units)
		}
		fmt.Println()
	}

	if len(result.Shipments) > 0 {
		fmt.Printf("Shipments:\n")
		fmt.Printf("%-12s %-10s %-10s %-12s %-10s %12s\n",
			"Delivery", "Origin", "Dest", "Product", "State", "Units")
		fmt.Printf("%-12s %-10s %-10s %-12s %-10s %12s\n",
			"------------", "----------", "----------", "------------", "----------", "------------")
		for _, line := range result.Shipments {
			fmt.Printf("%-12s %-10s %-10s %-12s %-10s %12.1f\n",
				line.DeliveryDate.Format("2006-01-02"),
				line.Origin,
				line.Destination,
				line.Product,
				line.ArrivalStateS,
				line.Units)
		}
		fmt.Println()
	}

	if len(result.Shortages) > 0 {
		fmt.Printf("Shortages:\n")
		fmt.Printf("%-12s %-10s %-12s %12s\n", "Date", "Node", "Product", "Units")
		fmt.Printf("%-12s %-10s %-12s %12s\n", "------------", "----------", "------------", "------------")
		for _, line := range result.Shortages {
			fmt.Printf("%-12s %-10s %-12s %12.1f\n",
				line.Date.Format("2006-01-02"),
				line.Node,
				line.Product,
				line.Units)
		}
		fmt.Println()
	}

	fmt.Printf("Cost Breakdown:\n")
	fmt.Printf("  Production: %s\n", result.Costs.Production)
	fmt.Printf("  Transport:  %s\n", result.Costs.Transport)
	fmt.Printf("  Storage:    %s\n", result.Costs.Storage)
	fmt.Printf("  Labor:      %s\n", result.Costs.Labor)
	fmt.Printf("  Trucks:     %s\n", result.Costs.Trucks)
	fmt.Printf("  Shortage:   %s\n", result.Costs.Shortage)
	fmt.Printf("  Total:      %s\n", result.Costs.Total)

	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(result *dto.PlanResult, config Config) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Println(string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "plan.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	if config.Verbose {
		fmt.Printf("JSON plan saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput creates one CSV file per plan section
func generateCSVOutput(result *dto.PlanResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	productionFile := filepath.Join(config.OutputDir, "production.csv")
	if err := writeProductionCSV(result.Production, productionFile); err != nil {
		return fmt.Errorf("failed to write production CSV: %w", err)
	}

	shipmentsFile := filepath.Join(config.OutputDir, "shipments.csv")
	if err := writeShipmentsCSV(result.Shipments, shipmentsFile); err != nil {
		return fmt.Errorf("failed to write shipments CSV: %w", err)
	}

	shortagesFile := filepath.Join(config.OutputDir, "shortages.csv")
	if err := writeShortagesCSV(result.Shortages, shortagesFile); err != nil {
		return fmt.Errorf("failed to write shortages CSV: %w", err)
	}

	if config.Verbose {
		fmt.Printf("CSV plan saved to:\n")
		fmt.Printf("  Production: %s\n", productionFile)
		fmt.Printf("  Shipments:  %s\n", shipmentsFile)
		fmt.Printf("  Shortages:  %s\n", shortagesFile)
	}
	return nil
}

func writeProductionCSV(lines []dto.ProductionLine, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "node", "product", "units"}); err != nil {
		return err
	}
	for _, line := range lines {
		record := []string{
			line.Date.Format("2006-01-02"),
			string(line.Node),
			string(line.Product),
			fmt.Sprintf("%.2f", line.Units),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeShipmentsCSV(lines []dto.ShipmentLine, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"delivery_date", "origin", "destination", "product", "production_date", "arrival_state", "units"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, line := range lines {
		record := []string{
			line.DeliveryDate.Format("2006-01-02"),
			string(line.Origin),
			string(line.Destination),
			string(line.Product),
			line.ProductionDate.Format("2006-01-02"),
			line.ArrivalStateS,
			fmt.Sprintf("%.2f", line.Units),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeShortagesCSV(lines []dto.ShortageLine, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "node", "product", "units"}); err != nil {
		return err
	}
	for _, line := range lines {
		record := []string{
			line.Date.Format("2006-01-02"),
			string(line.Node),
			string(line.Product),
			fmt.Sprintf("%.2f", line.Units),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
