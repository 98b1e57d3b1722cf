package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sverzijl/planning-latest-sub005/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		scenarioDir = flag.String(
			"scenario",
			"",
			"Path to scenario directory containing CSV files",
		)
		configFile = flag.String("config", "", "Path to YAML planner config")
		origin     = flag.String("origin", "", "Manufacturing node ID (default: the only producer)")
		start      = flag.String("start", "", "Horizon start date YYYY-MM-DD (default: first forecast date)")
		outputDir  = flag.String("output", "", "Output directory for results (optional)")
		format     = flag.String("format", "text", "Output format: text, json, csv")
		verbose    = flag.Bool("verbose", false, "Enable verbose output")
		twoPhase   = flag.Bool("two-phase", false, "Solve the pattern model first and warm-start from it")
		rolling    = flag.Bool("rolling", false, "Run the rolling-horizon scheduler")
		days       = flag.Int("days", 7, "Number of rolling days to simulate")
		help       = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	// Create command configuration
	config := commands.Config{
		ScenarioDir: *scenarioDir,
		ConfigFile:  *configFile,
		Origin:      *origin,
		Start:       *start,
		OutputDir:   *outputDir,
		Format:      *format,
		Verbose:     *verbose,
		TwoPhase:    *twoPhase,
		Rolling:     *rolling,
		Days:        *days,
		Help:        *help,
	}

	// Create and execute command
	cmd := commands.NewPlanCommand(config)
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
