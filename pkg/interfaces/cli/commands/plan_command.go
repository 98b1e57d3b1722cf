package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/cohort"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/network"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/planning"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/rolling"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/solve"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
	"github.com/sverzijl/planning-latest-sub005/pkg/infrastructure/config"
	"github.com/sverzijl/planning-latest-sub005/pkg/infrastructure/events"
	"github.com/sverzijl/planning-latest-sub005/pkg/infrastructure/logging"
	"github.com/sverzijl/planning-latest-sub005/pkg/infrastructure/observability"
	"github.com/sverzijl/planning-latest-sub005/pkg/infrastructure/repositories/csv"
	"github.com/sverzijl/planning-latest-sub005/pkg/infrastructure/repositories/memory"
	"github.com/sverzijl/planning-latest-sub005/pkg/infrastructure/solver"
	fixtures "github.com/sverzijl/planning-latest-sub005/pkg/infrastructure/testing"
	"github.com/sverzijl/planning-latest-sub005/pkg/interfaces/cli/output"
)

// Config holds configuration for the plan command
type Config struct {
	ScenarioDir string
	ConfigFile  string
	Origin      string
	Start       string
	OutputDir   string
	Format      string
	Verbose     bool
	TwoPhase    bool
	Rolling     bool
	Days        int
	Help        bool
}

// PlanCommand loads a scenario, assembles the model and runs the solver
type PlanCommand struct {
	config Config
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(config Config) *PlanCommand {
	return &PlanCommand{
		config: config,
	}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	cfg := config.Default()
	if c.config.ConfigFile != "" {
		var err error
		cfg, err = config.Load(c.config.ConfigFile)
		if err != nil {
			return err
		}
	}
	if c.config.Verbose {
		cfg.Logging.Level = "debug"
	}
	log := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	scenario, err := c.loadScenario()
	if err != nil {
		return err
	}

	nodes, _ := scenario.Network.GetNodes()
	routes, _ := scenario.Network.GetRoutes()
	trucks, _ := scenario.Network.GetTrucks()
	graph, err := network.Build(nodes, routes, trucks)
	if err != nil {
		return fmt.Errorf("building network graph: %w", err)
	}

	origin := entities.NodeID(c.config.Origin)
	if origin == "" {
		origin, err = defaultOrigin(nodes)
		if err != nil {
			return err
		}
	}

	start := scenario.Start
	if c.config.Start != "" {
		parsed, err := time.Parse("2006-01-02", c.config.Start)
		if err != nil {
			return fmt.Errorf("invalid -start date: %s (expected YYYY-MM-DD)", c.config.Start)
		}
		start = entities.DayOf(parsed)
	}

	if cfg.Solver.Binary == "" {
		return fmt.Errorf("no solver binary configured: set solver.binary in the config file")
	}
	execSolver := solver.NewExecSolver(solver.ExecConfig{
		BinaryPath:    cfg.Solver.Binary,
		WarmStartFlag: cfg.Solver.WarmStartFlag,
		ExtraArgs:     cfg.Solver.ExtraArgs,
	}, log)

	planner := planning.NewPlanner(planning.Deps{
		Graph:    graph,
		Labor:    scenario.Labor,
		Forecast: scenario.Forecast,
		Network:  scenario.Network,
		Costs:    scenario.Costs,
		Solver:   execSolver,
		Log:      log,
		Metrics:  observability.Nop(),
		Events:   events.NewLog(),
	}, planning.Config{
		Origin:         origin,
		AllowShortages: cfg.Planning.AllowShortages,
		Enumerator: network.EnumeratorConfig{
			MaxHops:                cfg.Routing.MaxHops,
			TopK:                   cfg.Routing.TopK,
			RankBy:                 parseRankBy(cfg.Routing.RankBy),
			MinShelfLifeAtDelivery: cfg.Routing.MinShelfLifeAtDelivery,
		},
		SolveOptions: solve.Options{
			TimeLimit:   time.Duration(cfg.Solver.TimeLimitSeconds * float64(time.Second)),
			RelativeGap: cfg.Solver.RelativeGap,
		},
	})

	if c.config.Rolling {
		return c.runRolling(ctx, planner, cfg, log, start)
	}
	return c.runSingle(ctx, planner, cfg, start)
}

// runSingle solves one fixed horizon and writes the plan
func (c *PlanCommand) runSingle(ctx context.Context, planner *planning.Planner, cfg config.Config, start time.Time) error {
	horizon := cohort.Horizon{Start: start, End: entities.AddDays(start, cfg.Horizon.Days-1)}

	startTime := time.Now()
	var out *planning.Outcome
	var err error
	if c.config.TwoPhase {
		out, err = planner.SolveTwoPhase(ctx, horizon)
	} else {
		out, err = planner.SolveHorizon(ctx, horizon, nil)
	}
	if err != nil {
		return err
	}
	solveTime := time.Since(startTime)

	result := planning.BuildPlanResult(out)
	return output.Generate(result, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		SolveTime: solveTime,
	})
}

// runRolling steps the rolling-horizon scheduler one day at a time, writing
// the final day's plan
func (c *PlanCommand) runRolling(ctx context.Context, planner *planning.Planner, cfg config.Config, log logging.Logger, start time.Time) error {
	days := c.config.Days
	if days <= 0 {
		days = 7
	}

	scheduler := rolling.NewScheduler(planner, rolling.Config{
		HorizonDays:      cfg.Horizon.Days,
		ColdOnLowQuality: cfg.Planning.ColdOnLowQuality,
	}, log, nil)

	startTime := time.Now()
	steps, err := scheduler.Run(ctx, start, days)
	if err != nil {
		return err
	}
	solveTime := time.Since(startTime)

	if c.config.Verbose {
		for _, step := range steps {
			fmt.Printf("%s  state=%s  status=%s  overlap=%.2f\n",
				step.Today.Format("2006-01-02"),
				step.State,
				step.Outcome.Result.Status,
				step.OverlapRatio)
		}
	}
	if len(steps) == 0 {
		return fmt.Errorf("scheduler produced no steps")
	}

	result := planning.BuildPlanResult(steps[len(steps)-1].Outcome)
	return output.Generate(result, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		SolveTime: solveTime,
	})
}

// loadScenario reads the scenario directory's CSV files into repositories.
// Without a directory the built-in demonstration scenario is used.
// inventory.csv is optional; every other file is required.
func (c *PlanCommand) loadScenario() (*fixtures.Scenario, error) {
	dir := c.config.ScenarioDir
	if dir == "" {
		return fixtures.BuildDemoScenario(), nil
	}
	loader := csv.NewLoader()

	nodes, err := loader.LoadNodes(filepath.Join(dir, "nodes.csv"))
	if err != nil {
		return nil, err
	}
	routes, err := loader.LoadRoutes(filepath.Join(dir, "routes.csv"))
	if err != nil {
		return nil, err
	}
	trucks, err := loader.LoadTrucks(filepath.Join(dir, "trucks.csv"))
	if err != nil {
		return nil, err
	}
	forecast, err := loader.LoadForecast(filepath.Join(dir, "forecast.csv"))
	if err != nil {
		return nil, err
	}
	labor, err := loader.LoadLabor(filepath.Join(dir, "labor.csv"))
	if err != nil {
		return nil, err
	}

	var inventory []entities.InitialInventory
	inventoryPath := filepath.Join(dir, "inventory.csv")
	if _, statErr := os.Stat(inventoryPath); statErr == nil {
		inventory, err = loader.LoadInitialInventory(inventoryPath)
		if err != nil {
			return nil, err
		}
	}

	data := &fixtures.Scenario{
		Forecast: memory.NewForecastRepository(),
		Labor:    memory.NewLaborCalendar(),
		Costs:    memory.NewCostRepository(),
		Network:  memory.NewNetworkRepository(),
	}
	if err := data.Network.LoadNodes(nodes); err != nil {
		return nil, err
	}
	if err := data.Network.LoadRoutes(routes); err != nil {
		return nil, err
	}
	if err := data.Network.LoadTrucks(trucks); err != nil {
		return nil, err
	}
	if err := data.Network.LoadInitialInventory(inventory); err != nil {
		return nil, err
	}
	if err := data.Forecast.LoadEntries(forecast); err != nil {
		return nil, err
	}
	if err := data.Labor.LoadDays(labor); err != nil {
		return nil, err
	}

	costs, err := loader.LoadCosts(filepath.Join(dir, "costs.csv"))
	if err != nil {
		return nil, err
	}
	if err := data.Costs.LoadCostStructure(costs); err != nil {
		return nil, err
	}

	// The earliest forecast date anchors the default horizon.
	data.Start = entities.DayOf(time.Now())
	for i, e := range forecast {
		if i == 0 || e.Date.Before(data.Start) {
			data.Start = entities.DayOf(e.Date)
		}
	}

	return data, nil
}

func defaultOrigin(nodes []entities.Node) (entities.NodeID, error) {
	var producers []entities.NodeID
	for _, n := range nodes {
		if n.CanProduce {
			producers = append(producers, n.ID)
		}
	}
	switch len(producers) {
	case 0:
		return "", fmt.Errorf("no node can produce; specify -origin")
	case 1:
		return producers[0], nil
	default:
		return "", fmt.Errorf("multiple producing nodes %v; specify -origin", producers)
	}
}

func parseRankBy(s string) network.RankBy {
	switch s {
	case "time,cost":
		return network.RankTimeCost
	case "hops,cost":
		return network.RankHopsCost
	default:
		return network.RankCostTime
	}
}

// showHelp displays the help message
func (c *PlanCommand) showHelp() {
	fmt.Printf(`Production-Distribution Planner CLI

USAGE:
    planner [-scenario <directory>] [options]

OPTIONS:
    -scenario <dir>     Path to scenario directory containing CSV files
                        (default: built-in demonstration scenario)
    -config <file>      Path to YAML planner config (optional)
    -origin <node>      Manufacturing node ID (default: the only producer)
    -start <date>       Horizon start date, YYYY-MM-DD (default: first forecast date)
    -output <dir>       Output directory for results (optional)
    -format <fmt>       Output format: text, json, csv (default: text)
    -two-phase          Solve the pattern model first and warm-start from it
    -rolling            Run the rolling-horizon scheduler
    -days <n>           Number of rolling days to simulate (default: 7)
    -verbose            Enable verbose output
    -help               Show this help message

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── nodes.csv       # Network locations
    ├── routes.csv      # Transport legs
    ├── trucks.csv      # Truck schedules
    ├── forecast.csv    # Demand forecast
    ├── labor.csv       # Labor calendar (absent dates are non-production days)
    ├── costs.csv       # Cost structure (single data row)
    └── inventory.csv   # Opening inventory (optional)

CSV FILE FORMATS:

nodes.csv:
    id,name,can_produce,can_store,has_demand,requires_trucks,storage_mode,production_rate_per_hour,production_state
    6122,Manufacturing,true,true,false,true,both,1400,ambient

routes.csv:
    origin,destination,mode,transit_days,cost_per_unit
    6122,LINEAGE,frozen,0.5,0.03

trucks.csv:
    id,origin,destination,days_of_week,capacity_units,fixed_cost,cost_per_unit
    T1,6122,LINEAGE,monday|wednesday|friday,14080,350,0.01

forecast.csv:
    node,product,date,quantity
    6130,BREAD_WHITE,2025-06-02,900

labor.csv:
    date,fixed_hours,overtime_ceiling,regular_rate,overtime_rate
    2025-06-02,12,2,25,37.5

costs.csv:
    production_per_unit,storage_frozen_per_unit_day,storage_ambient_per_unit_day,shortage_penalty_per_unit
    0.80,0.02,0.005,10

inventory.csv:
    node,product,production_date,state,units
    LINEAGE,BREAD_WHITE,2025-05-20,frozen,5000

EXAMPLES:
    # Solve one 28-day horizon
    planner -scenario examples/demo -config planner.yaml

    # Two-phase solve with JSON output
    planner -scenario examples/demo -config planner.yaml -two-phase -format json

    # Simulate a week of daily re-solves
    planner -scenario examples/demo -config planner.yaml -rolling -days 7 -verbose
`)
}
