package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/cohort"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/model"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/network"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/solve"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/warmstart"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/repositories"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/services"
	"github.com/sverzijl/planning-latest-sub005/pkg/infrastructure/events"
	"github.com/sverzijl/planning-latest-sub005/pkg/infrastructure/logging"
	"github.com/sverzijl/planning-latest-sub005/pkg/infrastructure/observability"
)

// Config controls one planner instance
type Config struct {
	// Origin is the manufacturing site routes are enumerated from.
	Origin entities.NodeID
	// AllowShortages permits unmet demand at the configured penalty.
	AllowShortages bool
	// Enumerator bounds route enumeration.
	Enumerator network.EnumeratorConfig
	// SolveOptions apply to every solver call.
	SolveOptions solve.Options
}

// Planner wires the graph, route enumerator, cohort index builder, model
// assembler and solver oracle into single-phase and two-phase solves. One
// planner serves one network; each solve owns its own index and model.
type Planner struct {
	graph    *network.Graph
	states   *services.ShelfLifeStateMachine
	labor    repositories.LaborCalendar
	forecast repositories.ForecastRepository
	netRepo  repositories.NetworkRepository
	costs    repositories.CostRepository
	solver   solve.Solver
	warm     *warmstart.Engine

	config  Config
	log     logging.Logger
	metrics *observability.Collector
	events  *events.Log
}

// Deps bundles the planner's collaborators
type Deps struct {
	Graph    *network.Graph
	States   *services.ShelfLifeStateMachine
	Labor    repositories.LaborCalendar
	Forecast repositories.ForecastRepository
	Network  repositories.NetworkRepository
	Costs    repositories.CostRepository
	Solver   solve.Solver
	Warm     *warmstart.Engine
	Log      logging.Logger
	Metrics  *observability.Collector
	Events   *events.Log
}

// NewPlanner creates a planner
func NewPlanner(deps Deps, config Config) *Planner {
	if deps.Log == nil {
		deps.Log = logging.Noop()
	}
	if deps.Metrics == nil {
		deps.Metrics = observability.Nop()
	}
	if deps.Events == nil {
		deps.Events = events.NewLog()
	}
	if deps.States == nil {
		deps.States = services.NewShelfLifeStateMachine()
	}
	if deps.Warm == nil {
		deps.Warm = warmstart.NewEngine(0, deps.Log, deps.Metrics)
	}
	return &Planner{
		graph:    deps.Graph,
		states:   deps.States,
		labor:    deps.Labor,
		forecast: deps.Forecast,
		netRepo:  deps.Network,
		costs:    deps.Costs,
		solver:   deps.Solver,
		warm:     deps.Warm,
		config:   config,
		log:      deps.Log,
		metrics:  deps.Metrics,
		events:   deps.Events,
	}
}

// Warmstart exposes the warm-start engine shared with schedulers
func (p *Planner) Warmstart() *warmstart.Engine {
	return p.warm
}

// Outcome is the result of one assembled-and-solved horizon
type Outcome struct {
	Index    *cohort.Index
	Model    *model.Model
	Result   *solve.Result
	Snapshot *warmstart.Snapshot
}

// BuildModel enumerates routes, constructs the sparse index and assembles a
// model for the horizon under the given phase.
func (p *Planner) BuildModel(horizon cohort.Horizon, phase model.Phase) (*model.Model, *cohort.Index, error) {
	forecast, err := p.forecast.GetWindow(horizon.Start, horizon.End)
	if err != nil {
		return nil, nil, fmt.Errorf("reading forecast window: %w", err)
	}
	initial, err := p.netRepo.GetInitialInventory()
	if err != nil {
		return nil, nil, fmt.Errorf("reading initial inventory: %w", err)
	}
	costs, err := p.costs.GetCostStructure()
	if err != nil {
		return nil, nil, fmt.Errorf("reading cost structure: %w", err)
	}

	// Route enumeration feeds index pruning: legs on no ranked route carry
	// nothing and stay structurally zero. Destinations with an empty route
	// list are not errors; demand there is either covered by shortage or
	// rejected at assembly.
	enum := network.NewEnumerator(p.graph, p.states, p.config.Enumerator)
	var destinations []entities.NodeID
	for _, n := range p.graph.DemandNodes() {
		if n.ID != p.config.Origin {
			destinations = append(destinations, n.ID)
		}
	}
	ranked := enum.Enumerate(p.config.Origin, destinations)

	allowed := make(map[cohort.Leg]struct{})
	for _, paths := range ranked {
		for _, rr := range paths {
			for _, leg := range rr.Legs {
				allowed[cohort.Leg{Origin: leg.Origin, Destination: leg.Destination}] = struct{}{}
			}
		}
	}

	builder := cohort.NewBuilder(p.graph, p.states, p.labor)
	builder.RestrictToLegs(allowed)

	started := time.Now()
	ix, err := builder.Build(horizon, forecast, initial)
	if err != nil {
		return nil, nil, fmt.Errorf("building cohort index: %w", err)
	}
	p.metrics.IndexBuildDuration.Observe(time.Since(started).Seconds())

	stats := ix.Stats()
	p.metrics.IndexCohorts.Set(float64(stats.Cohorts))
	p.metrics.IndexShipments.Set(float64(stats.Shipments))
	p.metrics.IndexAllocations.Set(float64(stats.Allocations))
	p.log.Debug("index built",
		"cohorts", stats.Cohorts,
		"shipments", stats.Shipments,
		"allocations", stats.Allocations,
		"productions", stats.Productions,
		"truck_days", stats.TruckDays)

	assembler := model.NewAssembler(p.graph, p.labor, costs, model.AssemblerConfig{
		AllowShortages: p.config.AllowShortages,
		Phase:          phase,
	})
	m, err := assembler.Assemble(ix)
	if err != nil {
		return nil, nil, err
	}

	p.metrics.ModelVariables.Set(float64(m.NumVariables()))
	p.metrics.ModelConstraints.Set(float64(m.NumConstraints()))

	return m, ix, nil
}

// Solve runs the oracle on an assembled model, recording metrics and events.
// Solver statuses come back on the result; only adapter failures are errors.
func (p *Planner) Solve(ctx context.Context, m *model.Model, hints model.Assignment) (*solve.Result, error) {
	opts := p.config.SolveOptions
	opts.WarmStart = hints

	p.events.Append(m.Name, events.SolveStartedEvent, map[string]any{
		"phase":      m.Phase.String(),
		"variables":  m.NumVariables(),
		"warm_start": len(hints) > 0,
	})

	started := time.Now()
	res, err := p.solver.Solve(ctx, m, opts)
	elapsed := time.Since(started)
	if err != nil {
		p.metrics.ObserveSolve(m.Phase.String(), "adapter_error", elapsed)
		return nil, fmt.Errorf("solver adapter: %w", err)
	}

	p.metrics.ObserveSolve(m.Phase.String(), res.Status.String(), elapsed)
	p.events.Append(m.Name, events.SolveFinishedEvent, map[string]any{
		"status":    res.Status.String(),
		"objective": res.Objective,
		"gap":       res.Gap,
	})
	if res.WarmStartRejected {
		p.metrics.ObserveWarmstart(observability.OutcomeRejected)
		p.events.Append(m.Name, events.WarmstartRejectedEvent, nil)
		p.log.Warn("solver rejected warm start", "model", m.Name)
	}
	p.log.Info("solve finished",
		"model", m.Name,
		"phase", m.Phase.String(),
		"status", res.Status.String(),
		"objective", res.Objective,
		"runtime", elapsed.String())

	return res, nil
}

// SolveHorizon assembles the flexible model for a horizon and solves it,
// optionally seeded with warm-start hints.
func (p *Planner) SolveHorizon(ctx context.Context, horizon cohort.Horizon, hints model.Assignment) (*Outcome, error) {
	m, ix, err := p.BuildModel(horizon, model.FlexiblePhase)
	if err != nil {
		return nil, err
	}
	res, err := p.Solve(ctx, m, hints)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Index: ix, Model: m, Result: res}
	if res.Status.Usable() {
		out.Snapshot = p.warm.Extract(m, res, horizon)
	}
	return out, nil
}

// SolveTwoPhase first solves the restricted pattern model, in which each
// truck-usage binary covers one weekday across all weeks, then transfers the
// solution onto the flexible model and re-solves. A rejected transfer
// degrades to a cold flexible solve rather than failing.
func (p *Planner) SolveTwoPhase(ctx context.Context, horizon cohort.Horizon) (*Outcome, error) {
	patternModel, _, err := p.BuildModel(horizon, model.PatternPhase)
	if err != nil {
		return nil, err
	}
	patternRes, err := p.Solve(ctx, patternModel, nil)
	if err != nil {
		return nil, err
	}

	flexModel, ix, err := p.BuildModel(horizon, model.FlexiblePhase)
	if err != nil {
		return nil, err
	}

	var hints model.Assignment
	if patternRes.Status.Usable() {
		hints, err = p.warm.TransferPattern(patternRes.Values, flexModel)
		if err != nil {
			if !warmstart.IsRejected(err) {
				return nil, err
			}
			p.events.Append(flexModel.Name, events.WarmstartRejectedEvent, nil)
			hints = nil
		} else {
			p.events.Append(flexModel.Name, events.WarmstartAppliedEvent, map[string]any{
				"keys": len(hints),
			})
		}
	}

	res, err := p.Solve(ctx, flexModel, hints)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Index: ix, Model: flexModel, Result: res}
	if res.Status.Usable() {
		out.Snapshot = p.warm.Extract(flexModel, res, horizon)
	}
	return out, nil
}
