package warmstart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/cohort"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/model"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/network"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/solve"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/services"
	fixtures "github.com/sverzijl/planning-latest-sub005/pkg/infrastructure/testing"
)

func day(start time.Time, n int) time.Time {
	return entities.AddDays(start, n)
}

func buildModels(t *testing.T, days int) (*model.Model, *model.Model, *cohort.Index, cohort.Horizon) {
	t.Helper()
	scenario := fixtures.BuildDemoScenario()

	nodes, err := scenario.Network.GetNodes()
	require.NoError(t, err)
	routes, err := scenario.Network.GetRoutes()
	require.NoError(t, err)
	trucks, err := scenario.Network.GetTrucks()
	require.NoError(t, err)
	graph, err := network.Build(nodes, routes, trucks)
	require.NoError(t, err)

	horizon := cohort.Horizon{Start: scenario.Start, End: day(scenario.Start, days-1)}
	forecast, err := scenario.Forecast.GetWindow(horizon.Start, horizon.End)
	require.NoError(t, err)

	builder := cohort.NewBuilder(graph, services.NewShelfLifeStateMachine(), scenario.Labor)
	ix, err := builder.Build(horizon, forecast, nil)
	require.NoError(t, err)

	costs, err := scenario.Costs.GetCostStructure()
	require.NoError(t, err)

	pattern, err := model.NewAssembler(graph, scenario.Labor, costs, model.AssemblerConfig{
		AllowShortages: true, Phase: model.PatternPhase,
	}).Assemble(ix)
	require.NoError(t, err)

	flex, err := model.NewAssembler(graph, scenario.Labor, costs, model.AssemblerConfig{
		AllowShortages: true, Phase: model.FlexiblePhase,
	}).Assemble(ix)
	require.NoError(t, err)

	return pattern, flex, ix, horizon
}

func TestExtractCopiesDeclaredKeysOnly(t *testing.T) {
	_, flex, _, horizon := buildModels(t, 7)
	engine := NewEngine(0, nil, nil)

	foreign := model.VarKey{Family: model.VarProduction, Node: "GHOST", Product: "X",
		Date: horizon.Start}
	values := make(model.Assignment)
	for _, v := range flex.Variables() {
		values[v.Key] = 1
	}
	values[foreign] = 42

	snap := engine.Extract(flex, &solve.Result{Status: solve.StatusOptimal, Values: values}, horizon)
	require.NotNil(t, snap)
	assert.Len(t, snap.Values, flex.NumVariables())
	_, leaked := snap.Values[foreign]
	assert.False(t, leaked)

	// Snapshots are copies, not aliases.
	snap.Values[flex.Variables()[0].Key] = 99
	assert.InDelta(t, 1, values[flex.Variables()[0].Key], 1e-9)
}

func TestExtractReturnsNilForUnusableResults(t *testing.T) {
	_, flex, _, horizon := buildModels(t, 7)
	engine := NewEngine(0, nil, nil)

	assert.Nil(t, engine.Extract(flex, &solve.Result{Status: solve.StatusInfeasible}, horizon))
	assert.Nil(t, engine.Extract(flex, nil, horizon))
}

func TestShiftAssignmentRoundTrip(t *testing.T) {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	horizon := cohort.Horizon{Start: start, End: day(start, 13)}

	prod := model.VarKey{Family: model.VarProduction, Node: "6122", Product: "WW", Date: day(start, 3)}
	inv := model.VarKey{Family: model.VarInventory, Node: "6122", Product: "WW",
		ProductionDate: day(start, 3), Date: day(start, 5)}
	wd := model.VarKey{Family: model.VarTruckUsedPattern, Truck: "T1", Weekday: time.Monday}
	values := model.Assignment{prod: 500, inv: 120, wd: 1}

	shiftedHorizon := cohort.Horizon{Start: day(start, 3), End: day(start, 16)}
	forward := ShiftAssignment(values, 3, shiftedHorizon)
	back := ShiftAssignment(forward, -3, horizon)

	assert.Equal(t, values, back, "shift forward then back must reproduce the original")
}

func TestShiftAssignmentDropsOutOfHorizonKeys(t *testing.T) {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	late := model.VarKey{Family: model.VarProduction, Node: "6122", Product: "WW", Date: day(start, 13)}
	early := model.VarKey{Family: model.VarProduction, Node: "6122", Product: "WW", Date: day(start, 3)}
	wd := model.VarKey{Family: model.VarTruckUsedPattern, Truck: "T1", Weekday: time.Friday}
	values := model.Assignment{late: 10, early: 20, wd: 1}

	target := cohort.Horizon{Start: day(start, 1), End: day(start, 14)}
	shifted := ShiftAssignment(values, 1, target)

	_, kept := shifted[early.Shifted(1)]
	assert.True(t, kept)
	_, dropped := shifted[late.Shifted(1)]
	assert.False(t, dropped, "a key shifted past the horizon end must vanish")
	assert.InDelta(t, 1, shifted[wd], 1e-9, "weekday keys pass through untouched")
}

func TestShiftForwardScoresOverlap(t *testing.T) {
	_, flex, _, horizon := buildModels(t, 7)
	engine := NewEngine(0.5, nil, nil)

	values := make(model.Assignment)
	for _, v := range flex.Variables() {
		values[v.Key] = 0
	}
	snap := &Snapshot{Values: values, Horizon: horizon}

	// Zero shift against the same model recovers every date-bearing key.
	res := engine.ShiftForward(snap, 0, flex, horizon)
	assert.InDelta(t, 1.0, res.OverlapRatio, 1e-9)
	assert.False(t, res.LowQuality)

	// A huge shift moves everything out of the horizon.
	res = engine.ShiftForward(snap, 1000, flex, horizon)
	assert.Less(t, res.OverlapRatio, 0.5)
	assert.True(t, res.LowQuality)
	assert.NotNil(t, res.Hints, "low-quality hints are still returned")
}

func TestShiftForwardNilSnapshot(t *testing.T) {
	_, flex, _, horizon := buildModels(t, 7)
	engine := NewEngine(0, nil, nil)

	res := engine.ShiftForward(nil, 1, flex, horizon)
	assert.True(t, res.LowQuality)
	assert.Empty(t, res.Hints)
}

func TestTransferPatternExpandsWeekdayBinaries(t *testing.T) {
	pattern, flex, ix, _ := buildModels(t, 7)
	engine := NewEngine(0, nil, nil)

	// An all-shortage pattern solution is trivially feasible: no production,
	// no flows, every demand row served by its shortage variable.
	patternValues := make(model.Assignment)
	for _, v := range pattern.Variables() {
		patternValues[v.Key] = 0
	}
	for dk, qty := range ix.Demand {
		patternValues[model.VarKey{Family: model.VarShortage, Node: dk.Node, Product: dk.Product, Date: dk.Date}] = qty
	}
	// Run one truck every Monday in the pattern.
	monday := model.VarKey{Family: model.VarTruckUsedPattern, Truck: "T-6104-AM", Weekday: time.Monday}
	require.True(t, pattern.Has(monday))
	patternValues[monday] = 1

	hints, err := engine.TransferPattern(patternValues, flex)
	require.NoError(t, err)

	expanded := 0
	for _, v := range flex.Variables() {
		if v.Key.Family != model.VarTruckUsed || v.Key.Truck != "T-6104-AM" {
			continue
		}
		if v.Key.Date.Weekday() == time.Monday {
			assert.InDelta(t, 1, hints[v.Key], 1e-9)
			expanded++
		} else {
			assert.InDelta(t, 0, hints[v.Key], 1e-9)
		}
	}
	assert.Greater(t, expanded, 0)

	// The transferred hint must already be locally feasible.
	assert.Empty(t, model.Evaluate(flex, hints, 0))
}

func TestTransferPatternRejectsInfeasibleHints(t *testing.T) {
	pattern, flex, ix, _ := buildModels(t, 7)
	engine := NewEngine(0, nil, nil)

	patternValues := make(model.Assignment)
	for _, v := range pattern.Variables() {
		patternValues[v.Key] = 0
	}
	for dk, qty := range ix.Demand {
		patternValues[model.VarKey{Family: model.VarShortage, Node: dk.Node, Product: dk.Product, Date: dk.Date}] = qty
	}

	// A shipment with no production behind it drives origin inventory
	// negative; the recomputed chain exposes it and the transfer is rejected.
	var anyShipment model.VarKey
	for _, v := range flex.Variables() {
		if v.Key.Family == model.VarShipment {
			anyShipment = v.Key
			break
		}
	}
	require.NotZero(t, anyShipment.Node)
	patternValues[anyShipment] = 500

	_, err := engine.TransferPattern(patternValues, flex)
	require.Error(t, err)
	assert.True(t, IsRejected(err))

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.NotEmpty(t, rejected.Violations)
}
