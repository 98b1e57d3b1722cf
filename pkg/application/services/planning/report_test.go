package planning

import (
	"testing"

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

func smallOutcome(t *testing.T) (*Outcome, *fixtures.Scenario) {
	t.Helper()
	scenario := fixtures.BuildSmallScenario()

	nodes, err := scenario.Network.GetNodes()
	require.NoError(t, err)
	routes, err := scenario.Network.GetRoutes()
	require.NoError(t, err)
	graph, err := network.Build(nodes, routes, nil)
	require.NoError(t, err)

	horizon := cohort.Horizon{Start: scenario.Start, End: entities.AddDays(scenario.Start, 6)}
	forecast, err := scenario.Forecast.GetWindow(horizon.Start, horizon.End)
	require.NoError(t, err)

	builder := cohort.NewBuilder(graph, services.NewShelfLifeStateMachine(), scenario.Labor)
	ix, err := builder.Build(horizon, forecast, nil)
	require.NoError(t, err)

	costs, err := scenario.Costs.GetCostStructure()
	require.NoError(t, err)

	m, err := model.NewAssembler(graph, scenario.Labor, costs, model.AssemblerConfig{
		AllowShortages: true,
	}).Assemble(ix)
	require.NoError(t, err)

	// Serve the day-2 demand by production and shipment; leave day 3 short.
	pd := entities.AddDays(scenario.Start, 1)
	dd := entities.AddDays(scenario.Start, 2)
	values := make(model.Assignment)
	values[model.VarKey{Family: model.VarProduction, Node: "PLANT", Product: "LOAF", Date: pd}] = 500
	values[model.VarKey{Family: model.VarRegularHours, Node: "PLANT", Date: pd}] = 5
	values[model.VarKey{Family: model.VarShortage, Node: "STORE", Product: "LOAF",
		Date: entities.AddDays(scenario.Start, 3)}] = 300
	values[model.VarKey{Family: model.VarShipment, Node: "PLANT", Dest: "STORE",
		Mode: entities.TransportAmbient, Product: "LOAF", ProductionDate: pd, Date: dd}] = 500
	values[model.VarKey{Family: model.VarAllocation, Node: "STORE", Product: "LOAF",
		ProductionDate: pd, Date: dd, State: entities.Ambient}] = 500

	out := &Outcome{
		Index: ix,
		Model: m,
		Result: &solve.Result{
			Status:    solve.StatusOptimal,
			Objective: model.ObjectiveValue(m, values),
			Values:    values,
		},
	}
	return out, scenario
}

func TestBuildPlanResultExtractsFlows(t *testing.T) {
	out, scenario := smallOutcome(t)

	res := BuildPlanResult(out)
	assert.Equal(t, "optimal", res.Status)
	assert.Equal(t, scenario.Start, res.HorizonStart)

	require.Len(t, res.Production, 1)
	assert.Equal(t, entities.NodeID("PLANT"), res.Production[0].Node)
	assert.InDelta(t, 500, res.Production[0].Units, 1e-9)

	require.Len(t, res.Shipments, 1)
	assert.Equal(t, entities.NodeID("STORE"), res.Shipments[0].Destination)
	assert.Equal(t, entities.Ambient, res.Shipments[0].ArrivalState)
	assert.Equal(t, "ambient", res.Shipments[0].ArrivalStateS)

	require.Len(t, res.Shortages, 1)
	assert.InDelta(t, 300, res.Shortages[0].Units, 1e-9)
}

func TestBuildPlanResultCostBreakdown(t *testing.T) {
	out, _ := smallOutcome(t)

	res := BuildPlanResult(out)
	assert.True(t, res.Costs.Production.IsPositive())
	assert.True(t, res.Costs.Transport.IsPositive())
	assert.True(t, res.Costs.Labor.IsPositive())
	assert.True(t, res.Costs.Shortage.IsPositive())

	sum := res.Costs.Production.
		Add(res.Costs.Transport).
		Add(res.Costs.Storage).
		Add(res.Costs.Labor).
		Add(res.Costs.Shortage).
		Add(res.Costs.Trucks)
	assert.True(t, res.Costs.Total.Equal(sum))
}

func TestBuildPlanResultUnusableSolve(t *testing.T) {
	out, _ := smallOutcome(t)
	out.Result = &solve.Result{Status: solve.StatusInfeasible}

	res := BuildPlanResult(out)
	assert.Equal(t, "infeasible", res.Status)
	assert.Empty(t, res.Production)
	assert.Empty(t, res.Shipments)
	assert.Empty(t, res.Shortages)
}
