package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
)

func testKey(day int) VarKey {
	return VarKey{
		Family:  VarProduction,
		Node:    "PLANT",
		Product: "LOAF",
		Date:    time.Date(2025, 6, 2+day, 0, 0, 0, 0, time.UTC),
	}
}

func TestAddVariableRejectsDuplicates(t *testing.T) {
	m := New("test", FlexiblePhase)
	v := Variable{Key: testKey(0), Kind: Continuous, Upper: Unbounded()}

	require.NoError(t, m.AddVariable(v))
	assert.Error(t, m.AddVariable(v))
	assert.Equal(t, 1, m.NumVariables())
}

func TestAddVariableRejectsInvertedBounds(t *testing.T) {
	m := New("test", FlexiblePhase)
	v := Variable{Key: testKey(0), Kind: Continuous, Lower: 10, Upper: 5}
	assert.Error(t, m.AddVariable(v))
}

func TestAddConstraintRejectsUndeclaredKeys(t *testing.T) {
	m := New("test", FlexiblePhase)
	declared := testKey(0)
	require.NoError(t, m.AddVariable(Variable{Key: declared, Kind: Continuous, Upper: Unbounded()}))

	ok := Constraint{Name: "c1", Terms: []Term{{Key: declared, Coef: 1}}, Op: Le, RHS: 10}
	assert.NoError(t, m.AddConstraint(ok))

	// A tuple absent from the index has no variable at all; referencing it is
	// a bug, not an implicit zero.
	bad := Constraint{Name: "c2", Terms: []Term{{Key: testKey(1), Coef: 1}}, Op: Le, RHS: 10}
	assert.Error(t, m.AddConstraint(bad))
	assert.Equal(t, 1, m.NumConstraints())
}

func TestSetObjectiveRejectsUndeclaredKeys(t *testing.T) {
	m := New("test", FlexiblePhase)
	assert.Error(t, m.SetObjective(Objective{Terms: []Term{{Key: testKey(0), Coef: 1}}}))
}

func TestVarLookup(t *testing.T) {
	m := New("test", FlexiblePhase)
	key := testKey(0)
	require.NoError(t, m.AddVariable(Variable{Key: key, Kind: Continuous, Upper: 100}))

	v, ok := m.Var(key)
	require.True(t, ok)
	assert.InDelta(t, 100, v.Upper, 1e-9)
	assert.True(t, m.Has(key))
	assert.False(t, m.Has(testKey(1)))
}

func TestVarKeyNamesAreCanonical(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	pd := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		key  VarKey
		name string
	}{
		{VarKey{Family: VarInventory, Node: "6122", Product: "WW", ProductionDate: pd, Date: date, State: 1}, "inv_6122_WW_20250601_20250602_ambient"},
		{VarKey{Family: VarProduction, Node: "6122", Product: "WW", Date: date}, "prod_6122_WW_20250602"},
		{VarKey{Family: VarShipment, Node: "6122", Dest: "6104", Mode: entities.TransportAmbient, Product: "WW", ProductionDate: pd, Date: date}, "ship_6122_6104_ambient_WW_20250601_20250602"},
		{VarKey{Family: VarShortage, Node: "6104", Product: "WW", Date: date}, "short_6104_WW_20250602"},
		{VarKey{Family: VarTruckLoad, Truck: "T1", Date: date}, "load_T1_20250602"},
		{VarKey{Family: VarTruckUsedPattern, Truck: "T1", Weekday: time.Monday}, "usedwd_T1_1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.key.Name())
	}
}

func TestVarKeyShifted(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	pd := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	k := VarKey{Family: VarInventory, Node: "6122", ProductionDate: pd, Date: date}
	shifted := k.Shifted(3)
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), shifted.ProductionDate)
	assert.Equal(t, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), shifted.Date)
	assert.True(t, k.DateBearing())

	// Weekday pattern keys carry no dates and never shift.
	wd := VarKey{Family: VarTruckUsedPattern, Truck: "T1", Weekday: time.Monday}
	assert.False(t, wd.DateBearing())
	assert.Equal(t, wd, wd.Shifted(3))
}
