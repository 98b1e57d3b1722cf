package entities

// LaborDay represents the labor calendar entry for one production date.
// Dates with no entry are non-production days: the planner must not schedule
// any output on them.
type LaborDay struct {
	IsProductionDay bool
	FixedHours      float64
	OvertimeCeiling float64
	RegularRate     float64
	OvertimeRate    float64
}

// MaxHours returns the total hours available including overtime
func (d LaborDay) MaxHours() float64 {
	if !d.IsProductionDay {
		return 0
	}
	return d.FixedHours + d.OvertimeCeiling
}
