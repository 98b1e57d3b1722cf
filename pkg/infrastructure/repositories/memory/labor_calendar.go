package memory

import (
	"time"

	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/repositories"
)

// LaborCalendar provides in-memory labor calendar storage
type LaborCalendar struct {
	days map[time.Time]entities.LaborDay
}

// NewLaborCalendar creates a new in-memory labor calendar
func NewLaborCalendar() *LaborCalendar {
	return &LaborCalendar{
		days: make(map[time.Time]entities.LaborDay),
	}
}

// Verify interface compliance
var _ repositories.LaborCalendar = (*LaborCalendar)(nil)

// LoadDays loads labor days into the calendar
func (c *LaborCalendar) LoadDays(days map[time.Time]entities.LaborDay) error {
	for date, day := range days {
		c.days[entities.DayOf(date)] = day
	}
	return nil
}

// HoursAvailable returns the labor entry for a date, reporting absence via
// the second return value
func (c *LaborCalendar) HoursAvailable(date time.Time) (entities.LaborDay, bool, error) {
	day, ok := c.days[entities.DayOf(date)]
	return day, ok, nil
}
