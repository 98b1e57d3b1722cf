package repositories

import (
	"time"

	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
)

// LaborCalendar provides labor availability per production date. A date with
// no entry is a non-production day and forces production to zero.
type LaborCalendar interface {
	// HoursAvailable returns the labor entry for a date. The second return is
	// false when the calendar has no entry for that date.
	HoursAvailable(date time.Time) (entities.LaborDay, bool, error)
	LoadDays(days map[time.Time]entities.LaborDay) error
}
