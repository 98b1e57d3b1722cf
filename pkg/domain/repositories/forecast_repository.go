package repositories

import (
	"time"

	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
)

// ForecastRepository provides access to demand forecast data. The planner
// only ever reads entries inside its current horizon window.
type ForecastRepository interface {
	// GetWindow returns forecast entries with start ≤ date ≤ end, ordered by
	// (node, product, date).
	GetWindow(start, end time.Time) ([]entities.ForecastEntry, error)
	LoadEntries(entries []entities.ForecastEntry) error
}
