package memory

import (
	"sort"
	"time"

	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/repositories"
)

// ForecastRepository provides in-memory forecast storage
type ForecastRepository struct {
	entries []entities.ForecastEntry
}

// NewForecastRepository creates a new in-memory forecast repository
func NewForecastRepository() *ForecastRepository {
	return &ForecastRepository{
		entries: []entities.ForecastEntry{},
	}
}

// Verify interface compliance
var _ repositories.ForecastRepository = (*ForecastRepository)(nil)

// LoadEntries loads forecast entries into the repository
func (r *ForecastRepository) LoadEntries(entries []entities.ForecastEntry) error {
	for _, e := range entries {
		e.Date = entities.DayOf(e.Date)
		r.entries = append(r.entries, e)
	}
	return nil
}

// GetWindow returns forecast entries inside [start, end], ordered by
// (node, product, date)
func (r *ForecastRepository) GetWindow(start, end time.Time) ([]entities.ForecastEntry, error) {
	start, end = entities.DayOf(start), entities.DayOf(end)

	var window []entities.ForecastEntry
	for _, e := range r.entries {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		window = append(window, e)
	}

	sort.Slice(window, func(i, j int) bool {
		if window[i].Node != window[j].Node {
			return window[i].Node < window[j].Node
		}
		if window[i].Product != window[j].Product {
			return window[i].Product < window[j].Product
		}
		return window[i].Date.Before(window[j].Date)
	})

	return window, nil
}
