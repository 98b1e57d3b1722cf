package memory

import (
	"testing"
	"time"

	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
)

func TestForecastGetWindowFiltersAndOrders(t *testing.T) {
	repo := NewForecastRepository()
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	err := repo.LoadEntries([]entities.ForecastEntry{
		{Node: "B", Product: "P2", Date: entities.AddDays(start, 1), Quantity: 10},
		{Node: "A", Product: "P1", Date: entities.AddDays(start, 2), Quantity: 20},
		{Node: "A", Product: "P1", Date: start, Quantity: 30},
		{Node: "A", Product: "P2", Date: entities.AddDays(start, 1), Quantity: 40},
		{Node: "A", Product: "P1", Date: entities.AddDays(start, 10), Quantity: 50}, // outside window
	})
	if err != nil {
		t.Fatalf("LoadEntries failed: %v", err)
	}

	window, err := repo.GetWindow(start, entities.AddDays(start, 3))
	if err != nil {
		t.Fatalf("GetWindow failed: %v", err)
	}
	if len(window) != 4 {
		t.Fatalf("expected 4 entries in window, got %d", len(window))
	}

	// Ordered by (node, product, date).
	wantQty := []float64{30, 20, 40, 10}
	for i, want := range wantQty {
		if window[i].Quantity != want {
			t.Errorf("entry %d: expected quantity %v, got %v", i, want, window[i].Quantity)
		}
	}
}

func TestForecastGetWindowNormalizesTimestamps(t *testing.T) {
	repo := NewForecastRepository()
	noon := time.Date(2025, 6, 2, 12, 30, 0, 0, time.UTC)

	if err := repo.LoadEntries([]entities.ForecastEntry{
		{Node: "A", Product: "P", Date: noon, Quantity: 5},
	}); err != nil {
		t.Fatalf("LoadEntries failed: %v", err)
	}

	midnight := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	window, err := repo.GetWindow(midnight, midnight)
	if err != nil {
		t.Fatalf("GetWindow failed: %v", err)
	}
	if len(window) != 1 {
		t.Fatalf("expected the noon entry to land on its day, got %d entries", len(window))
	}
	if !window[0].Date.Equal(midnight) {
		t.Errorf("expected date normalized to midnight, got %v", window[0].Date)
	}
}

func TestForecastGetWindowEmpty(t *testing.T) {
	repo := NewForecastRepository()
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	window, err := repo.GetWindow(start, entities.AddDays(start, 7))
	if err != nil {
		t.Fatalf("GetWindow failed: %v", err)
	}
	if len(window) != 0 {
		t.Errorf("expected empty window, got %d entries", len(window))
	}
}
