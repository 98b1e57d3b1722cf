package entities

import "time"

// ForecastEntry represents forecast demand for one product at one location on
// one date
type ForecastEntry struct {
	Node     NodeID
	Product  ProductID
	Date     time.Time
	Quantity float64
}
