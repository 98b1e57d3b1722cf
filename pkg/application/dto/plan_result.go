package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
)

// ProductionLine is one planned production run
type ProductionLine struct {
	Node    entities.NodeID    `json:"node"`
	Product entities.ProductID `json:"product"`
	Date    time.Time          `json:"date"`
	Units   float64            `json:"units"`
}

// ShipmentLine is one planned shipment on a single leg
type ShipmentLine struct {
	Origin         entities.NodeID       `json:"origin"`
	Destination    entities.NodeID       `json:"destination"`
	Product        entities.ProductID    `json:"product"`
	ProductionDate time.Time             `json:"production_date"`
	DeliveryDate   time.Time             `json:"delivery_date"`
	ArrivalState   entities.ProductState `json:"-"`
	ArrivalStateS  string                `json:"arrival_state"`
	Units          float64               `json:"units"`
}

// ShortageLine is unmet demand the plan accepted
type ShortageLine struct {
	Node    entities.NodeID    `json:"node"`
	Product entities.ProductID `json:"product"`
	Date    time.Time          `json:"date"`
	Units   float64            `json:"units"`
}

// CostBreakdown decomposes the objective by cost component
type CostBreakdown struct {
	Production decimal.Decimal `json:"production"`
	Transport  decimal.Decimal `json:"transport"`
	Storage    decimal.Decimal `json:"storage"`
	Labor      decimal.Decimal `json:"labor"`
	Shortage   decimal.Decimal `json:"shortage"`
	Trucks     decimal.Decimal `json:"trucks"`
	Total      decimal.Decimal `json:"total"`
}

// PlanResult is the extracted outcome of one solved horizon, consumed by
// reporting and diagnostics.
type PlanResult struct {
	HorizonStart time.Time        `json:"horizon_start"`
	HorizonEnd   time.Time        `json:"horizon_end"`
	Status       string           `json:"status"`
	Objective    float64          `json:"objective"`
	Gap          float64          `json:"gap"`
	Production   []ProductionLine `json:"production"`
	Shipments    []ShipmentLine   `json:"shipments"`
	Shortages    []ShortageLine   `json:"shortages"`
	Costs        CostBreakdown    `json:"costs"`
}
