package planning

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sverzijl/planning-latest-sub005/pkg/application/dto"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/model"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
)

// flowTolerance suppresses solver noise in reported plans
const flowTolerance = 1e-6

// BuildPlanResult extracts a reporting-friendly plan from a solved outcome.
// The structural keys of the extracted values are the same ones warm starts
// consume; reporting never touches live model state.
func BuildPlanResult(out *Outcome) *dto.PlanResult {
	res := &dto.PlanResult{
		HorizonStart: out.Index.Horizon.Start,
		HorizonEnd:   out.Index.Horizon.End,
		Status:       out.Result.Status.String(),
		Objective:    out.Result.Objective,
		Gap:          out.Result.Gap,
	}
	if !out.Result.Status.Usable() {
		return res
	}
	values := out.Result.Values

	for key, x := range values {
		if x <= flowTolerance {
			continue
		}
		switch key.Family {
		case model.VarProduction:
			res.Production = append(res.Production, dto.ProductionLine{
				Node:    key.Node,
				Product: key.Product,
				Date:    key.Date,
				Units:   x,
			})
		case model.VarShipment:
			sl := dto.ShipmentLine{
				Origin:         key.Node,
				Destination:    key.Dest,
				Product:        key.Product,
				ProductionDate: key.ProductionDate,
				DeliveryDate:   key.Date,
				Units:          x,
			}
			if entry, ok := out.Index.Shipments[shipmentKeyOf(key)]; ok {
				sl.ArrivalState = entry.ArrivalState
				sl.ArrivalStateS = entry.ArrivalState.String()
			}
			res.Shipments = append(res.Shipments, sl)
		case model.VarShortage:
			res.Shortages = append(res.Shortages, dto.ShortageLine{
				Node:    key.Node,
				Product: key.Product,
				Date:    key.Date,
				Units:   x,
			})
		}
	}

	sort.Slice(res.Production, func(i, j int) bool {
		if !res.Production[i].Date.Equal(res.Production[j].Date) {
			return res.Production[i].Date.Before(res.Production[j].Date)
		}
		return res.Production[i].Product < res.Production[j].Product
	})
	sort.Slice(res.Shipments, func(i, j int) bool {
		if !res.Shipments[i].DeliveryDate.Equal(res.Shipments[j].DeliveryDate) {
			return res.Shipments[i].DeliveryDate.Before(res.Shipments[j].DeliveryDate)
		}
		return res.Shipments[i].Destination < res.Shipments[j].Destination
	})
	sort.Slice(res.Shortages, func(i, j int) bool {
		return res.Shortages[i].Date.Before(res.Shortages[j].Date)
	})

	res.Costs = costBreakdown(out.Model, values)
	return res
}

// costBreakdown buckets objective terms by variable family
func costBreakdown(m *model.Model, values model.Assignment) dto.CostBreakdown {
	var production, transport, storage, labor, shortage, trucks float64

	for _, t := range m.GetObjective().Terms {
		amount := t.Coef * values[t.Key]
		switch t.Key.Family {
		case model.VarProduction:
			production += amount
		case model.VarShipment:
			transport += amount
		case model.VarInventory:
			storage += amount
		case model.VarRegularHours, model.VarOvertimeHours:
			labor += amount
		case model.VarShortage:
			shortage += amount
		case model.VarTruckLoad, model.VarTruckUsed, model.VarTruckUsedPattern:
			trucks += amount
		}
	}

	cb := dto.CostBreakdown{
		Production: decimal.NewFromFloat(production).Round(2),
		Transport:  decimal.NewFromFloat(transport).Round(2),
		Storage:    decimal.NewFromFloat(storage).Round(2),
		Labor:      decimal.NewFromFloat(labor).Round(2),
		Shortage:   decimal.NewFromFloat(shortage).Round(2),
		Trucks:     decimal.NewFromFloat(trucks).Round(2),
	}
	cb.Total = cb.Production.Add(cb.Transport).Add(cb.Storage).Add(cb.Labor).Add(cb.Shortage).Add(cb.Trucks)
	return cb
}

func shipmentKeyOf(key model.VarKey) entities.ShipmentKey {
	return entities.ShipmentKey{
		Origin:         key.Node,
		Destination:    key.Dest,
		Mode:           key.Mode,
		Product:        key.Product,
		ProductionDate: key.ProductionDate,
		DeliveryDate:   key.Date,
	}
}
