package repositories

import "github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"

// NetworkRepository provides the static network definition: nodes, routes,
// truck schedules and opening inventory
type NetworkRepository interface {
	GetNodes() ([]entities.Node, error)
	GetRoutes() ([]entities.Route, error)
	GetTrucks() ([]entities.TruckSchedule, error)
	GetInitialInventory() ([]entities.InitialInventory, error)
}
