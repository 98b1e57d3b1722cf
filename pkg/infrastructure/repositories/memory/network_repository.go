package memory

import (
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/entities"
	"github.com/sverzijl/planning-latest-sub005/pkg/domain/repositories"
)

// NetworkRepository provides in-memory network definition storage
type NetworkRepository struct {
	nodes     []entities.Node
	routes    []entities.Route
	trucks    []entities.TruckSchedule
	inventory []entities.InitialInventory
}

// NewNetworkRepository creates a new in-memory network repository
func NewNetworkRepository() *NetworkRepository {
	return &NetworkRepository{}
}

// Verify interface compliance
var _ repositories.NetworkRepository = (*NetworkRepository)(nil)

// LoadNodes loads network nodes
func (r *NetworkRepository) LoadNodes(nodes []entities.Node) error {
	r.nodes = append(r.nodes, nodes...)
	return nil
}

// LoadRoutes loads network routes
func (r *NetworkRepository) LoadRoutes(routes []entities.Route) error {
	r.routes = append(r.routes, routes...)
	return nil
}

// LoadTrucks loads truck schedules
func (r *NetworkRepository) LoadTrucks(trucks []entities.TruckSchedule) error {
	r.trucks = append(r.trucks, trucks...)
	return nil
}

// LoadInitialInventory loads opening inventory
func (r *NetworkRepository) LoadInitialInventory(inv []entities.InitialInventory) error {
	for _, lot := range inv {
		lot.ProductionDate = entities.DayOf(lot.ProductionDate)
		r.inventory = append(r.inventory, lot)
	}
	return nil
}

// GetNodes returns all nodes
func (r *NetworkRepository) GetNodes() ([]entities.Node, error) {
	return r.nodes, nil
}

// GetRoutes returns all routes
func (r *NetworkRepository) GetRoutes() ([]entities.Route, error) {
	return r.routes, nil
}

// GetTrucks returns all truck schedules
func (r *NetworkRepository) GetTrucks() ([]entities.TruckSchedule, error) {
	return r.trucks, nil
}

// GetInitialInventory returns opening inventory
func (r *NetworkRepository) GetInitialInventory() ([]entities.InitialInventory, error) {
	return r.inventory, nil
}
