package entities

// ProductState represents the storage/transit state of a cohort
type ProductState int

const (
	Frozen ProductState = iota
	Ambient
	Thawed
)

// Shelf-life budgets in days for each product state. A cohort whose age in
// its current state exceeds the budget can no longer be sold or shipped.
const (
	FrozenShelfLifeDays  = 120
	AmbientShelfLifeDays = 17
	ThawedShelfLifeDays  = 14
)

// ShelfLifeDays returns the shelf-life budget for a product state
func ShelfLifeDays(s ProductState) int {
	switch s {
	case Frozen:
		return FrozenShelfLifeDays
	case Thawed:
		return ThawedShelfLifeDays
	default:
		return AmbientShelfLifeDays
	}
}

// String method for ProductState enum
func (s ProductState) String() string {
	switch s {
	case Frozen:
		return "frozen"
	case Ambient:
		return "ambient"
	case Thawed:
		return "thawed"
	default:
		return "unknown"
	}
}

// StorageMode represents what temperature regimes a node can hold inventory in
type StorageMode int

const (
	StorageFrozenOnly StorageMode = iota
	StorageAmbientOnly
	StorageBoth
)

// Supports reports whether inventory in state s can be held under this mode.
// Thawed product is ambient-temperature product, so ambient storage holds it.
func (m StorageMode) Supports(s ProductState) bool {
	switch m {
	case StorageFrozenOnly:
		return s == Frozen
	case StorageAmbientOnly:
		return s == Ambient || s == Thawed
	default:
		return true
	}
}

// States lists the product states this storage mode can hold
func (m StorageMode) States() []ProductState {
	switch m {
	case StorageFrozenOnly:
		return []ProductState{Frozen}
	case StorageAmbientOnly:
		return []ProductState{Ambient, Thawed}
	default:
		return []ProductState{Frozen, Ambient, Thawed}
	}
}

// String method for StorageMode enum
func (m StorageMode) String() string {
	switch m {
	case StorageFrozenOnly:
		return "frozen-only"
	case StorageAmbientOnly:
		return "ambient-only"
	case StorageBoth:
		return "both"
	default:
		return "unknown"
	}
}

// TransportMode represents the temperature regime of a route
type TransportMode int

const (
	TransportFrozen TransportMode = iota
	TransportAmbient
)

// State returns the product state goods are in while moving under this mode
func (m TransportMode) State() ProductState {
	if m == TransportFrozen {
		return Frozen
	}
	return Ambient
}

// String method for TransportMode enum
func (m TransportMode) String() string {
	if m == TransportFrozen {
		return "frozen"
	}
	return "ambient"
}
