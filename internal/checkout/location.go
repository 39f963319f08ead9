package checkout

import (
	"grocery-pos/internal/model"
)

// LocationSelector picks the warehouse a sale is fulfilled from.
type LocationSelector interface {
	Select(locations []model.Warehouse) (model.Warehouse, error)
}

// FirstAvailable selects the first location in provider order.
type FirstAvailable struct{}

// Select returns locations[0].
func (FirstAvailable) Select(locations []model.Warehouse) (model.Warehouse, error) {
	if len(locations) == 0 {
		return model.Warehouse{}, model.ErrNoWarehouse
	}
	return locations[0], nil
}

// Preferred selects the location with the configured ID and falls back to
// the first available one when it is not active.
type Preferred struct {
	ID string
}

// Select returns the preferred location if present.
func (p Preferred) Select(locations []model.Warehouse) (model.Warehouse, error) {
	for _, l := range locations {
		if l.ID == p.ID {
			return l, nil
		}
	}
	return FirstAvailable{}.Select(locations)
}

// NewLocationSelector returns Preferred when an ID is configured and
// FirstAvailable otherwise.
func NewLocationSelector(preferredID string) LocationSelector {
	if preferredID == "" {
		return FirstAvailable{}
	}
	return Preferred{ID: preferredID}
}
