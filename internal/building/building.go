package building

import (
	"context"
	"errors"
	"time"
)

var (
	ErrBuildingNotFound   = errors.New("building not found")
	ErrUnitNotFound       = errors.New("unit not found")
	ErrUnitLabelTaken     = errors.New("unit label already used in building")
	ErrInvalidTransition  = errors.New("invalid unit status transition")
	ErrUnknownUnitStatus  = errors.New("unknown unit status")
	ErrBuildingHasNoUnits = errors.New("building has no units")
)

// Unit status constants
const (
	UnitVacant      = "vacant"
	UnitReserved    = "reserved"
	UnitOccupied    = "occupied"
	UnitMaintenance = "maintenance"
)

// Building represents a managed property
type Building struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Floors    int       `json:"floors"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Unit represents a rentable unit within a building
type Unit struct {
	ID              string    `json:"id"`
	OrgID           string    `json:"org_id"`
	BuildingID      string    `json:"building_id"`
	Label           string    `json:"label"`
	Floor           int       `json:"floor"`
	Bedrooms        int       `json:"bedrooms"`
	Bathrooms       int       `json:"bathrooms"`
	AreaSqM         float64   `json:"area_sqm"`
	MarketRentCents int64     `json:"market_rent_cents"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// OccupancySummary aggregates unit statuses for a building
type OccupancySummary struct {
	BuildingID  string `json:"building_id"`
	Total       int    `json:"total"`
	Vacant      int    `json:"vacant"`
	Reserved    int    `json:"reserved"`
	Occupied    int    `json:"occupied"`
	Maintenance int    `json:"maintenance"`
}

// Repository defines the interface for building storage
type Repository interface {
	Create(ctx context.Context, b *Building) error
	GetByID(ctx context.Context, orgID, id string) (*Building, error)
	Update(ctx context.Context, b *Building) error
	List(ctx context.Context, orgID string, limit, offset int) ([]*Building, error)
}

// UnitRepository defines the interface for unit storage
type UnitRepository interface {
	Create(ctx context.Context, u *Unit) error
	GetByID(ctx context.Context, orgID, id string) (*Unit, error)
	GetByLabel(ctx context.Context, orgID, buildingID, label string) (*Unit, error)
	Update(ctx context.Context, u *Unit) error
	UpdateStatus(ctx context.Context, orgID, id, status string) error
	ListByBuilding(ctx context.Context, orgID, buildingID string) ([]*Unit, error)
	CountByStatus(ctx context.Context, orgID, buildingID string) (map[string]int, error)
}

// validTransitions maps a unit status to the statuses it may move to.
var validTransitions = map[string][]string{
	UnitVacant:      {UnitReserved, UnitOccupied, UnitMaintenance},
	UnitReserved:    {UnitVacant, UnitOccupied},
	UnitOccupied:    {UnitVacant},
	UnitMaintenance: {UnitVacant},
}

// CanTransition reports whether a unit may move from one status to another.
func CanTransition(from, to string) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether status is a known unit status.
func ValidStatus(status string) bool {
	switch status {
	case UnitVacant, UnitReserved, UnitOccupied, UnitMaintenance:
		return true
	}
	return false
}
