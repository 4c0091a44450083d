package domain

import (
	"time"

	"github.com/google/uuid"
)

// Courier is the courier capability of an account, not a separate account
// type. An account either has a courier record or it does not.
//
// The identity-document photo references are write-only: they are accepted
// on registration and never echoed back through any view.
type Courier struct {
	ID           uuid.UUID
	AccountID    uuid.UUID
	PersonID     uuid.UUID
	VehicleType  SizeType
	HomeAddress  string
	Coordinates  *Coordinates
	IDPhotoFront string
	IDPhotoBack  string
	DLPhotoFront string
	DLPhotoBack  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanCarry reports whether the courier's vehicle fits an item of the given size.
func (c *Courier) CanCarry(size SizeType) bool {
	return size.FitsVehicle(c.VehicleType)
}
