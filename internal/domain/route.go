package domain

import (
	"time"

	"github.com/google/uuid"
)

// Route holds the driving route computed for a delivery right after creation:
// an encoded polyline plus the ordered step coordinates. One route per delivery.
type Route struct {
	ID         uuid.UUID
	DeliveryID uuid.UUID
	Polyline   string
	Steps      []Coordinates
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
