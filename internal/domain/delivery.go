package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"poslito/internal/apperr"
)

// Item describes the parcel being transported. An item belongs to exactly
// one delivery.
type Item struct {
	ID          uuid.UUID
	Name        string
	Description string
	Size        SizeType
	Weight      WeightType
	Fragile     bool
}

// Delivery represents one parcel transport request and its lifecycle state.
//
// ID is the owner-facing identifier; SafeID is the courier-facing identifier
// that never leaks sender or receiver data before assignment. CourierID is
// set iff State is past ready. Deliveries are never deleted; terminal states
// close them logically.
type Delivery struct {
	ID                uuid.UUID
	SafeID            uuid.UUID
	Sender            Person
	Receiver          Person
	ReceiverAccountID *uuid.UUID
	Item              Item
	PickupPlace       Place
	DeliveryPlace     Place
	CourierID         *uuid.UUID
	State             DeliveryState
	DistanceMeters    int64
	DurationSeconds   int64
	Price             decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SafeDelivery is the non-sensitive projection of a delivery exposed to
// couriers browsing for work. It must not carry sender or receiver identity.
type SafeDelivery struct {
	SafeID        uuid.UUID
	CreatedAt     time.Time
	Item          Item
	PickupPlace   Place
	DeliveryPlace Place
	State         DeliveryState
}

// SafeView returns the courier-facing projection of the delivery.
func (d *Delivery) SafeView() SafeDelivery {
	return SafeDelivery{
		SafeID:        d.SafeID,
		CreatedAt:     d.CreatedAt,
		Item:          d.Item,
		PickupPlace:   d.PickupPlace,
		DeliveryPlace: d.DeliveryPlace,
		State:         d.State,
	}
}

// ConsistentCourier reports whether the courier field and state satisfy the
// invariant: courier set iff state is one of assigned/delivering/delivered/undeliverable.
func (d *Delivery) ConsistentCourier() bool {
	if d.State.RequiresCourier() {
		return d.CourierID != nil
	}
	return d.CourierID == nil
}

// Validate checks the item's required fields.
func (i Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return errRequired("item.name")
	}
	if !i.Size.Valid() {
		return errRequired("item.size")
	}
	if !i.Weight.Valid() {
		return errRequired("item.weight")
	}
	return nil
}

// Validate checks required fields of a delivery request before creation.
func (d *Delivery) Validate() error {
	if err := d.Item.Validate(); err != nil {
		return err
	}
	if err := d.Receiver.Validate(); err != nil {
		return err
	}
	if err := d.PickupPlace.Validate(); err != nil {
		return err
	}
	if err := d.DeliveryPlace.Validate(); err != nil {
		return err
	}
	return nil
}

func errRequired(field string) error {
	return apperr.NewValidationError(field, "missing or invalid", "")
}
