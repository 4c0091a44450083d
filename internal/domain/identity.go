package domain

import "github.com/google/uuid"

// Identity is the authenticated capability set attached to a request or
// connection by the auth gateway. Token validation and issuance happen
// outside this service; identity only carries the resolved flags.
type Identity struct {
	AccountID uuid.UUID
	PersonID  uuid.UUID
	IsAdmin   bool
	Courier   *Courier
}

// Anonymous reports whether the identity carries no authenticated account.
func (i Identity) Anonymous() bool {
	return i.AccountID == uuid.Nil
}

// IsCourier reports whether the identity has the courier capability.
func (i Identity) IsCourier() bool {
	return i.Courier != nil
}

// CanChangeDeliveryState reports whether this identity may request a state
// change on the delivery. Admins always may; a courier may while the delivery
// is still ready (claiming it) or when they are its assigned courier.
func (i Identity) CanChangeDeliveryState(d *Delivery) bool {
	if i.IsAdmin {
		return true
	}
	if !i.IsCourier() {
		return false
	}
	if d.State == StateReady {
		return true
	}
	return d.CourierID != nil && *d.CourierID == i.Courier.ID
}

// OwnsDelivery reports whether the identity is the sender or the receiver of
// the delivery.
func (i Identity) OwnsDelivery(d *Delivery) bool {
	if i.PersonID != uuid.Nil && (i.PersonID == d.Sender.ID || i.PersonID == d.Receiver.ID) {
		return true
	}
	return d.ReceiverAccountID != nil && *d.ReceiverAccountID == i.AccountID && i.AccountID != uuid.Nil
}
