package notify

import (
	"time"

	"poslito/internal/domain"
)

// Event kinds published on the delivery lifecycle.
const (
	KindDeliveryCreated   = "delivery_created"
	KindDeliveryAssigned  = "delivery_assigned"
	KindDeliveryDelivered = "delivery_delivered"
)

// Event is one delivery lifecycle notification. The worker turns these into
// outbound emails, so the event carries the addresses it needs rather than
// forcing the worker back to the database.
type Event struct {
	Kind           string    `json:"kind"`
	DeliverySafeID string    `json:"delivery_safe_id"`
	State          string    `json:"state"`
	ItemName       string    `json:"item_name"`
	SenderEmail    string    `json:"sender_email"`
	ReceiverEmail  string    `json:"receiver_email"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func newEvent(kind string, d *domain.Delivery) Event {
	return Event{
		Kind:           kind,
		DeliverySafeID: d.SafeID.String(),
		State:          string(d.State),
		ItemName:       d.Item.Name,
		SenderEmail:    d.Sender.Email,
		ReceiverEmail:  d.Receiver.Email,
		OccurredAt:     time.Now().UTC(),
	}
}

// CreatedEvent announces a new delivery to its receiver.
func CreatedEvent(d *domain.Delivery) Event { return newEvent(KindDeliveryCreated, d) }

// AssignedEvent announces that a courier took the delivery.
func AssignedEvent(d *domain.Delivery) Event { return newEvent(KindDeliveryAssigned, d) }

// DeliveredEvent announces arrival.
func DeliveredEvent(d *domain.Delivery) Event { return newEvent(KindDeliveryDelivered, d) }
