package domain

// DeliveryState represents the lifecycle state of a delivery.
type DeliveryState string

// List of possible delivery states.
//
//	ready         - delivery is waiting to be claimed by a courier
//	assigned      - courier is picking up the delivery
//	delivering    - courier is transporting the delivery
//	delivered     - delivery reached the receiver (terminal)
//	undeliverable - delivery could not be completed (terminal)
const (
	StateReady         DeliveryState = "ready"
	StateAssigned      DeliveryState = "assigned"
	StateDelivering    DeliveryState = "delivering"
	StateDelivered     DeliveryState = "delivered"
	StateUndeliverable DeliveryState = "undeliverable"
)

var allowedStates = [...]DeliveryState{
	StateReady, StateAssigned, StateDelivering, StateDelivered, StateUndeliverable,
}

// Valid checks if the DeliveryState is one of the defined states.
func (s DeliveryState) Valid() bool {
	for _, v := range allowedStates {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible from s.
func (s DeliveryState) Terminal() bool {
	return s == StateDelivered || s == StateUndeliverable
}

// Active reports whether a delivery in state s is being transported.
// Only active deliveries accept broadcast group membership.
func (s DeliveryState) Active() bool {
	return s == StateAssigned || s == StateDelivering
}

// CanTransitionTo reports whether the edge s -> next is in the allowed graph.
// The only permitted edges are ready->assigned, assigned->delivering,
// delivering->delivered and delivering->undeliverable.
func (s DeliveryState) CanTransitionTo(next DeliveryState) bool {
	switch s {
	case StateReady:
		return next == StateAssigned
	case StateAssigned:
		return next == StateDelivering
	case StateDelivering:
		return next == StateDelivered || next == StateUndeliverable
	default:
		return false
	}
}

// RequiresCourier reports whether a delivery in state s must carry a courier.
// Mirrors the invariant: courier is set iff state is past ready.
func (s DeliveryState) RequiresCourier() bool {
	return s.Valid() && s != StateReady
}
