package domain

import "testing"

func TestDeliveryState_Valid(t *testing.T) {
	t.Parallel()

	for _, s := range allowedStates {
		if !s.Valid() {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	if DeliveryState("shipped").Valid() {
		t.Fatal("unknown state must be invalid")
	}
	if DeliveryState("").Valid() {
		t.Fatal("empty state must be invalid")
	}
}

func TestDeliveryState_CanTransitionTo_AllowedEdges(t *testing.T) {
	t.Parallel()

	allowed := map[DeliveryState][]DeliveryState{
		StateReady:      {StateAssigned},
		StateAssigned:   {StateDelivering},
		StateDelivering: {StateDelivered, StateUndeliverable},
	}

	for _, from := range allowedStates {
		for _, to := range allowedStates {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			if got := from.CanTransitionTo(to); got != want {
				t.Fatalf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestDeliveryState_NoOpAndBackwardEdgesRejected(t *testing.T) {
	t.Parallel()

	for _, s := range allowedStates {
		if s.CanTransitionTo(s) {
			t.Fatalf("no-op transition %s -> %s must be rejected", s, s)
		}
	}
	if StateAssigned.CanTransitionTo(StateReady) {
		t.Fatal("backward transition must be rejected")
	}
	if StateReady.CanTransitionTo(StateDelivering) {
		t.Fatal("skipping states must be rejected")
	}
	if StateReady.CanTransitionTo(StateDelivered) {
		t.Fatal("skipping to terminal must be rejected")
	}
}

func TestDeliveryState_Terminal(t *testing.T) {
	t.Parallel()

	for _, s := range []DeliveryState{StateDelivered, StateUndeliverable} {
		if !s.Terminal() {
			t.Fatalf("%s must be terminal", s)
		}
		for _, to := range allowedStates {
			if s.CanTransitionTo(to) {
				t.Fatalf("terminal %s must not transition to %s", s, to)
			}
		}
	}
	if StateReady.Terminal() || StateAssigned.Terminal() || StateDelivering.Terminal() {
		t.Fatal("non-terminal states reported terminal")
	}
}

func TestDeliveryState_Active(t *testing.T) {
	t.Parallel()

	if !StateAssigned.Active() || !StateDelivering.Active() {
		t.Fatal("assigned/delivering must be active")
	}
	if StateReady.Active() || StateDelivered.Active() || StateUndeliverable.Active() {
		t.Fatal("only assigned/delivering are active")
	}
}

func TestDeliveryState_RequiresCourier(t *testing.T) {
	t.Parallel()

	if StateReady.RequiresCourier() {
		t.Fatal("ready must not require a courier")
	}
	for _, s := range []DeliveryState{StateAssigned, StateDelivering, StateDelivered, StateUndeliverable} {
		if !s.RequiresCourier() {
			t.Fatalf("%s must require a courier", s)
		}
	}
	if DeliveryState("bogus").RequiresCourier() {
		t.Fatal("invalid state must not require a courier")
	}
}
