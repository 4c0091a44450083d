package broadcast

import (
	"sync"

	"github.com/google/uuid"
)

// GlobalGroup receives every courier position regardless of delivery.
const GlobalGroup = "group_ALL"

// DeliveryGroup names the broadcast group for one delivery's live positions.
func DeliveryGroup(safeID uuid.UUID) string {
	return "group_" + safeID.String()
}

// Subscriber is the receiving end of one live connection. Send must not
// block: implementations enqueue and drop when the peer cannot keep up.
type Subscriber interface {
	Send(payload []byte)
}

// Hub is the process-wide group membership registry and fan-out bus.
// It is safe for concurrent join/leave/publish from any number of
// connections. Messages published by a single sender reach every member in
// the order they were published.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[Subscriber]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{groups: make(map[string]map[Subscriber]struct{})}
}

// Join adds the subscriber to a group. Joining twice is a no-op.
func (h *Hub) Join(group string, s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.groups[group]
	if !ok {
		members = make(map[Subscriber]struct{})
		h.groups[group] = members
	}
	members[s] = struct{}{}
}

// Leave removes the subscriber from every group it joined. Empty groups are
// dropped so the registry does not grow with closed deliveries.
func (h *Hub) Leave(s Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for name, members := range h.groups {
		delete(members, s)
		if len(members) == 0 {
			delete(h.groups, name)
		}
	}
}

// Publish fans the payload out to every member of the group, including the
// sender if it is a member.
func (h *Hub) Publish(group string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.groups[group] {
		s.Send(payload)
	}
}

// Members returns the current size of a group.
func (h *Hub) Members(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}
