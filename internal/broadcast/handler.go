package broadcast

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"poslito/internal/apperr"
	"poslito/internal/domain"
	"poslito/internal/logx"
)

var (
	errMalformedJSON  = errors.New("malformed json")
	errBadPosition    = errors.New("invalid position")
	errNotInTransport = errors.New("delivery is not being transported")
)

// DeliveryFinder resolves a delivery by its public safe id. A missing
// delivery is reported as (nil, nil).
type DeliveryFinder interface {
	GetBySafeID(ctx context.Context, safeID uuid.UUID) (*domain.Delivery, error)
}

// PositionStore persists the latest known coordinates of a courier.
type PositionStore interface {
	SetPosition(ctx context.Context, courierID uuid.UUID, coords domain.Coordinates) error
}

// TokenResolver turns a websocket token into an identity.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (domain.Identity, error)
}

// Handler upgrades live-tracking requests to websockets and runs the
// per-connection message loop against the hub.
type Handler struct {
	hub        *Hub
	deliveries DeliveryFinder
	positions  PositionStore
	auth       TokenResolver
	logger     logx.Logger
	messages   *prometheus.CounterVec
	upgrader   websocket.Upgrader
}

// NewHandler creates a websocket handler. positions and messages may be nil.
func NewHandler(hub *Hub, deliveries DeliveryFinder, positions PositionStore, auth TokenResolver, logger logx.Logger, messages *prometheus.CounterVec) *Handler {
	return &Handler{
		hub:        hub,
		deliveries: deliveries,
		positions:  positions,
		auth:       auth,
		logger:     logger,
		messages:   messages,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// membership is the result of a successful handshake: the group the
// connection posts to and, for delivery groups, the assigned courier.
type membership struct {
	group     string
	courierID *uuid.UUID
}

// ServeGlobal handles connections to the global position feed.
func (h *Handler) ServeGlobal(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "")
}

// ServeDelivery handles connections scoped to one delivery.
func (h *Handler) ServeDelivery(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, chi.URLParam(r, "deliveryID"))
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, rawDeliveryID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", logx.Err(err))
		return
	}
	s := newSession(conn)
	go s.writeLoop()
	defer func() {
		h.hub.Leave(s)
		s.close()
	}()

	identity := domain.Identity{}
	if token := r.URL.Query().Get("token"); token != "" {
		resolved, err := h.auth.Resolve(r.Context(), token)
		if err != nil {
			s.Send(errorMessage("invalid token"))
			return
		}
		identity = resolved
	}

	m, err := h.join(r.Context(), s, identity, rawDeliveryID)
	if err != nil {
		s.Send(joinErrorMessage(err))
		return
	}

	h.readLoop(r.Context(), conn, s, identity, m)
}

// join validates the handshake and registers the session with its groups.
func (h *Handler) join(ctx context.Context, s *session, identity domain.Identity, rawDeliveryID string) (membership, error) {
	if rawDeliveryID == "" {
		h.hub.Join(GlobalGroup, s)
		return membership{group: GlobalGroup}, nil
	}

	safeID, err := uuid.Parse(rawDeliveryID)
	if err != nil {
		return membership{}, fmt.Errorf("%w: delivery id is not a valid uuid", apperr.Invalid)
	}
	delivery, err := h.deliveries.GetBySafeID(ctx, safeID)
	if err != nil {
		return membership{}, fmt.Errorf("get delivery for broadcast: %w", err)
	}
	if delivery == nil {
		return membership{}, fmt.Errorf("%w: delivery %s", apperr.NotFound, safeID)
	}
	if !delivery.State.Active() {
		return membership{}, errNotInTransport
	}

	h.hub.Join(DeliveryGroup(safeID), s)
	// The courier carrying this delivery also feeds the global map.
	if identity.Courier != nil && delivery.CourierID != nil && identity.Courier.ID == *delivery.CourierID {
		h.hub.Join(GlobalGroup, s)
	}
	return membership{group: DeliveryGroup(safeID), courierID: delivery.CourierID}, nil
}

func joinErrorMessage(err error) []byte {
	switch {
	case errors.Is(err, apperr.Invalid):
		return errorMessage("delivery id is not a valid uuid")
	case errors.Is(err, apperr.NotFound):
		return errorMessage("delivery not found")
	case errors.Is(err, errNotInTransport):
		return errorMessage("delivery is not being transported")
	default:
		return errorMessage("unable to join delivery group")
	}
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, s *session, identity domain.Identity, m membership) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		h.handleMessage(ctx, s, identity, m, raw)
	}
}

// handleMessage validates one inbound position and fans it out. Rejections
// go back to the sender only; the connection stays open.
func (h *Handler) handleMessage(ctx context.Context, s *session, identity domain.Identity, m membership, raw []byte) {
	if !identity.IsCourier() {
		h.count("unauthorized")
		s.Send(errorMessage("only couriers may send position updates"))
		return
	}

	body, coords, err := parsePosition(raw)
	switch {
	case errors.Is(err, errMalformedJSON):
		h.count("malformed")
		s.Send(formatErrorMessage("message must be a json object"))
		return
	case errors.Is(err, errBadPosition):
		h.count("invalid_position")
		s.Send(formatErrorMessage("latitude must be within [-90, 90] and longitude within [-180, 180]"))
		return
	}

	courierID := identity.Courier.ID
	if m.group != GlobalGroup {
		if m.courierID == nil || *m.courierID != courierID {
			h.count("unauthorized")
			s.Send(errorMessage("only the assigned courier may post to this delivery"))
			return
		}
	}

	if h.positions != nil {
		if err := h.positions.SetPosition(ctx, courierID, coords); err != nil {
			h.logger.Warn("persist courier position", logx.String("courier_id", courierID.String()), logx.Err(err))
		}
	}

	payload := augment(body, courierID)
	h.hub.Publish(m.group, payload)
	if m.group != GlobalGroup {
		h.hub.Publish(GlobalGroup, payload)
	}
	h.count("broadcast")
}

func (h *Handler) count(outcome string) {
	if h.messages != nil {
		h.messages.WithLabelValues(outcome).Inc()
	}
}
