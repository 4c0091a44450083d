package handlers

import (
	"net/http"

	"poslito/internal/domain"
	"poslito/internal/http/middleware"
	"poslito/internal/logx"
	"poslito/internal/service/delivery"
)

// DeliveryHandler handles HTTP requests for delivery resources.
type DeliveryHandler struct {
	usecase deliveryUsecase
	logger  logx.Logger
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(logger logx.Logger, uc deliveryUsecase) *DeliveryHandler {
	return &DeliveryHandler{usecase: uc, logger: logger}
}

// Create handles POST /deliveries.
func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDeliveryRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	identity := middleware.IdentityFrom(r.Context())
	d, err := h.usecase.Create(r.Context(), createInputFromRequest(req, identity))
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, deliveryToResponse(d, ""))
}

// List handles GET /deliveries.
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFrom(r.Context())
	ds, err := h.usecase.List(r.Context(), identity)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}

	out := make([]deliveryResponse, 0, len(ds))
	for _, d := range ds {
		role := roleFor(identity, d)
		out = append(out, deliveryToResponse(d, role))
	}
	writeJSON(h.logger, w, r, http.StatusOK, out)
}

// Get handles GET /deliveries/{id}.
func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidFromURL(r, "id")
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}

	d, role, err := h.usecase.Get(r.Context(), id, middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(d, role))
}

// GetSafe handles GET /deliveries/safe/{safeID}: the courier-facing view.
func (h *DeliveryHandler) GetSafe(w http.ResponseWriter, r *http.Request) {
	safeID, err := uuidFromURL(r, "safeID")
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}

	d, err := h.usecase.GetSafe(r.Context(), safeID)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, safeDeliveryToResponse(d))
}

// Transition handles PATCH /deliveries/safe/{safeID}/state.
func (h *DeliveryHandler) Transition(w http.ResponseWriter, r *http.Request) {
	safeID, err := uuidFromURL(r, "safeID")
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}

	var req transitionRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	identity := middleware.IdentityFrom(r.Context())
	d, err := h.usecase.Transition(r.Context(), safeID, domain.DeliveryState(req.State), identity)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, safeDeliveryToResponse(d.SafeView()))
}

func roleFor(identity domain.Identity, d *domain.Delivery) delivery.Role {
	if identity.PersonID == d.Sender.ID {
		return delivery.RoleSender
	}
	return delivery.RoleReceiver
}
