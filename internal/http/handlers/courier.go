package handlers

import (
	"net/http"

	"poslito/internal/domain"
	"poslito/internal/http/middleware"
	"poslito/internal/logx"
	"poslito/internal/service/courier"
)

// CourierHandler handles HTTP requests for courier resources.
type CourierHandler struct {
	usecase courierUsecase
	logger  logx.Logger
}

// NewCourierHandler creates a new CourierHandler.
func NewCourierHandler(logger logx.Logger, uc courierUsecase) *CourierHandler {
	return &CourierHandler{usecase: uc, logger: logger}
}

// Register handles POST /couriers.
func (h *CourierHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerCourierRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	in := courier.RegisterInput{
		VehicleType:  domain.SizeType(req.VehicleType),
		HomeAddress:  req.HomeAddress,
		IDPhotoFront: req.IDPhotoFront,
		IDPhotoBack:  req.IDPhotoBack,
		DLPhotoFront: req.DLPhotoFront,
		DLPhotoBack:  req.DLPhotoBack,
	}
	if req.Coordinates != nil {
		in.Coordinates = &domain.Coordinates{
			Longitude: req.Coordinates.Longitude,
			Latitude:  req.Coordinates.Latitude,
		}
	}

	c, err := h.usecase.Register(r.Context(), middleware.IdentityFrom(r.Context()), in)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, courierToResponse(c))
}

// Me handles GET /couriers/me.
func (h *CourierHandler) Me(w http.ResponseWriter, r *http.Request) {
	c, err := h.usecase.GetByAccount(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, courierToResponse(c))
}

// UpdatePosition handles PUT /couriers/me/position.
func (h *CourierHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	coords := domain.Coordinates{Longitude: req.Longitude, Latitude: req.Latitude}
	if err := h.usecase.UpdatePosition(r.Context(), middleware.IdentityFrom(r.Context()), coords); err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Closest handles GET /couriers/me/deliveries: ready deliveries ranked by
// driving distance for the calling courier.
func (h *CourierHandler) Closest(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.usecase.Closest(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}

	out := make([]candidateResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, candidateToResponse(c))
	}
	writeJSON(h.logger, w, r, http.StatusOK, out)
}
