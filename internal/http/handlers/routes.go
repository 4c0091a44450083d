package handlers

import (
	"net/http"

	"poslito/internal/logx"
)

// RouteHandler handles HTTP requests for stored delivery routes.
type RouteHandler struct {
	usecase deliveryUsecase
	logger  logx.Logger
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(logger logx.Logger, uc deliveryUsecase) *RouteHandler {
	return &RouteHandler{usecase: uc, logger: logger}
}

// Get handles GET /routes/{safeID}.
func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	safeID, err := uuidFromURL(r, "safeID")
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}

	route, err := h.usecase.Route(r.Context(), safeID)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, routeToResponse(route))
}

// List handles GET /routes, optionally filtered with ?address=.
func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	routes, err := h.usecase.ListRoutes(r.Context(), r.URL.Query().Get("address"))
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}

	out := make([]routeResponse, 0, len(routes))
	for _, route := range routes {
		out = append(out, routeToResponse(route))
	}
	writeJSON(h.logger, w, r, http.StatusOK, out)
}
