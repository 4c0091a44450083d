package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"poslito/internal/broadcast"
	"poslito/internal/http/handlers"
	"poslito/internal/http/middleware"
	"poslito/internal/logx"
)

// Deps collects everything the router mounts.
type Deps struct {
	Logger     logx.Logger
	Base       *handlers.Handlers
	Deliveries *handlers.DeliveryHandler
	Couriers   *handlers.CourierHandler
	Routes     *handlers.RouteHandler
	Broadcast  *broadcast.Handler
	Resolver   middleware.IdentityResolver

	// MatchLimiter guards the matching endpoint; nil disables limiting.
	MatchLimiter func(http.Handler) http.Handler
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Observability(d.Logger))
	r.Use(middleware.Auth(d.Resolver, d.Logger))

	r.Get("/ping", d.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(d.Base.HealthcheckHead))
	r.Handle("/metrics", promhttp.Handler())

	// websocket routes are long-lived, so they sit outside the timeout group
	r.Get("/ws/couriers", d.Broadcast.ServeGlobal)
	r.Get("/ws/couriers/{deliveryID}", d.Broadcast.ServeDelivery)

	// tracking view for receivers following a link, no account needed
	r.Get("/deliveries/safe/{safeID}", d.Deliveries.GetSafe)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(middleware.RequireAuth)

		r.Post("/deliveries", d.Deliveries.Create)
		r.Get("/deliveries", d.Deliveries.List)
		r.Get("/deliveries/{id}", d.Deliveries.Get)
		r.Patch("/deliveries/safe/{safeID}/state", d.Deliveries.Transition)

		r.Post("/couriers", d.Couriers.Register)
		r.Get("/couriers/me", d.Couriers.Me)
		r.Put("/couriers/me/position", d.Couriers.UpdatePosition)

		r.Group(func(r chi.Router) {
			if d.MatchLimiter != nil {
				r.Use(d.MatchLimiter)
			}
			r.Get("/couriers/me/deliveries", d.Couriers.Closest)
		})

		r.Get("/routes", d.Routes.List)
		r.Get("/routes/{safeID}", d.Routes.Get)
	})

	r.NotFound(http.HandlerFunc(d.Base.NotFound))

	return r
}
