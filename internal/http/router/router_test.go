package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"poslito/internal/broadcast"
	"poslito/internal/domain"
	"poslito/internal/http/handlers"
	"poslito/internal/http/router"
	"poslito/internal/logx"
)

type stubResolver struct{}

func (stubResolver) Resolve(context.Context, string) (domain.Identity, error) {
	return domain.Identity{}, nil
}

func newRouter() http.Handler {
	logger := logx.Nop()
	return router.New(router.Deps{
		Logger:     logger,
		Base:       handlers.New(logger),
		Deliveries: handlers.NewDeliveryHandler(logger, nil),
		Couriers:   handlers.NewCourierHandler(logger, nil),
		Routes:     handlers.NewRouteHandler(logger, nil),
		Broadcast:  broadcast.NewHandler(broadcast.NewHub(), nil, nil, nil, logger, nil),
		Resolver:   stubResolver{},
	})
}

func TestRouter_PublicEndpoints(t *testing.T) {
	t.Parallel()

	r := newRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/healthcheck", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ProtectedEndpointsRequireAuth(t *testing.T) {
	t.Parallel()

	r := newRouter()

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/deliveries"},
		{http.MethodGet, "/deliveries"},
		{http.MethodPost, "/couriers"},
		{http.MethodGet, "/couriers/me"},
		{http.MethodGet, "/couriers/me/deliveries"},
		{http.MethodGet, "/routes"},
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouter_UnknownRouteIsJSON404(t *testing.T) {
	t.Parallel()

	r := newRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"route not found"}`, rec.Body.String())
}
