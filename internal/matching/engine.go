package matching

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"poslito/internal/domain"
	"poslito/internal/geo"
	"poslito/internal/logx"
)

// DefaultCandidateLimit bounds how many deliveries move on to the route
// re-rank phase, and with it the number of external routing calls per request.
const DefaultCandidateLimit = 10

type counter interface {
	Inc()
}

// Candidate is one matched delivery with its driving distance from the
// courier. RouteMeters is math.MaxInt64 when the provider could not rank it.
type Candidate struct {
	Delivery    domain.SafeDelivery
	RouteMeters int64
}

// Engine ranks ready deliveries for a courier in two phases: a cheap geodesic
// pre-rank that picks the nearest candidates, then a driving-distance re-rank
// against the external provider for those candidates only.
type Engine struct {
	provider geo.DistanceProvider
	timeout  time.Duration
	limit    int
	logger   logx.Logger
	failures counter
}

// NewEngine creates a matching engine. timeout bounds the whole re-rank phase;
// limit caps the candidate shortlist (DefaultCandidateLimit when <= 0).
func NewEngine(provider geo.DistanceProvider, timeout time.Duration, limit int, logger logx.Logger, failures counter) *Engine {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}
	return &Engine{provider: provider, timeout: timeout, limit: limit, logger: logger, failures: failures}
}

// Match returns the ranked shortlist of ready deliveries the courier could
// accept, carrying safe views only.
//
// Deliveries whose item does not fit the vehicle are dropped. With courier
// coordinates the remainder is pre-ranked by geodesic distance to the pickup
// place and cut to the candidate limit before the provider re-rank; without
// coordinates the pre-rank is skipped and candidates keep their stable input
// order. A provider failure ranks that single candidate last instead of
// failing the request.
func (e *Engine) Match(ctx context.Context, vehicle domain.SizeType, point *domain.Coordinates, ready []*domain.Delivery) []Candidate {
	eligible := make([]*domain.Delivery, 0, len(ready))
	for _, d := range ready {
		if d.State != domain.StateReady {
			continue
		}
		if d.Item.Size.FitsVehicle(vehicle) {
			eligible = append(eligible, d)
		}
	}
	if len(eligible) == 0 {
		return []Candidate{}
	}

	if point != nil {
		sort.SliceStable(eligible, func(i, j int) bool {
			return geo.Geodesic(*point, eligible[i].PickupPlace.Coordinates) <
				geo.Geodesic(*point, eligible[j].PickupPlace.Coordinates)
		})
	}
	if len(eligible) > e.limit {
		eligible = eligible[:e.limit]
	}

	out := make([]Candidate, len(eligible))
	for i, d := range eligible {
		out[i] = Candidate{Delivery: d.SafeView(), RouteMeters: math.MaxInt64}
	}

	// Without an origin there is nothing to ask the provider; every candidate
	// would rank "unknown" anyway, which the stable sort leaves untouched.
	if point == nil {
		return out
	}

	e.reRank(ctx, *point, eligible, out)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RouteMeters < out[j].RouteMeters
	})
	return out
}

// reRank queries driving distances concurrently; the shared lock-free result
// slot per candidate keeps provider latency from serializing the request.
func (e *Engine) reRank(ctx context.Context, point domain.Coordinates, eligible []*domain.Delivery, out []Candidate) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for i, d := range eligible {
		g.Go(func() error {
			meters, err := e.provider.DistanceFromPoint(ctx, point, d.PickupPlace.PlaceID)
			if err != nil {
				if e.failures != nil {
					e.failures.Inc()
				}
				e.logger.Warn("route re-rank degraded for candidate",
					logx.String("safe_id", d.SafeID.String()),
					logx.String("place_id", d.PickupPlace.PlaceID),
					logx.Err(err),
				)
				return nil
			}
			out[i].RouteMeters = meters
			return nil
		})
	}
	// Workers only ever return nil; degradation is per candidate.
	_ = g.Wait()
}
