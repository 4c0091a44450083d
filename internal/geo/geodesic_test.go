package geo

import (
	"math"
	"testing"

	"poslito/internal/domain"
)

func TestGeodesic_ZeroForSamePoint(t *testing.T) {
	t.Parallel()

	p := domain.Coordinates{Longitude: 17.1077, Latitude: 48.1486}
	if d := Geodesic(p, p); d != 0 {
		t.Fatalf("distance to self = %f, want 0", d)
	}
}

func TestGeodesic_KnownDistance(t *testing.T) {
	t.Parallel()

	// Bratislava -> Vienna, roughly 55 km apart.
	bratislava := domain.Coordinates{Longitude: 17.1077, Latitude: 48.1486}
	vienna := domain.Coordinates{Longitude: 16.3738, Latitude: 48.2082}

	d := Geodesic(bratislava, vienna)
	if d < 50000 || d > 60000 {
		t.Fatalf("Bratislava-Vienna = %f m, want about 55 km", d)
	}
}

func TestGeodesic_Symmetric(t *testing.T) {
	t.Parallel()

	a := domain.Coordinates{Longitude: 20.10, Latitude: 49.09}
	b := domain.Coordinates{Longitude: 17.09, Latitude: 48.14}

	if math.Abs(Geodesic(a, b)-Geodesic(b, a)) > 1e-6 {
		t.Fatal("geodesic distance must be symmetric")
	}
}

func TestGeodesic_Monotonic(t *testing.T) {
	t.Parallel()

	origin := domain.Coordinates{Longitude: 0, Latitude: 0}
	near := domain.Coordinates{Longitude: 0.1, Latitude: 0.1}
	far := domain.Coordinates{Longitude: 1, Latitude: 1}

	if Geodesic(origin, near) >= Geodesic(origin, far) {
		t.Fatal("nearer point must have smaller geodesic distance")
	}
}
