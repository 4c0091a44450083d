package pricing

import (
	"testing"

	"poslito/internal/domain"
)

func TestPrice(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		meters int64
		size   domain.SizeType
		weight domain.WeightType
		want   string
	}{
		{"base small light", 1000, domain.SizeSmall, domain.WeightLight, "1"},
		{"large heavy truncates", 10000, domain.SizeLarge, domain.WeightHeavy, "13.22"},
		{"medium size only", 10000, domain.SizeMedium, domain.WeightLight, "11"},
		{"medium weight only", 10000, domain.SizeSmall, domain.WeightMedium, "11"},
		{"medium both", 10000, domain.SizeMedium, domain.WeightMedium, "12.1"},
		{"large size light weight", 10000, domain.SizeLarge, domain.WeightLight, "11.5"},
		{"mixed medium size heavy weight", 10000, domain.SizeMedium, domain.WeightHeavy, "12.65"},
		{"zero distance", 0, domain.SizeLarge, domain.WeightHeavy, "0"},
		{"sub-kilometer", 500, domain.SizeSmall, domain.WeightLight, "0.5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Price(tc.meters, tc.size, tc.weight)
			if got.String() != tc.want {
				t.Fatalf("Price(%d, %s, %s) = %s, want %s", tc.meters, tc.size, tc.weight, got, tc.want)
			}
		})
	}
}

func TestPrice_TruncatesNotRounds(t *testing.T) {
	t.Parallel()

	// 10km * 1.15 * 1.15 = 13.225; rounding would give 13.23.
	got := Price(10000, domain.SizeLarge, domain.WeightHeavy)
	if got.String() == "13.23" {
		t.Fatal("price must be truncated, not rounded")
	}
	if got.String() != "13.22" {
		t.Fatalf("got %s, want 13.22", got)
	}
}

func TestPrice_Deterministic(t *testing.T) {
	t.Parallel()

	a := Price(123457, domain.SizeMedium, domain.WeightHeavy)
	b := Price(123457, domain.SizeMedium, domain.WeightHeavy)
	if !a.Equal(b) {
		t.Fatalf("price is not deterministic: %s vs %s", a, b)
	}
}
