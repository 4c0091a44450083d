package pricing

import (
	"github.com/shopspring/decimal"

	"poslito/internal/domain"
)

// Base rate is one currency unit per kilometer of route distance.
var (
	metersPerKilometer = decimal.NewFromInt(1000)
	mediumMultiplier   = decimal.RequireFromString("1.10")
	largeMultiplier    = decimal.RequireFromString("1.15")
)

// Price computes the delivery price from route distance and item classifiers.
//
// The size and weight multipliers compose independently: medium size or medium
// weight applies x1.10, large size or heavy weight applies x1.15, small size
// and light weight apply nothing. The result is truncated, not rounded, to two
// decimal places, so identical input always yields identical output.
func Price(distanceMeters int64, size domain.SizeType, weight domain.WeightType) decimal.Decimal {
	price := decimal.NewFromInt(distanceMeters).Div(metersPerKilometer)

	switch size {
	case domain.SizeMedium:
		price = price.Mul(mediumMultiplier)
	case domain.SizeLarge:
		price = price.Mul(largeMultiplier)
	}

	switch weight {
	case domain.WeightMedium:
		price = price.Mul(mediumMultiplier)
	case domain.WeightHeavy:
		price = price.Mul(largeMultiplier)
	}

	return price.Truncate(2)
}
