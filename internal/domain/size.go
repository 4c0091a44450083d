package domain

type (
	// SizeType represents a size classification for items and courier vehicles.
	SizeType string
	// WeightType represents a weight classification for items.
	WeightType string
)

// List of possible size classifications.
const (
	SizeSmall  SizeType = "small"
	SizeMedium SizeType = "medium"
	SizeLarge  SizeType = "large"
)

// List of possible weight classifications.
const (
	WeightLight  WeightType = "light"
	WeightMedium WeightType = "medium"
	WeightHeavy  WeightType = "heavy"
)

var sizeRank = map[SizeType]int{
	SizeSmall:  1,
	SizeMedium: 2,
	SizeLarge:  3,
}

var weightRank = map[WeightType]int{
	WeightLight:  1,
	WeightMedium: 2,
	WeightHeavy:  3,
}

// Valid checks if the SizeType is valid.
func (s SizeType) Valid() bool {
	_, ok := sizeRank[s]
	return ok
}

// Valid checks if the WeightType is valid.
func (w WeightType) Valid() bool {
	_, ok := weightRank[w]
	return ok
}

// FitsVehicle reports whether an item of size s fits a vehicle of size vehicle.
// Ordering is small < medium < large: a vehicle carries items of its own size
// or smaller.
func (s SizeType) FitsVehicle(vehicle SizeType) bool {
	sr, ok := sizeRank[s]
	if !ok {
		return false
	}
	vr, ok := sizeRank[vehicle]
	if !ok {
		return false
	}
	return sr <= vr
}
