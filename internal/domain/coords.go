package domain

// Coordinates is a geographic point. Longitude comes first, matching the
// storage layout of places.
type Coordinates struct {
	Longitude float64
	Latitude  float64
}

// Valid checks that latitude is within [-90, 90] and longitude within [-180, 180].
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}
