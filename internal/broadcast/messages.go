package broadcast

import (
	"encoding/json"

	"github.com/google/uuid"

	"poslito/internal/domain"
)

// errorPayload is sent back to a single connection when its handshake or
// message is rejected. Format errors additionally carry an example of the
// expected shape so clients can self-correct.
type errorPayload struct {
	Errors  []string         `json:"errors"`
	Example *positionExample `json:"example,omitempty"`
}

type positionExample struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func errorMessage(msgs ...string) []byte {
	b, _ := json.Marshal(errorPayload{Errors: msgs})
	return b
}

func formatErrorMessage(msg string) []byte {
	b, _ := json.Marshal(errorPayload{
		Errors:  []string{msg},
		Example: &positionExample{Latitude: 48.148, Longitude: 17.107},
	})
	return b
}

// parsePosition decodes an inbound payload and validates the coordinate
// ranges. The raw decoded object is returned so extra fields a client sent
// survive the re-broadcast.
func parsePosition(raw []byte) (map[string]any, domain.Coordinates, error) {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, domain.Coordinates{}, errMalformedJSON
	}

	lat, latOK := body["latitude"].(float64)
	lon, lonOK := body["longitude"].(float64)
	if !latOK || !lonOK {
		return nil, domain.Coordinates{}, errBadPosition
	}

	coords := domain.Coordinates{Longitude: lon, Latitude: lat}
	if !coords.Valid() {
		return nil, domain.Coordinates{}, errBadPosition
	}
	return body, coords, nil
}

// augment stamps the sending courier onto the payload before fan-out.
func augment(body map[string]any, courierID uuid.UUID) []byte {
	body["courier_id"] = courierID.String()
	b, _ := json.Marshal(body)
	return b
}
