package handlers

import (
	"time"

	"github.com/google/uuid"
)

type coordinatesDTO struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

type personDTO struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

type placeDTO struct {
	PlaceID          string  `json:"place_id"`
	FormattedAddress string  `json:"formatted_address"`
	Country          string  `json:"country,omitempty"`
	City             string  `json:"city,omitempty"`
	StreetAddress    string  `json:"street_address,omitempty"`
	PostalCode       string  `json:"postal_code,omitempty"`
	Longitude        float64 `json:"longitude"`
	Latitude         float64 `json:"latitude"`
}

type itemDTO struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Size        string `json:"size"`
	Weight      string `json:"weight"`
	Fragile     bool   `json:"fragile"`
}

type createDeliveryRequest struct {
	Sender        personDTO `json:"sender"`
	Receiver      personDTO `json:"receiver"`
	Item          itemDTO   `json:"item"`
	PickupPlace   placeDTO  `json:"pickup_place"`
	DeliveryPlace placeDTO  `json:"delivery_place"`
}

type deliveryResponse struct {
	ID              uuid.UUID  `json:"id"`
	SafeID          uuid.UUID  `json:"safe_id"`
	Role            string     `json:"role,omitempty"`
	Sender          personDTO  `json:"sender"`
	Receiver        personDTO  `json:"receiver"`
	Item            itemDTO    `json:"item"`
	PickupPlace     placeDTO   `json:"pickup_place"`
	DeliveryPlace   placeDTO   `json:"delivery_place"`
	CourierID       *uuid.UUID `json:"courier_id,omitempty"`
	State           string     `json:"state"`
	DistanceMeters  int64      `json:"distance_meters"`
	DurationSeconds int64      `json:"duration_seconds"`
	Price           string     `json:"price"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type safeDeliveryResponse struct {
	SafeID        uuid.UUID `json:"safe_id"`
	CreatedAt     time.Time `json:"created_at"`
	Item          itemDTO   `json:"item"`
	PickupPlace   placeDTO  `json:"pickup_place"`
	DeliveryPlace placeDTO  `json:"delivery_place"`
	State         string    `json:"state"`
}

type transitionRequest struct {
	State string `json:"state"`
}

type registerCourierRequest struct {
	VehicleType  string          `json:"vehicle_type"`
	HomeAddress  string          `json:"home_address"`
	Coordinates  *coordinatesDTO `json:"coordinates,omitempty"`
	IDPhotoFront string          `json:"id_photo_front"`
	IDPhotoBack  string          `json:"id_photo_back"`
	DLPhotoFront string          `json:"dl_photo_front"`
	DLPhotoBack  string          `json:"dl_photo_back"`
}

// courierResponse deliberately omits the identity-document photo references.
type courierResponse struct {
	ID          uuid.UUID       `json:"id"`
	VehicleType string          `json:"vehicle_type"`
	HomeAddress string          `json:"home_address,omitempty"`
	Coordinates *coordinatesDTO `json:"coordinates,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type positionRequest struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

type candidateResponse struct {
	Delivery    safeDeliveryResponse `json:"delivery"`
	RouteMeters *int64               `json:"route_meters"`
}

type routeResponse struct {
	ID         uuid.UUID        `json:"id"`
	DeliveryID uuid.UUID        `json:"delivery_id"`
	Polyline   string           `json:"polyline"`
	Steps      []coordinatesDTO `json:"steps"`
	CreatedAt  time.Time        `json:"created_at"`
}
