package handlers

import (
	"math"

	"poslito/internal/domain"
	"poslito/internal/matching"
	"poslito/internal/service/delivery"
)

func personFromDTO(dto personDTO) domain.Person {
	return domain.Person{
		FirstName:   dto.FirstName,
		LastName:    dto.LastName,
		Email:       dto.Email,
		PhoneNumber: dto.PhoneNumber,
	}
}

func personToDTO(p domain.Person) personDTO {
	return personDTO{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
	}
}

func placeFromDTO(dto placeDTO) domain.Place {
	return domain.Place{
		PlaceID:          dto.PlaceID,
		FormattedAddress: dto.FormattedAddress,
		Country:          dto.Country,
		City:             dto.City,
		StreetAddress:    dto.StreetAddress,
		PostalCode:       dto.PostalCode,
		Coordinates:      domain.Coordinates{Longitude: dto.Longitude, Latitude: dto.Latitude},
	}
}

func placeToDTO(p domain.Place) placeDTO {
	return placeDTO{
		PlaceID:          p.PlaceID,
		FormattedAddress: p.FormattedAddress,
		Country:          p.Country,
		City:             p.City,
		StreetAddress:    p.StreetAddress,
		PostalCode:       p.PostalCode,
		Longitude:        p.Coordinates.Longitude,
		Latitude:         p.Coordinates.Latitude,
	}
}

func itemFromDTO(dto itemDTO) domain.Item {
	return domain.Item{
		Name:        dto.Name,
		Description: dto.Description,
		Size:        domain.SizeType(dto.Size),
		Weight:      domain.WeightType(dto.Weight),
		Fragile:     dto.Fragile,
	}
}

func itemToDTO(i domain.Item) itemDTO {
	return itemDTO{
		Name:        i.Name,
		Description: i.Description,
		Size:        string(i.Size),
		Weight:      string(i.Weight),
		Fragile:     i.Fragile,
	}
}

func createInputFromRequest(req createDeliveryRequest, identity domain.Identity) delivery.CreateInput {
	sender := personFromDTO(req.Sender)
	sender.ID = identity.PersonID
	accountID := identity.AccountID
	sender.AccountID = &accountID

	return delivery.CreateInput{
		Sender:        sender,
		Receiver:      personFromDTO(req.Receiver),
		Item:          itemFromDTO(req.Item),
		PickupPlace:   placeFromDTO(req.PickupPlace),
		DeliveryPlace: placeFromDTO(req.DeliveryPlace),
	}
}

func deliveryToResponse(d *domain.Delivery, role delivery.Role) deliveryResponse {
	return deliveryResponse{
		ID:              d.ID,
		SafeID:          d.SafeID,
		Role:            string(role),
		Sender:          personToDTO(d.Sender),
		Receiver:        personToDTO(d.Receiver),
		Item:            itemToDTO(d.Item),
		PickupPlace:     placeToDTO(d.PickupPlace),
		DeliveryPlace:   placeToDTO(d.DeliveryPlace),
		CourierID:       d.CourierID,
		State:           string(d.State),
		DistanceMeters:  d.DistanceMeters,
		DurationSeconds: d.DurationSeconds,
		Price:           d.Price.StringFixed(2),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func safeDeliveryToResponse(d domain.SafeDelivery) safeDeliveryResponse {
	return safeDeliveryResponse{
		SafeID:        d.SafeID,
		CreatedAt:     d.CreatedAt,
		Item:          itemToDTO(d.Item),
		PickupPlace:   placeToDTO(d.PickupPlace),
		DeliveryPlace: placeToDTO(d.DeliveryPlace),
		State:         string(d.State),
	}
}

func courierToResponse(c *domain.Courier) courierResponse {
	resp := courierResponse{
		ID:          c.ID,
		VehicleType: string(c.VehicleType),
		HomeAddress: c.HomeAddress,
		CreatedAt:   c.CreatedAt,
	}
	if c.Coordinates != nil {
		resp.Coordinates = &coordinatesDTO{
			Longitude: c.Coordinates.Longitude,
			Latitude:  c.Coordinates.Latitude,
		}
	}
	return resp
}

func candidateToResponse(c matching.Candidate) candidateResponse {
	resp := candidateResponse{Delivery: safeDeliveryToResponse(c.Delivery)}
	if c.RouteMeters != math.MaxInt64 {
		meters := c.RouteMeters
		resp.RouteMeters = &meters
	}
	return resp
}

func routeToResponse(r *domain.Route) routeResponse {
	steps := make([]coordinatesDTO, 0, len(r.Steps))
	for _, s := range r.Steps {
		steps = append(steps, coordinatesDTO{Longitude: s.Longitude, Latitude: s.Latitude})
	}
	return routeResponse{
		ID:         r.ID,
		DeliveryID: r.DeliveryID,
		Polyline:   r.Polyline,
		Steps:      steps,
		CreatedAt:  r.CreatedAt,
	}
}
