package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Place is a geocoded location keyed by its external place identifier.
// Places are immutable once created and are shared between deliveries.
type Place struct {
	PlaceID          string
	FormattedAddress string
	Country          string
	City             string
	StreetAddress    string
	PostalCode       string
	Coordinates      Coordinates
	CreatedAt        time.Time
}

// Person identifies a sender or receiver of a delivery. Persons are resolved
// by their identity fields (get-or-create), not owned by a single delivery.
type Person struct {
	ID          uuid.UUID
	AccountID   *uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
}

var reEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail validates the email address format.
func ValidateEmail(s string) bool {
	return reEmail.MatchString(s)
}

// Validate checks the person's required identity fields.
func (p Person) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return errRequired("name")
	}
	if !ValidateEmail(p.Email) {
		return errRequired("email")
	}
	if strings.TrimSpace(p.PhoneNumber) == "" {
		return errRequired("phone_number")
	}
	return nil
}

// Validate checks the place's required fields.
func (p Place) Validate() error {
	if strings.TrimSpace(p.PlaceID) == "" {
		return errRequired("place_id")
	}
	if !p.Coordinates.Valid() {
		return errRequired("coordinates")
	}
	return nil
}
