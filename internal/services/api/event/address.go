package event

import (
	"math"
	"strings"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
)

// Address locates an event. Street, city, state and country are required.
type Address struct {
	Street       string
	Number       string
	Neighborhood string
	City         string
	State        string
	Country      string
	ZipCode      string
	Lat          *float64
	Lng          *float64
}

// HasCoordinates reports whether both lat and lng are set.
func (a Address) HasCoordinates() bool {
	return a.Lat != nil && a.Lng != nil
}

// Summary renders a single-line human readable address.
func (a Address) Summary() string {
	street := a.Street
	if a.Number != "" {
		street += ", " + a.Number
	}
	parts := []string{}
	for _, part := range []string{street, a.Neighborhood, a.City, a.State, a.Country} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " - ")
}

// GeocodeQuery is the free-text query used to resolve coordinates.
func (a Address) GeocodeQuery() string {
	return strings.Join([]string{a.Street, a.City, a.State, a.Country}, ", ")
}

// SamePlace reports whether the geocoded fields match.
func (a Address) SamePlace(other Address) bool {
	return strings.EqualFold(a.Street, other.Street) &&
		strings.EqualFold(a.Number, other.Number) &&
		strings.EqualFold(a.City, other.City) &&
		strings.EqualFold(a.State, other.State) &&
		strings.EqualFold(a.Country, other.Country)
}

// NormalizeAddress trims fields and validates required ones, listing every
// missing field in the error metadata.
func NormalizeAddress(a Address) (Address, error) {
	a.Street = strings.TrimSpace(a.Street)
	a.Number = strings.TrimSpace(a.Number)
	a.Neighborhood = strings.TrimSpace(a.Neighborhood)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.Country = strings.TrimSpace(a.Country)
	a.ZipCode = strings.TrimSpace(a.ZipCode)

	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"street", a.Street},
		{"city", a.City},
		{"state", a.State},
		{"country", a.Country},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if a.Lat != nil && (math.IsNaN(*a.Lat) || *a.Lat < -90 || *a.Lat > 90) {
		missing = append(missing, "lat")
	}
	if a.Lng != nil && (math.IsNaN(*a.Lng) || *a.Lng < -180 || *a.Lng > 180) {
		missing = append(missing, "lng")
	}
	if (a.Lat == nil) != (a.Lng == nil) {
		missing = append(missing, "lat/lng")
	}
	if len(missing) > 0 {
		return Address{}, apperrors.WithMetadata(apperrors.CodeEventAddressInvalid, "address is invalid",
			map[string]string{"Fields": strings.Join(missing, ", ")})
	}
	return a, nil
}

// AddressPatch holds the address fields of a partial update.
type AddressPatch struct {
	Street       *string
	Number       *string
	Neighborhood *string
	City         *string
	State        *string
	Country      *string
	ZipCode      *string
	Lat          *float64
	Lng          *float64
}

// Apply merges the patch into current.
func (p AddressPatch) Apply(current Address) Address {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&current.Street, p.Street)
	set(&current.Number, p.Number)
	set(&current.Neighborhood, p.Neighborhood)
	set(&current.City, p.City)
	set(&current.State, p.State)
	set(&current.Country, p.Country)
	set(&current.ZipCode, p.ZipCode)
	if p.Lat != nil {
		current.Lat = p.Lat
	}
	if p.Lng != nil {
		current.Lng = p.Lng
	}
	return current
}
