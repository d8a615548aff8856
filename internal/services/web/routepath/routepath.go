// Package routepath stores the web frontend paths.
package routepath

import "net/url"

const (
	Root            = "/"
	Health          = "/up"
	Events          = "/events"
	EventPattern    = "/events/{id}"
	RegisterPattern = "/events/{id}/register"
	Discovery       = "/discovery"
	DiscoveryNearby = "/discovery/nearby"
	Login           = "/login"
	Register        = "/register"
	Logout          = "/logout"
	CreateEvent     = "/create-event"
	MyEvents        = "/my-events"
	EditPattern     = "/my-events/{id}/edit"
	DeletePattern   = "/my-events/{id}/delete"
	AttendeePattern = "/my-events/{id}/attendees"
	Registrations   = "/my-registrations"
	CancelPattern   = "/my-registrations/{eventID}/cancel"
	PaymentPattern  = "/payment/{eventID}"
)

// Event is the public detail page of id.
func Event(id string) string {
	return Events + "/" + url.PathEscape(id)
}

// EventRegister receives the registration form of id.
func EventRegister(id string) string {
	return Event(id) + "/register"
}

// EditEvent is the edit form of id.
func EditEvent(id string) string {
	return MyEvents + "/" + url.PathEscape(id) + "/edit"
}

// DeleteEvent deletes id.
func DeleteEvent(id string) string {
	return MyEvents + "/" + url.PathEscape(id) + "/delete"
}

// Attendees lists the attendees of id.
func Attendees(id string) string {
	return MyEvents + "/" + url.PathEscape(id) + "/attendees"
}

// CancelRegistration cancels the caller's order for eventID.
func CancelRegistration(eventID string) string {
	return Registrations + "/" + url.PathEscape(eventID) + "/cancel"
}

// Payment is the checkout page of the caller's order for eventID.
func Payment(eventID string) string {
	return "/payment/" + url.PathEscape(eventID)
}

// LoginWithNext sends the user back to next after signing in.
func LoginWithNext(next string) string {
	if next == "" || next == Root {
		return Login
	}
	return Login + "?" + url.Values{"next": {next}}.Encode()
}
