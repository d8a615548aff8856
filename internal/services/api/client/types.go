package client

import "time"

// User is an account as returned by the API.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Auth is the result of a login or registration.
type Auth struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// RegisterInput creates an account.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Address is an event venue.
type Address struct {
	Street       string   `json:"street"`
	Number       string   `json:"number,omitempty"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Country      string   `json:"country"`
	ZipCode      string   `json:"zipCode,omitempty"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
}

// Creator names the owner of an event.
type Creator struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Event is an event with its live registration counters.
type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Date            time.Time `json:"date"`
	Location        string    `json:"location"`
	MaxAttendees    *int      `json:"maxAttendees"`
	Price           string    `json:"price"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	Address         Address   `json:"address"`
	CreatorID       string    `json:"creatorId"`
	Creator         Creator   `json:"creator"`
	RegisteredCount int       `json:"registeredCount"`
	AvailableSpots  *int      `json:"availableSpots"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Free reports whether the event costs nothing.
func (e Event) Free() bool {
	return e.Price == "" || e.Price == "0.00"
}

// SoldOut reports whether a capped event has no spots left.
func (e Event) SoldOut() bool {
	return e.AvailableSpots != nil && *e.AvailableSpots <= 0
}

// EventPage is one page of the public listing.
type EventPage struct {
	Events        []Event `json:"events"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}

// ListEventsParams filters the public listing.
type ListEventsParams struct {
	City      string
	Upcoming  bool
	PageSize  int
	PageToken string
}

// EventInput creates or patches an event. Nil fields are left out.
type EventInput struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Date         *string  `json:"date,omitempty"`
	Location     *string  `json:"location,omitempty"`
	MaxAttendees *int     `json:"maxAttendees,omitempty"`
	Price        *string  `json:"price,omitempty"`
	ImageURL     *string  `json:"imageUrl,omitempty"`
	Address      *Address `json:"address,omitempty"`
}

// Attendee is one registered person.
type Attendee struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Order is a registration of one or more attendees.
type Order struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	EventID     string     `json:"eventId"`
	Quantity    int        `json:"quantity"`
	TotalAmount string     `json:"totalAmount"`
	Status      string     `json:"status"`
	Attendees   []Attendee `json:"attendees"`
	Event       *Event     `json:"event,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// OrderInput registers attendees for an event.
type OrderInput struct {
	EventID   string     `json:"eventId"`
	Quantity  *int       `json:"quantity,omitempty"`
	Attendees []Attendee `json:"attendees"`
}

// OrderReceipt is returned when an order is placed.
type OrderReceipt struct {
	Message             string     `json:"message"`
	OrderID             string     `json:"orderId"`
	RegisteredAttendees []Attendee `json:"registeredAttendees"`
	Status              string     `json:"status"`
	TotalAmount         string     `json:"totalAmount"`
}

// Message is a localized acknowledgement, optionally with the affected order.
type Message struct {
	Message string `json:"message"`
	Order   *Order `json:"order,omitempty"`
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is the coarse result of a reverse lookup.
type Place struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// AddressQuery is a structured forward lookup.
type AddressQuery struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Region scopes nearby discovery and AI seeding.
type Region struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// Model is a generative model offered to the seeder.
type Model struct {
	Name    string   `json:"name"`
	Actions []string `json:"actions"`
}
