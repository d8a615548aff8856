package rest

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/louisbranch/xplorehub/internal/services/api/account"
	"github.com/louisbranch/xplorehub/internal/services/api/event"
	"github.com/louisbranch/xplorehub/internal/services/api/order"
)

// flexString accepts a JSON string or number and keeps its literal text.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type userJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserJSON(u account.User) userJSON {
	return userJSON{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}

type authResponse struct {
	AccessToken string   `json:"access_token"`
	User        userJSON `json:"user"`
}

type addressJSON struct {
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

func toAddressJSON(a event.Address) addressJSON {
	return addressJSON{
		Street:       a.Street,
		Number:       a.Number,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
		Country:      a.Country,
		ZipCode:      a.ZipCode,
		Lat:          a.Lat,
		Lng:          a.Lng,
	}
}

func (a addressJSON) toAddress() event.Address {
	return event.Address{
		Street:       a.Street,
		Number:       a.Number,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
		Country:      a.Country,
		ZipCode:      a.ZipCode,
		Lat:          a.Lat,
		Lng:          a.Lng,
	}
}

type addressPatchJSON struct {
	Street       *string  `json:"street"`
	Number       *string  `json:"number"`
	Neighborhood *string  `json:"neighborhood"`
	City         *string  `json:"city"`
	State        *string  `json:"state"`
	Country      *string  `json:"country"`
	ZipCode      *string  `json:"zipCode"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
}

func (a addressPatchJSON) toPatch() *event.AddressPatch {
	return &event.AddressPatch{
		Street:       a.Street,
		Number:       a.Number,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
		Country:      a.Country,
		ZipCode:      a.ZipCode,
		Lat:          a.Lat,
		Lng:          a.Lng,
	}
}

type creatorJSON struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type eventJSON struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Date            time.Time   `json:"date"`
	Location        string      `json:"location"`
	MaxAttendees    *int        `json:"maxAttendees"`
	Price           string      `json:"price"`
	ImageURL        string      `json:"imageUrl,omitempty"`
	Address         addressJSON `json:"address"`
	CreatorID       string      `json:"creatorId"`
	Creator         creatorJSON `json:"creator"`
	RegisteredCount int         `json:"registeredCount"`
	AvailableSpots  *int        `json:"availableSpots"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

func toEventJSON(ev event.Event) eventJSON {
	out := eventJSON{
		ID:              ev.ID,
		Title:           ev.Title,
		Description:     ev.Description,
		Date:            ev.Date,
		Location:        ev.Location,
		MaxAttendees:    ev.MaxAttendees,
		Price:           ev.Price(),
		ImageURL:        ev.ImageURL,
		Address:         toAddressJSON(ev.Address),
		CreatorID:       ev.CreatorID,
		Creator:         creatorJSON{Name: ev.Creator.Name, Email: ev.Creator.Email},
		RegisteredCount: ev.RegisteredCount,
		CreatedAt:       ev.CreatedAt,
		UpdatedAt:       ev.UpdatedAt,
	}
	if available, bounded := ev.Available(); bounded {
		out.AvailableSpots = &available
	}
	return out
}

func toEventsJSON(events []event.Event) []eventJSON {
	out := make([]eventJSON, 0, len(events))
	for _, ev := range events {
		out = append(out, toEventJSON(ev))
	}
	return out
}

type eventPageJSON struct {
	Events        []eventJSON `json:"events"`
	NextPageToken string      `json:"nextPageToken,omitempty"`
}

// eventRequest is the JSON body of event create and update.
type eventRequest struct {
	Title        *string           `json:"title"`
	Description  *string           `json:"description"`
	Date         *string           `json:"date"`
	Location     *string           `json:"location"`
	MaxAttendees *int              `json:"maxAttendees"`
	Price        *flexString       `json:"price"`
	ImageURL     *string           `json:"imageUrl"`
	Address      *addressPatchJSON `json:"address"`
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func (r eventRequest) toCreateInput() event.CreateInput {
	input := event.CreateInput{
		Title:        deref(r.Title),
		Description:  deref(r.Description),
		Date:         deref(r.Date),
		Location:     deref(r.Location),
		MaxAttendees: r.MaxAttendees,
		ImageURL:     deref(r.ImageURL),
	}
	if r.Price != nil {
		input.Price = string(*r.Price)
	}
	if r.Address != nil {
		input.Address = r.Address.toPatch().Apply(event.Address{})
	}
	return input
}

func (r eventRequest) toPatch() event.PatchInput {
	patch := event.PatchInput{
		Title:        r.Title,
		Description:  r.Description,
		Date:         r.Date,
		Location:     r.Location,
		MaxAttendees: r.MaxAttendees,
		ImageURL:     r.ImageURL,
	}
	if r.Price != nil {
		price := string(*r.Price)
		patch.Price = &price
	}
	if r.Address != nil {
		patch.Address = r.Address.toPatch()
	}
	return patch
}

type attendeeJSON struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func toAttendeesJSON(attendees []order.Attendee) []attendeeJSON {
	out := make([]attendeeJSON, 0, len(attendees))
	for _, a := range attendees {
		out = append(out, attendeeJSON{ID: a.ID, Name: a.Name, Email: a.Email})
	}
	return out
}

type orderJSON struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	EventID     string         `json:"eventId"`
	Quantity    int            `json:"quantity"`
	TotalAmount string         `json:"totalAmount"`
	Status      string         `json:"status"`
	Attendees   []attendeeJSON `json:"attendees"`
	Event       *eventJSON     `json:"event,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func toOrderJSON(o order.Order) orderJSON {
	out := orderJSON{
		ID:          o.ID,
		UserID:      o.UserID,
		EventID:     o.EventID,
		Quantity:    o.Quantity,
		TotalAmount: o.Total(),
		Status:      string(o.Status),
		Attendees:   toAttendeesJSON(o.Attendees),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	if o.Event != nil {
		ev := toEventJSON(*o.Event)
		out.Event = &ev
	}
	return out
}

type createOrderRequest struct {
	EventID   string         `json:"eventId"`
	Quantity  *int           `json:"quantity"`
	Attendees []attendeeJSON `json:"attendees"`
}

func (r createOrderRequest) toInput() order.CreateInput {
	input := order.CreateInput{EventID: r.EventID, Quantity: r.Quantity}
	for _, a := range r.Attendees {
		input.Attendees = append(input.Attendees, order.AttendeeInput{Name: a.Name, Email: a.Email})
	}
	return input
}

type createOrderResponse struct {
	Message             string         `json:"message"`
	OrderID             string         `json:"orderId"`
	RegisteredAttendees []attendeeJSON `json:"registeredAttendees"`
	Status              string         `json:"status"`
	TotalAmount         string         `json:"totalAmount"`
}

type messageResponse struct {
	Message string     `json:"message"`
	Order   *orderJSON `json:"order,omitempty"`
}
