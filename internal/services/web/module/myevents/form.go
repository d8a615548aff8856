package myevents

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/xplorehub/internal/services/api/client"
	"github.com/louisbranch/xplorehub/internal/services/web/templates"
)

const (
	// dateInputLayout is the value format of <input type="datetime-local">.
	dateInputLayout = "2006-01-02T15:04"
	maxImageBytes   = 5 << 20
	maxFormBytes    = maxImageBytes + 1<<20
	formMemory      = 1 << 20
)

// submission is a parsed event form.
type submission struct {
	values  templates.EventFormValues
	input   client.EventInput
	image   *client.Image
	cleanup func()
	// errKey is a message key for a field the API would reject anyway.
	errKey string
}

// parseForm reads the event editor. Both multipart and urlencoded bodies
// are accepted; only multipart can carry an image.
func parseForm(w http.ResponseWriter, r *http.Request) (submission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	sub := submission{cleanup: func() {}}
	if err := r.ParseMultipartForm(formMemory); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return sub, err
		}
		if err := r.ParseForm(); err != nil {
			return sub, err
		}
	}

	field := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }
	v := templates.EventFormValues{
		Title:        field("title"),
		Description:  field("description"),
		Date:         field("date"),
		Location:     field("location"),
		MaxAttendees: field("maxAttendees"),
		Price:        field("price"),
		ImageURL:     field("imageUrl"),
		Street:       field("street"),
		Number:       field("number"),
		Neighborhood: field("neighborhood"),
		City:         field("city"),
		State:        field("state"),
		Country:      field("country"),
		ZipCode:      field("zipCode"),
	}
	sub.values = v
	sub.input = client.EventInput{
		Title:       &v.Title,
		Description: &v.Description,
		Location:    &v.Location,
		Address: &client.Address{
			Street:       v.Street,
			Number:       v.Number,
			Neighborhood: v.Neighborhood,
			City:         v.City,
			State:        v.State,
			Country:      v.Country,
			ZipCode:      v.ZipCode,
		},
	}

	when, err := time.ParseInLocation(dateInputLayout, v.Date, time.UTC)
	if err != nil {
		sub.errKey = "web.event_form.error_date"
	} else {
		date := when.Format(time.RFC3339)
		sub.input.Date = &date
	}
	if v.MaxAttendees != "" {
		capacity, err := strconv.Atoi(v.MaxAttendees)
		if err != nil {
			sub.errKey = "web.event_form.error_capacity"
		} else {
			sub.input.MaxAttendees = &capacity
		}
	}
	if v.Price != "" {
		sub.input.Price = &v.Price
	}
	if v.ImageURL != "" {
		sub.input.ImageURL = &v.ImageURL
	}

	if r.MultipartForm != nil {
		form := r.MultipartForm
		sub.cleanup = func() { _ = form.RemoveAll() }
		file, header, err := r.FormFile("image")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			sub.cleanup()
			return sub, err
		case header.Size > 0:
			sub.image = &client.Image{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Body:        file,
			}
			sub.cleanup = closeAll(file, form)
		default:
			_ = file.Close()
		}
	}
	return sub, nil
}

func closeAll(file multipart.File, form *multipart.Form) func() {
	return func() {
		_ = file.Close()
		_ = form.RemoveAll()
	}
}

// formValues prefills the editor from ev.
func formValues(ev client.Event) templates.EventFormValues {
	v := templates.EventFormValues{
		Title:        ev.Title,
		Description:  ev.Description,
		Date:         ev.Date.UTC().Format(dateInputLayout),
		Location:     ev.Location,
		Price:        ev.Price,
		ImageURL:     ev.ImageURL,
		Street:       ev.Address.Street,
		Number:       ev.Address.Number,
		Neighborhood: ev.Address.Neighborhood,
		City:         ev.Address.City,
		State:        ev.Address.State,
		Country:      ev.Address.Country,
		ZipCode:      ev.Address.ZipCode,
	}
	if ev.MaxAttendees != nil {
		v.MaxAttendees = strconv.Itoa(*ev.MaxAttendees)
	}
	return v
}
