package rest

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/services/api/media"
	"github.com/louisbranch/xplorehub/internal/services/api/service"
	"github.com/louisbranch/xplorehub/internal/services/shared/httpx"
)

const multipartMemory = 1 << 20

func invalidArgument(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidArgument, reason, map[string]string{"Reason": reason})
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := service.ListEventsInput{
		City:      q.Get("city"),
		PageToken: q.Get("page_token"),
	}
	if raw := q.Get("upcoming"); raw != "" {
		upcoming, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, r, invalidArgument("upcoming must be true or false"))
			return
		}
		input.Upcoming = upcoming
	}
	if raw := q.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 0 {
			h.writeError(w, r, invalidArgument("page_size must be a positive number"))
			return
		}
		input.PageSize = size
	}
	page, err := h.svc.ListEvents(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, eventPageJSON{Events: toEventsJSON(page.Events), NextPageToken: page.NextPageToken})
}

func (h *Handler) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := h.svc.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toEventJSON(ev))
}

func (h *Handler) handleMyEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListMyEvents(r.Context(), actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toEventsJSON(events))
}

func (h *Handler) handleListAttendees(w http.ResponseWriter, r *http.Request) {
	attendees, err := h.svc.ListAttendees(r.Context(), actorFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toAttendeesJSON(attendees))
}

func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	req, image, cleanup, err := decodeEventRequest(w, r)
	defer cleanup()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ev, err := h.svc.CreateEvent(r.Context(), actorFrom(r.Context()), req.toCreateInput(), image)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toEventJSON(ev))
}

func (h *Handler) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	req, image, cleanup, err := decodeEventRequest(w, r)
	defer cleanup()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ev, err := h.svc.UpdateEvent(r.Context(), actorFrom(r.Context()), r.PathValue("id"), req.toPatch(), image)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toEventJSON(ev))
}

func (h *Handler) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEvent(r.Context(), actorFrom(r.Context()), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, messageResponse{Message: message(r, "core.event_deleted")})
}

// decodeEventRequest reads a JSON body, or a multipart form whose address
// field is a JSON string and whose optional image field is a file.
func decodeEventRequest(w http.ResponseWriter, r *http.Request) (eventRequest, *media.File, func(), error) {
	noop := func() {}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req eventRequest
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			return eventRequest{}, nil, noop, err
		}
		return req, nil, noop, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, media.MaxBytes+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return eventRequest{}, nil, noop, media.ErrTooLarge
		}
		return eventRequest{}, nil, noop, invalidArgument("malformed multipart form")
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }

	form := r.MultipartForm.Value
	field := func(name string) *string {
		values, ok := form[name]
		if !ok || len(values) == 0 {
			return nil
		}
		v := values[0]
		return &v
	}
	req := eventRequest{
		Title:       field("title"),
		Description: field("description"),
		Date:        field("date"),
		Location:    field("location"),
		ImageURL:    field("imageUrl"),
	}
	if price := field("price"); price != nil {
		p := flexString(*price)
		req.Price = &p
	}
	if raw := field("maxAttendees"); raw != nil && strings.TrimSpace(*raw) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(*raw))
		if err != nil {
			return eventRequest{}, nil, cleanup, invalidArgument("maxAttendees must be a number")
		}
		req.MaxAttendees = &n
	}
	if raw := field("address"); raw != nil && strings.TrimSpace(*raw) != "" {
		var address addressPatchJSON
		if err := json.Unmarshal([]byte(*raw), &address); err != nil {
			return eventRequest{}, nil, cleanup, invalidArgument("address must be a JSON object")
		}
		req.Address = &address
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return req, nil, cleanup, nil
		}
		return eventRequest{}, nil, cleanup, invalidArgument("malformed image upload")
	}
	image := &media.File{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	return req, image, func() {
		_ = file.Close()
		cleanup()
	}, nil
}
