// Package client is a typed Go client for the events REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/platform/timeouts"
)

// Client calls the API on behalf of one caller. The zero token is anonymous.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	locale     string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// New builds a client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeouts.Generation,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithToken returns a copy of c that authenticates as token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// WithLocale returns a copy of c that asks for messages in locale.
func (c *Client) WithLocale(locale string) *Client {
	cp := *c
	cp.locale = locale
	return &cp
}

// Image is an upload attached to an event create or update.
type Image struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

func (c *Client) Register(ctx context.Context, input RegisterInput) (Auth, error) {
	var out Auth
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, input, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (Auth, error) {
	var out Auth
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, map[string]string{"email": email, "password": password}, &out)
	return out, err
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, nil, &out)
	return out, err
}

func (c *Client) ListEvents(ctx context.Context, params ListEventsParams) (EventPage, error) {
	q := url.Values{}
	if params.City != "" {
		q.Set("city", params.City)
	}
	if params.Upcoming {
		q.Set("upcoming", "true")
	}
	if params.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(params.PageSize))
	}
	if params.PageToken != "" {
		q.Set("page_token", params.PageToken)
	}
	var out EventPage
	err := c.doJSON(ctx, http.MethodGet, "/events", q, nil, &out)
	return out, err
}

func (c *Client) GetEvent(ctx context.Context, id string) (Event, error) {
	var out Event
	err := c.doJSON(ctx, http.MethodGet, "/events/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) MyEvents(ctx context.Context) ([]Event, error) {
	var out []Event
	err := c.doJSON(ctx, http.MethodGet, "/events/my-events", nil, nil, &out)
	return out, err
}

// CreateEvent creates an event, sending a multipart form when image is set.
func (c *Client) CreateEvent(ctx context.Context, input EventInput, image *Image) (Event, error) {
	var out Event
	err := c.doEvent(ctx, http.MethodPost, "/events", input, image, &out)
	return out, err
}

// UpdateEvent patches an event owned by the caller.
func (c *Client) UpdateEvent(ctx context.Context, id string, input EventInput, image *Image) (Event, error) {
	var out Event
	err := c.doEvent(ctx, http.MethodPatch, "/events/"+url.PathEscape(id), input, image, &out)
	return out, err
}

func (c *Client) DeleteEvent(ctx context.Context, id string) (Message, error) {
	var out Message
	err := c.doJSON(ctx, http.MethodDelete, "/events/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) Attendees(ctx context.Context, eventID string) ([]Attendee, error) {
	var out []Attendee
	err := c.doJSON(ctx, http.MethodGet, "/events/"+url.PathEscape(eventID)+"/attendees", nil, nil, &out)
	return out, err
}

func (c *Client) CreateOrder(ctx context.Context, input OrderInput) (OrderReceipt, error) {
	var out OrderReceipt
	err := c.doJSON(ctx, http.MethodPost, "/orders", nil, input, &out)
	return out, err
}

func (c *Client) MyOrders(ctx context.Context) ([]Order, error) {
	var out []Order
	err := c.doJSON(ctx, http.MethodGet, "/orders/my-orders", nil, nil, &out)
	return out, err
}

// OrderForEvent returns the caller's active order for an event.
func (c *Client) OrderForEvent(ctx context.Context, eventID string) (Order, error) {
	var out Order
	err := c.doJSON(ctx, http.MethodGet, "/orders/event/"+url.PathEscape(eventID), nil, nil, &out)
	return out, err
}

func (c *Client) ChangeOrderStatus(ctx context.Context, eventID, status string) (Order, error) {
	var out Order
	err := c.doJSON(ctx, http.MethodPatch, "/orders/event/"+url.PathEscape(eventID)+"/change-status", nil,
		map[string]string{"status": status}, &out)
	return out, err
}

func (c *Client) CancelOrder(ctx context.Context, eventID string) (Message, error) {
	var out Message
	err := c.doJSON(ctx, http.MethodDelete, "/orders/"+url.PathEscape(eventID), nil, nil, &out)
	return out, err
}

func (c *Client) Geocode(ctx context.Context, query AddressQuery) (Coordinates, error) {
	var out Coordinates
	err := c.doJSON(ctx, http.MethodPost, "/geocoding/search", nil, query, &out)
	return out, err
}

func (c *Client) GeocodeQuery(ctx context.Context, query string) (Coordinates, error) {
	var out Coordinates
	err := c.doJSON(ctx, http.MethodGet, "/geocoding/search-by-query", url.Values{"query": {query}}, nil, &out)
	return out, err
}

func (c *Client) Reverse(ctx context.Context, lat, lng float64) (Place, error) {
	q := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lng": {strconv.FormatFloat(lng, 'f', -1, 64)},
	}
	var out Place
	err := c.doJSON(ctx, http.MethodGet, "/geocoding/reverse", q, nil, &out)
	return out, err
}

// Nearby lists upcoming events in a region, seeding it when empty.
func (c *Client) Nearby(ctx context.Context, region Region) ([]Event, error) {
	q := url.Values{"city": {region.City}, "state": {region.State}, "country": {region.Country}}
	var out []Event
	err := c.doJSON(ctx, http.MethodGet, "/geocoding/nearby", q, nil, &out)
	return out, err
}

func (c *Client) Models(ctx context.Context) ([]Model, error) {
	var out []Model
	err := c.doJSON(ctx, http.MethodGet, "/seed/models", nil, nil, &out)
	return out, err
}

func (c *Client) SeedEvents(ctx context.Context, region Region) ([]Event, error) {
	var out []Event
	err := c.doJSON(ctx, http.MethodPost, "/seed/events", nil, region, &out)
	return out, err
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) doEvent(ctx context.Context, method, path string, input EventInput, image *Image, out any) error {
	if image == nil {
		return c.doJSON(ctx, method, path, nil, input, out)
	}
	body, contentType, err := eventForm(input, image)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, method, path, nil, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	return c.send(req, out)
}

// eventForm encodes input as multipart fields with the address as a JSON
// string and the image under the "image" part.
func eventForm(input EventInput, image *Image) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := []struct {
		name  string
		value *string
	}{
		{"title", input.Title},
		{"description", input.Description},
		{"date", input.Date},
		{"location", input.Location},
		{"price", input.Price},
		{"imageUrl", input.ImageURL},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := mw.WriteField(f.name, *f.value); err != nil {
			return nil, "", err
		}
	}
	if input.MaxAttendees != nil {
		if err := mw.WriteField("maxAttendees", strconv.Itoa(*input.MaxAttendees)); err != nil {
			return nil, "", err
		}
	}
	if input.Address != nil {
		raw, err := json.Marshal(input.Address)
		if err != nil {
			return nil, "", err
		}
		if err := mw.WriteField("address", string(raw)); err != nil {
			return nil, "", err
		}
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, image.Filename))
	header.Set("Content-Type", image.ContentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, image.Body); err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.locale != "" {
		req.Header.Set("Accept-Language", c.locale)
	}
	return req, nil
}

// send executes req and decodes the body into out. Error bodies become
// *apperrors.Error values carrying the API code and metadata.
func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var payload apperrors.Payload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Code == "" {
			return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
		}
		return apperrors.WithMetadata(payload.Code, payload.Message, payload.Metadata)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
