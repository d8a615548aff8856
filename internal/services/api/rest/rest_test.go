package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/services/api/authtoken"
	"github.com/louisbranch/xplorehub/internal/services/api/geocoding"
	"github.com/louisbranch/xplorehub/internal/services/api/media"
	"github.com/louisbranch/xplorehub/internal/services/api/service"
	"github.com/louisbranch/xplorehub/internal/services/api/storage/sqlite"
)

var testNow = time.Date(2026, time.April, 20, 12, 0, 0, 0, time.UTC)

type stubGeocoder struct{}

func (stubGeocoder) Coordinates(_ context.Context, q geocoding.AddressQuery) (geocoding.Coordinates, error) {
	if q.City == "" {
		return geocoding.Coordinates{}, geocoding.ErrAddressIncomplete
	}
	return geocoding.Coordinates{Lat: -8.05, Lng: -34.9}, nil
}

func (stubGeocoder) CoordinatesByQuery(_ context.Context, query string) (geocoding.Coordinates, error) {
	if query == "" {
		return geocoding.Coordinates{}, geocoding.ErrQueryEmpty
	}
	return geocoding.Coordinates{Lat: 1, Lng: 2}, nil
}

func (stubGeocoder) Reverse(context.Context, float64, float64) (geocoding.Place, error) {
	return geocoding.Place{City: "Recife", State: "Pernambuco", Country: "Brasil"}, nil
}

type testServer struct {
	url      string
	mediaDir string
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	tokens, err := authtoken.NewManager(authtoken.Config{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
		Now:    func() time.Time { return testNow },
	})
	require.NoError(t, err)

	mediaDir := t.TempDir()
	disk, err := media.NewDisk(mediaDir, "")
	require.NoError(t, err)

	var seq atomic.Int64
	svc, err := service.New(service.Config{
		Store:    store,
		Tokens:   tokens,
		Geocoder: stubGeocoder{},
		Uploader: media.NewUploader(disk, nil),
		Now:      func() time.Time { return testNow },
		IDGenerator: func() (string, error) {
			return fmt.Sprintf("id%04d", seq.Add(1)), nil
		},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(NewHandler(Config{Service: svc, Geocoder: stubGeocoder{}, MediaDir: mediaDir}))
	t.Cleanup(srv.Close)
	return testServer{url: srv.URL, mediaDir: mediaDir}
}

func (s testServer) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.url+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.send(t, req, out)
}

func (s testServer) send(t *testing.T, req *http.Request, out any) int {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s testServer) register(t *testing.T, email string) string {
	t.Helper()

	var auth authResponse
	status := s.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Someone", "email": email, "password": "secret1",
	}, &auth)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, auth.AccessToken)
	return auth.AccessToken
}

func eventBody(capacity int, price any) map[string]any {
	return map[string]any{
		"title":        "Frevo Night",
		"description":  "Live frevo",
		"date":         testNow.Add(72 * time.Hour).Format(time.RFC3339),
		"maxAttendees": capacity,
		"price":        price,
		"address": map[string]string{
			"street": "Rua da Moeda", "city": "Recife", "state": "PE", "country": "Brasil",
		},
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	var body map[string]string
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/up", "", nil, &body))
	require.Equal(t, "ok", body["status"])
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token := s.register(t, "Ana@Example.com")

	var me userJSON
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/auth/me", token, nil, &me))
	require.Equal(t, "ana@example.com", me.Email)
	require.Equal(t, "USER", me.Role)

	var auth authResponse
	status := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@example.com", "password": "secret1"}, &auth)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, me.ID, auth.User.ID)

	var payload apperrors.Payload
	status = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@example.com", "password": "nope123"}, &payload)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, apperrors.CodeAccountInvalidCredentials, payload.Code)

	status = s.do(t, http.MethodGet, "/auth/me", "", nil, &payload)
	require.Equal(t, http.StatusUnauthorized, status)

	status = s.do(t, http.MethodGet, "/events", "garbage", nil, &payload)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestEventLifecycle(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	owner := s.register(t, "owner@example.com")
	other := s.register(t, "other@example.com")

	var created eventJSON
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/events", owner, eventBody(10, 25.5), &created))
	require.Equal(t, "25.50", created.Price)
	require.NotNil(t, created.AvailableSpots)
	require.Equal(t, 10, *created.AvailableSpots)
	require.NotNil(t, created.Address.Lat)

	var fetched eventJSON
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/events/"+created.ID, "", nil, &fetched))
	require.Equal(t, "Frevo Night", fetched.Title)
	require.Equal(t, "owner@example.com", fetched.Creator.Email)

	var page eventPageJSON
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/events?city=recife&upcoming=true", "", nil, &page))
	require.Len(t, page.Events, 1)

	var payload apperrors.Payload
	require.Equal(t, http.StatusForbidden, s.do(t, http.MethodPatch, "/events/"+created.ID, other, map[string]any{"title": "Mine"}, &payload))
	require.Equal(t, apperrors.CodeEventNotOwner, payload.Code)

	var updated eventJSON
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPatch, "/events/"+created.ID, owner, map[string]any{"title": "Frevo Night II", "price": "0"}, &updated))
	require.Equal(t, "Frevo Night II", updated.Title)
	require.Equal(t, "0.00", updated.Price)

	var mine []eventJSON
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/events/my-events", other, nil, &mine))
	require.Empty(t, mine)

	var msg messageResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/events/"+created.ID, owner, nil, &msg))
	require.Equal(t, "Event deleted.", msg.Message)
	require.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/events/"+created.ID, "", nil, &payload))
}

func TestListEventsRejectsBadParameters(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	for _, query := range []string{"upcoming=maybe", "page_size=abc", "page_token=%21%21"} {
		var payload apperrors.Payload
		require.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/events?"+query, "", nil, &payload), query)
		require.Equal(t, apperrors.CodeInvalidArgument, payload.Code, query)
	}
}

func TestCreateEventMultipartWithImage(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token := s.register(t, "owner@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"title":        "Maracatu",
		"description":  "Drums",
		"date":         testNow.Add(48 * time.Hour).Format(time.RFC3339),
		"maxAttendees": "",
		"price":        "12.00",
		"address":      `{"street":"Rua do Bom Jesus","city":"Recife","state":"PE","country":"Brasil"}`,
	}
	for name, value := range fields {
		require.NoError(t, mw.WriteField(name, value))
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="poster.png"`)
	header.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, s.url+"/events", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	var created eventJSON
	require.Equal(t, http.StatusCreated, s.send(t, req, &created))
	require.Equal(t, "12.00", created.Price)
	require.Nil(t, created.MaxAttendees)
	require.Contains(t, created.ImageURL, media.URLPrefix+media.Folder)

	resp, err := http.Get(s.url + created.ImageURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entries, err := os.ReadDir(filepath.Join(s.mediaDir, filepath.FromSlash(media.Folder)))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestOrderFlow(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	owner := s.register(t, "owner@example.com")
	buyer := s.register(t, "buyer@example.com")

	var ev eventJSON
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/events", owner, eventBody(2, "10"), &ev))

	order := map[string]any{
		"eventId":   ev.ID,
		"quantity":  2,
		"attendees": []map[string]string{{"name": "Ana"}, {"name": "Bia", "email": "bia@example.com"}},
	}
	var created createOrderResponse
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/orders", buyer, order, &created))
	require.Equal(t, "PENDING", created.Status)
	require.Equal(t, "20.00", created.TotalAmount)
	require.Len(t, created.RegisteredAttendees, 2)
	require.Contains(t, created.Message, "payment")

	var payload apperrors.Payload
	require.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/orders", buyer, order, &payload))
	require.Equal(t, apperrors.CodeOrderAlreadyRegistered, payload.Code)

	one := map[string]any{"eventId": ev.ID, "attendees": []map[string]string{{"name": "Caio"}}}
	require.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/orders", owner, one, &payload))
	require.Equal(t, apperrors.CodeOrderCapacityExceeded, payload.Code)
	require.Equal(t, "0", payload.Metadata["Available"])

	var attendees []attendeeJSON
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/events/"+ev.ID+"/attendees", owner, nil, &attendees))
	require.Len(t, attendees, 2)
	require.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/events/"+ev.ID+"/attendees", buyer, nil, &payload))

	var confirmed orderJSON
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPatch, "/orders/event/"+ev.ID+"/change-status", buyer, map[string]string{"status": "CONFIRMED"}, &confirmed))
	require.Equal(t, "CONFIRMED", confirmed.Status)

	var fetched orderJSON
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/orders/event/"+ev.ID, buyer, nil, &fetched))
	require.Equal(t, created.OrderID, fetched.ID)

	var canceled messageResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/orders/"+ev.ID, buyer, nil, &canceled))
	require.NotNil(t, canceled.Order)
	require.Equal(t, "CANCELED", canceled.Order.Status)

	var mine []orderJSON
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/orders/my-orders", buyer, nil, &mine))
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Event)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/orders", owner, one, &created))
}

func TestOrderMessagesAreLocalized(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	owner := s.register(t, "owner@example.com")

	var ev eventJSON
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/events", owner, eventBody(5, "0"), &ev))

	raw, err := json.Marshal(map[string]any{"eventId": ev.ID, "attendees": []map[string]string{{"name": "Ana"}}})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, s.url+"/orders?lang=pt-BR", bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+owner)

	var created createOrderResponse
	require.Equal(t, http.StatusCreated, s.send(t, req, &created))
	require.Equal(t, "CONFIRMED", created.Status)
	require.Equal(t, "Inscrição confirmada. Nos vemos lá!", created.Message)
}

func TestGeocodingRoutes(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	var coords geocoding.Coordinates
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/geocoding/search?city=Recife&country=Brasil", "", nil, &coords))
	require.Equal(t, -8.05, coords.Lat)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/geocoding/search", "", map[string]string{"city": "Recife"}, &coords))
	require.Equal(t, -34.9, coords.Lng)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/geocoding/search-by-query?query=Recife", "", nil, &coords))
	require.Equal(t, 1.0, coords.Lat)

	var place geocoding.Place
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/geocoding/reverse?lat=-8.05&lng=-34.9", "", nil, &place))
	require.Equal(t, "Recife", place.City)

	var payload apperrors.Payload
	require.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/geocoding/reverse?lat=north", "", nil, &payload))
	require.Equal(t, apperrors.CodeGeocodingCoordinateInvalid, payload.Code)

	var events []eventJSON
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/geocoding/nearby?city=Recife", "", nil, &events))
	require.Empty(t, events)
}

func TestSeedRoutesRequireAdmin(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	token := s.register(t, "user@example.com")

	var payload apperrors.Payload
	require.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/seed/models", "", nil, &payload))
	require.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/seed/events", token, map[string]string{"city": "Recife"}, &payload))
	require.Equal(t, apperrors.CodePermissionDenied, payload.Code)
}
