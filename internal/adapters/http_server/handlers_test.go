package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "hotel_backoffice/internal/adapters/http_server"
	"hotel_backoffice/internal/app"
	"hotel_backoffice/internal/domain"
	"hotel_backoffice/internal/storage/memstore"
)

type harness struct {
	t     *testing.T
	h     http.Handler
	store *memstore.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memstore.New()
	s := httpserver.New(5 * time.Second)
	s.MountHandlers(&httpserver.Handlers{
		Q:      app.NewQueryService(store, nil, time.Minute),
		C:      app.NewCommandService(store, nil),
		Health: app.NewHealthService(store, "test"),
	})
	return &harness{t: t, h: s.Mux(), store: store}
}

func (h *harness) do(method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	h.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rr := httptest.NewRecorder()
	h.h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rr)["error"]
}

func (h *harness) createHotel() domain.Hotel {
	h.t.Helper()
	rr := h.do("POST", "/api/hotels", `{"name":"A","address":"X","city":"Y","rating":"4.5"}`)
	require.Equal(h.t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[domain.Hotel](h.t, rr)
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	rr := h.do("GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestHotel_CreateAndGetRoundTrip(t *testing.T) {
	h := newHarness(t)
	created := h.createHotel()

	rr := h.do("GET", fmt.Sprintf("/api/hotels/%d", created.ID), "")
	require.Equal(t, http.StatusOK, rr.Code)
	got := decode[domain.Hotel](t, rr)
	assert.Equal(t, "A", got.Name)
	assert.Equal(t, "X", got.Address)
	assert.Equal(t, "Y", got.City)
	assert.InDelta(t, 4.5, got.Rating, 1e-9)

	// relations are always arrays
	raw := decode[map[string]any](t, rr)
	assert.Equal(t, []any{}, raw["rooms"])
	assert.Equal(t, []any{}, raw["amenities"])
}

func TestHotel_ETagNotModified(t *testing.T) {
	h := newHarness(t)
	created := h.createHotel()
	path := fmt.Sprintf("/api/hotels/%d", created.ID)

	rr := h.do("GET", path, "")
	etag := rr.Header().Get("ETag")
	require.NotEmpty(t, etag)

	rr = h.do("GET", path, "", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, rr.Code)
}

func TestHotel_PutEmptyCityKeepsPrevious(t *testing.T) {
	h := newHarness(t)
	created := h.createHotel()
	path := fmt.Sprintf("/api/hotels/%d", created.ID)

	rr := h.do("PUT", path, `{"name":"B","city":""}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	got := decode[domain.Hotel](t, rr)
	assert.Equal(t, "B", got.Name)
	assert.Equal(t, "Y", got.City)
}

func TestHotel_Validation(t *testing.T) {
	h := newHarness(t)
	cases := []struct{ name, body string }{
		{"missing city", `{"name":"A","address":"X","rating":4}`},
		{"bad rating", `{"name":"A","address":"X","city":"Y","rating":"great"}`},
		{"rating out of range", `{"name":"A","address":"X","city":"Y","rating":0.5}`},
		{"not json", `{name:`},
		{"empty body", ``},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rr := h.do("POST", "/api/hotels", c.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.NotEmpty(t, errorOf(t, rr))
		})
	}

	rr := h.do("GET", "/api/hotels/abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = h.do("GET", "/api/hotels/0", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = h.do("GET", "/api/hotels/999", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, errorOf(t, rr), "not found")
}

func TestHotel_DeleteWithRoomsIsRejected(t *testing.T) {
	h := newHarness(t)
	created := h.createHotel()
	path := fmt.Sprintf("/api/hotels/%d", created.ID)

	rr := h.do("POST", "/api/rooms", fmt.Sprintf(`{"hotelId":"%d","roomType":"Deluxe","price":"120"}`, created.ID))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	room := decode[domain.Room](t, rr)

	rr = h.do("DELETE", path, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, errorOf(t, rr), "rooms")

	rr = h.do("GET", path, "")
	assert.Equal(t, http.StatusOK, rr.Code, "hotel must survive a rejected delete")

	rr = h.do("DELETE", fmt.Sprintf("/api/rooms/%d", room.ID), "")
	require.Equal(t, http.StatusOK, rr.Code)
	rr = h.do("DELETE", path, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Hotel deleted successfully", decode[map[string]string](t, rr)["message"])
	rr = h.do("GET", path, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRooms_ByTypeReturnsCount(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 3; i++ {
		rr := h.do("POST", "/api/rooms", `{"roomType":"Standard","price":80}`)
		require.Equal(t, http.StatusCreated, rr.Code)
	}
	h.do("POST", "/api/rooms", `{"roomType":"Suite","price":300}`)

	rr := h.do("GET", "/api/rooms?roomtype=Standard", "")
	require.Equal(t, http.StatusOK, rr.Code)
	page := decode[app.RoomsPage](t, rr)
	assert.EqualValues(t, 3, page.Count)
	assert.Len(t, page.Rooms, 3)

	rr = h.do("GET", "/api/rooms", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.Room](t, rr), 4)
}

func TestAmenity_PatchLinkUnlink(t *testing.T) {
	h := newHarness(t)
	hotel := h.createHotel()

	rr := h.do("POST", "/api/hotel-amenities", `{"amenityName":"Pool","description":"Outdoor","icon":"Waves"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	a := decode[domain.Amenity](t, rr)
	assert.Equal(t, "Waves", a.IconKey)
	path := fmt.Sprintf("/api/hotel-amenities/%d", a.ID)
	link := fmt.Sprintf(`{"hotelId":%d,"action":"link"}`, hotel.ID)

	rr = h.do("PATCH", path, link)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	l := decode[map[string]int64](t, rr)
	assert.Equal(t, hotel.ID, l["hotelId"])
	assert.Equal(t, a.ID, l["amenityId"])

	// linking the same pair again conflicts and creates no row
	rr = h.do("PATCH", path, link)
	assert.Equal(t, http.StatusConflict, rr.Code)
	rr = h.do("GET", fmt.Sprintf("/api/hotels/%d", hotel.ID), "")
	assert.Len(t, decode[domain.Hotel](t, rr).Amenities, 1)

	rr = h.do("GET", path, "")
	require.Equal(t, http.StatusOK, rr.Code)
	detail := decode[domain.AmenityDetail](t, rr)
	require.Len(t, detail.Hotels, 1)
	assert.Equal(t, hotel.ID, detail.Hotels[0].ID)

	unlink := fmt.Sprintf(`{"hotelId":%d,"action":"unlink"}`, hotel.ID)
	for i := 0; i < 2; i++ {
		rr = h.do("PATCH", path, unlink)
		assert.Equal(t, http.StatusOK, rr.Code, "unlink is idempotent")
	}

	rr = h.do("PATCH", path, fmt.Sprintf(`{"hotelId":%d,"action":"toggle"}`, hotel.ID))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = h.do("PATCH", path, `{"action":"link"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = h.do("PATCH", "/api/hotel-amenities/999", link)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	// unlinking from an amenity that no longer exists is a no-op
	rr = h.do("PATCH", "/api/hotel-amenities/999", unlink)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = h.do("PATCH", path, `{"hotelId":999,"action":"link"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRoomAmenities_SetInOneCall(t *testing.T) {
	h := newHarness(t)
	rr := h.do("POST", "/api/rooms", `{"roomType":"Deluxe","price":"99.5"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	room := decode[domain.Room](t, rr)

	var ids []int64
	for _, n := range []string{"Tv", "Wifi"} {
		rr := h.do("POST", "/api/room-amenities", fmt.Sprintf(`{"amenityName":%q,"icon":%q}`, n, n))
		require.Equal(t, http.StatusCreated, rr.Code)
		ids = append(ids, decode[domain.Amenity](t, rr).ID)
	}

	path := fmt.Sprintf("/api/rooms/%d/amenities", room.ID)
	rr = h.do("PUT", path, fmt.Sprintf(`{"amenityIds":[%d,%d]}`, ids[0], ids[1]))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	diff := decode[domain.LinkDiff](t, rr)
	assert.Equal(t, ids, diff.Link)
	assert.Empty(t, diff.Unlink)

	rr = h.do("PUT", path, `{"amenityIds":[9999]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = h.do("GET", fmt.Sprintf("/api/rooms/%d", room.ID), "")
	assert.Len(t, decode[domain.Room](t, rr).Amenities, 2, "failed replace leaves links untouched")

	rr = h.do("DELETE", fmt.Sprintf("/api/room-amenities/%d", ids[0]), "")
	require.Equal(t, http.StatusOK, rr.Code)
	rr = h.do("GET", fmt.Sprintf("/api/rooms/%d", room.ID), "")
	assert.Len(t, decode[domain.Room](t, rr).Amenities, 1)
}

func TestRoomTypes_CRUD(t *testing.T) {
	h := newHarness(t)
	rr := h.do("POST", "/api/room-types", `{"typeName":"Suite","description":"Top floor"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	rt := decode[domain.RoomType](t, rr)

	rr = h.do("PUT", fmt.Sprintf("/api/room-types/%d", rt.ID), `{"description":"Penthouse level"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Suite", decode[domain.RoomType](t, rr).TypeName)

	rr = h.do("POST", "/api/room-types", `{"description":"nameless"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = h.do("DELETE", fmt.Sprintf("/api/room-types/%d", rt.ID), "")
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = h.do("GET", "/api/room-types", "")
	assert.Empty(t, decode[[]domain.RoomType](t, rr))
}

func TestIconsAndHealth(t *testing.T) {
	h := newHarness(t)
	rr := h.do("GET", "/api/amenity-icons", "")
	require.Equal(t, http.StatusOK, rr.Code)
	cats := decode[[]domain.IconCategory](t, rr)
	assert.NotEmpty(t, cats)

	rr = h.do("GET", "/api/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	rep := decode[app.HealthReport](t, rr)
	assert.Equal(t, "ok", rep.Status)
	assert.Equal(t, "test", rep.Environment)

	rr = h.do("GET", "/api/test-db", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "success", decode[map[string]any](t, rr)["status"])
}

type failingStore struct{ *memstore.Store }

func (failingStore) ListHotels(context.Context) ([]domain.Hotel, error) {
	return nil, fmt.Errorf("dial tcp 10.0.0.5:3306: connection refused")
}

func (failingStore) Stats(context.Context) (domain.Stats, error) {
	return domain.Stats{}, fmt.Errorf("dial tcp 10.0.0.5:3306: connection refused")
}

func TestInternalErrorsDoNotLeak(t *testing.T) {
	store := failingStore{memstore.New()}
	s := httpserver.New(time.Second)
	s.MountHandlers(&httpserver.Handlers{
		Q:      app.NewQueryService(store, nil, time.Minute),
		C:      app.NewCommandService(store, nil),
		Health: app.NewHealthService(store, "test"),
	})

	rr := httptest.NewRecorder()
	s.Mux().ServeHTTP(rr, httptest.NewRequest("GET", "/api/hotels", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "10.0.0.5")

	rr = httptest.NewRecorder()
	s.Mux().ServeHTTP(rr, httptest.NewRequest("GET", "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.True(t, bytes.Contains(rr.Body.Bytes(), []byte(`"disconnected"`)))
}
