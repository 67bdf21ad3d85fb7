package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_backoffice/internal/adapters/backoffice"
	httpserver "hotel_backoffice/internal/adapters/http_server"
	"hotel_backoffice/internal/app"
	"hotel_backoffice/internal/domain"
	"hotel_backoffice/internal/storage/memstore"
)

func newTestAPI(t *testing.T) string {
	t.Helper()
	store := memstore.New()
	s := httpserver.New(5 * time.Second)
	s.MountHandlers(&httpserver.Handlers{
		Q:      app.NewQueryService(store, nil, time.Minute),
		C:      app.NewCommandService(store, nil),
		Health: app.NewHealthService(store, "test"),
	})
	ts := httptest.NewServer(s.Mux())
	t.Cleanup(ts.Close)
	return ts.URL
}

const seedYAML = `
roomTypes:
  - typeName: Deluxe
    description: Sea view
hotelAmenities:
  - amenityName: Pool
    icon: Waves
  - amenityName: Spa
    icon: Bath
roomAmenities:
  - amenityName: Wifi
    icon: Wifi
hotels:
  - name: Seaside
    address: 1 Beach Rd
    city: Nice
    rating: 4.5
    amenities: [Pool, Spa]
    rooms:
      - roomType: Deluxe
        price: 120
        amenities: [Wifi]
      - roomType: Deluxe
        price: 130
        booked: true
  - name: Harbour
    address: 2 Dock St
    city: Nice
    rating: 3
    rooms:
      - roomType: Standard
        price: 80
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestRunSeed_YAML(t *testing.T) {
	base := newTestAPI(t)
	f, err := loadSeedFile(writeFile(t, "seed.yaml", seedYAML))
	require.NoError(t, err)
	require.Len(t, f.Hotels, 2)

	cl, err := backoffice.New(base, 1000)
	require.NoError(t, err)
	sum, err := runSeed(context.Background(), cl, f, 2)
	require.NoError(t, err)
	assert.Equal(t, seedSummary{Hotels: 2, Rooms: 3}, sum)

	hotels, err := cl.ListHotels(context.Background())
	require.NoError(t, err)
	require.Len(t, hotels, 2)
	for _, h := range hotels {
		if h.Name == "Seaside" {
			assert.Len(t, h.Amenities, 2)
			assert.Len(t, h.Rooms, 2)
		}
	}
}

func TestRunSeed_SkipsFullRoomType(t *testing.T) {
	base := newTestAPI(t)
	cl, err := backoffice.New(base, 1000)
	require.NoError(t, err)

	h := seedHotel{Name: "Big", Address: "X", City: "Y", Rating: 4}
	for i := 0; i < domain.MaxRoomsPerType+2; i++ {
		h.Rooms = append(h.Rooms, seedRoom{RoomType: "Suite", Price: 200})
	}
	sum, err := runSeed(context.Background(), cl, seedFile{Hotels: []seedHotel{h}}, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxRoomsPerType, sum.Rooms)
	assert.Equal(t, 2, sum.SkippedRooms)
}

func TestRunSeed_ConcurrentHotelsKeepRoomCap(t *testing.T) {
	base := newTestAPI(t)
	cl, err := backoffice.New(base, 1000)
	require.NoError(t, err)

	var f seedFile
	for i := 0; i < 8; i++ {
		h := seedHotel{Name: fmt.Sprintf("H%d", i), Address: "X", City: "Y", Rating: 4}
		for j := 0; j < 3; j++ {
			h.Rooms = append(h.Rooms, seedRoom{RoomType: "Suite", Price: 300})
		}
		f.Hotels = append(f.Hotels, h)
	}
	sum, err := runSeed(context.Background(), cl, f, 8)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxRoomsPerType, sum.Rooms)
	assert.Equal(t, 8*3-domain.MaxRoomsPerType, sum.SkippedRooms)

	page, err := cl.RoomsByType(context.Background(), "Suite")
	require.NoError(t, err)
	assert.EqualValues(t, domain.MaxRoomsPerType, page.Count)
}

func TestRunSeed_UnknownAmenityFailsHotel(t *testing.T) {
	base := newTestAPI(t)
	cl, err := backoffice.New(base, 1000)
	require.NoError(t, err)

	f := seedFile{Hotels: []seedHotel{
		{Name: "A", Address: "X", City: "Y", Rating: 4, Amenities: []string{"Sauna"}},
		{Name: "B", Address: "X", City: "Y", Rating: 4},
	}}
	sum, err := runSeed(context.Background(), cl, f, 2)
	assert.Error(t, err)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, sum.Hotels)
}

func TestRootCmd_RoomsCount(t *testing.T) {
	base := newTestAPI(t)
	cl, err := backoffice.New(base, 1000)
	require.NoError(t, err)
	price := 90.0
	_, err = cl.CreateRoom(context.Background(), backoffice.RoomRequest{RoomType: "Deluxe", Price: &price})
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--base-url", base, "rooms", "count", "--type", "Deluxe"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Deluxe: 1/10\n", out.String())
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs("3, 1,,2")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids)

	ids, err = parseIDs("")
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)

	_, err = parseIDs("1,x")
	assert.Error(t, err)
}

func TestRootCmd_RoomAmenitiesFromOriginal(t *testing.T) {
	base := newTestAPI(t)
	cl, err := backoffice.New(base, 1000)
	require.NoError(t, err)
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"Wifi", "Minibar", "Safe"} {
		a, err := cl.CreateAmenity(ctx, domain.RoomAmenity, backoffice.AmenityRequest{Name: name})
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}
	price := 90.0
	room, err := cl.CreateRoom(ctx, backoffice.RoomRequest{RoomType: "Deluxe", Price: &price, AmenityIDs: ids[:1]})
	require.NoError(t, err)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--base-url", base, "rooms", "amenities", fmt.Sprint(room.ID),
		"--original", fmt.Sprint(ids[0]), "--set", fmt.Sprintf("%d,%d", ids[1], ids[2])})
	require.NoError(t, cmd.Execute())

	var diff domain.LinkDiff
	require.NoError(t, json.Unmarshal(out.Bytes(), &diff))
	assert.Equal(t, ids[1:], diff.Link)
	assert.Equal(t, ids[:1], diff.Unlink)

	got, err := cl.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, got.Amenities, 2)
}
