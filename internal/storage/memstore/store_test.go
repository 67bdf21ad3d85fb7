package memstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_backoffice/internal/domain"
	"hotel_backoffice/internal/storage/memstore"
)

func ptr[T any](v T) *T { return &v }

func TestDeleteHotel_RejectedWhileRoomsExist(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	h := &domain.Hotel{Name: "A", Address: "X", City: "Y", Rating: 4}
	require.NoError(t, s.CreateHotel(ctx, h))
	r := &domain.Room{HotelID: ptr(h.ID), RoomType: "Deluxe", Price: 90, Availability: true}
	require.NoError(t, s.CreateRoom(ctx, r, nil))

	err := s.DeleteHotel(ctx, h.ID)
	assert.ErrorIs(t, err, domain.ErrHasDependents)
	_, err = s.GetHotel(ctx, h.ID)
	assert.NoError(t, err)

	require.NoError(t, s.DeleteRoom(ctx, r.ID))
	require.NoError(t, s.DeleteHotel(ctx, h.ID))
	_, err = s.GetHotel(ctx, h.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLinkUnlinkAndSync(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	h := &domain.Hotel{Name: "A", Address: "X", City: "Y", Rating: 3}
	require.NoError(t, s.CreateHotel(ctx, h))
	var ids []int64
	for _, name := range []string{"Pool", "Gym", "Spa"} {
		a := &domain.Amenity{Name: name}
		require.NoError(t, s.CreateAmenity(ctx, domain.HotelAmenity, a))
		ids = append(ids, a.ID)
	}

	_, err := s.Link(ctx, domain.HotelAmenity, h.ID, ids[0])
	require.NoError(t, err)
	_, err = s.Link(ctx, domain.HotelAmenity, h.ID, ids[0])
	assert.ErrorIs(t, err, domain.ErrConflict)

	// unlinking a pair that was never linked is a no-op
	require.NoError(t, s.Unlink(ctx, domain.HotelAmenity, h.ID, ids[2]))
	require.NoError(t, s.Unlink(ctx, domain.HotelAmenity, h.ID, 999), "missing amenity")

	diff, err := s.SyncLinks(ctx, domain.HotelAmenity, h.ID, []int64{ids[1], ids[2]})
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[1], ids[2]}, diff.Link)
	assert.Equal(t, []int64{ids[0]}, diff.Unlink)

	got, err := s.GetHotel(ctx, h.ID)
	require.NoError(t, err)
	require.Len(t, got.Amenities, 2)
	assert.Equal(t, "Gym", got.Amenities[0].Name)

	// deleting an amenity drops its links too
	require.NoError(t, s.DeleteAmenity(ctx, domain.HotelAmenity, ids[1]))
	got, err = s.GetHotel(ctx, h.ID)
	require.NoError(t, err)
	require.Len(t, got.Amenities, 1)
	assert.Equal(t, "Spa", got.Amenities[0].Name)
}

func TestSyncLinks_UnknownAmenityLeavesLinksUntouched(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	h := &domain.Hotel{Name: "A", Address: "X", City: "Y", Rating: 3}
	require.NoError(t, s.CreateHotel(ctx, h))
	a := &domain.Amenity{Name: "Pool"}
	require.NoError(t, s.CreateAmenity(ctx, domain.HotelAmenity, a))
	_, err := s.Link(ctx, domain.HotelAmenity, h.ID, a.ID)
	require.NoError(t, err)

	_, err = s.SyncLinks(ctx, domain.HotelAmenity, h.ID, []int64{999})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := s.GetHotel(ctx, h.ID)
	require.NoError(t, err)
	assert.Len(t, got.Amenities, 1)
}

func TestCountRoomsByType(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreateRoom(ctx, &domain.Room{RoomType: "Standard", Price: 50}, nil))
	}
	require.NoError(t, s.CreateRoom(ctx, &domain.Room{RoomType: "Suite", Price: 300}, nil))

	n, err := s.CountRooms(ctx, domain.RoomFilter{RoomType: "Standard"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = s.CountRooms(ctx, domain.RoomFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

func TestSeedRoomTypes_OnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	s.SeedRoomTypes()
	s.SeedRoomTypes()

	types, err := s.ListRoomTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, len(domain.DefaultRoomTypes()))
}
