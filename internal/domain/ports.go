package domain

import (
	"context"
	"time"
)

type HotelRepository interface {
	ListHotels(ctx context.Context) ([]Hotel, error)
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	CreateHotel(ctx context.Context, h *Hotel) error
	// UpdateHotel saves every scalar field of h. A non-nil amenityIDs replaces the hotel's
	// amenity links with that set in the same transaction; the applied diff is returned.
	UpdateHotel(ctx context.Context, h *Hotel, amenityIDs []int64) (LinkDiff, error)
	// DeleteHotel fails with ErrHasDependents while rooms reference the hotel.
	DeleteHotel(ctx context.Context, id int64) error
}

type RoomRepository interface {
	ListRooms(ctx context.Context, f RoomFilter) ([]Room, error)
	CountRooms(ctx context.Context, f RoomFilter) (int64, error)
	GetRoom(ctx context.Context, id int64) (Room, error)
	CreateRoom(ctx context.Context, r *Room, amenityIDs []int64) error
	UpdateRoom(ctx context.Context, r *Room) error
	DeleteRoom(ctx context.Context, id int64) error
}

type RoomTypeRepository interface {
	ListRoomTypes(ctx context.Context) ([]RoomType, error)
	GetRoomType(ctx context.Context, id int64) (RoomType, error)
	CreateRoomType(ctx context.Context, rt *RoomType) error
	// UpdateRoomType renames the roomType of the rooms referencing rt as well.
	UpdateRoomType(ctx context.Context, rt *RoomType) error
	// DeleteRoomType fails with ErrHasDependents while rooms reference the type.
	DeleteRoomType(ctx context.Context, id int64) error
}

type AmenityRepository interface {
	ListAmenities(ctx context.Context, kind AmenityKind) ([]Amenity, error)
	GetAmenity(ctx context.Context, kind AmenityKind, id int64) (AmenityDetail, error)
	CreateAmenity(ctx context.Context, kind AmenityKind, a *Amenity) error
	UpdateAmenity(ctx context.Context, kind AmenityKind, a *Amenity) error
	// DeleteAmenity removes the amenity's link rows before the amenity itself.
	DeleteAmenity(ctx context.Context, kind AmenityKind, id int64) error

	// Link fails with ErrConflict when the pair is already linked.
	Link(ctx context.Context, kind AmenityKind, ownerID, amenityID int64) (Link, error)
	// Unlink is a no-op when the pair is not linked.
	Unlink(ctx context.Context, kind AmenityKind, ownerID, amenityID int64) error
	// SyncLinks makes the owner's links equal to amenityIDs inside one transaction.
	SyncLinks(ctx context.Context, kind AmenityKind, ownerID int64, amenityIDs []int64) (LinkDiff, error)
}

// Store is the full persistence port used by the application services.
type Store interface {
	HotelRepository
	RoomRepository
	RoomTypeRepository
	AmenityRepository

	Ping(ctx context.Context) (time.Duration, error)
	Stats(ctx context.Context) (Stats, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
}
