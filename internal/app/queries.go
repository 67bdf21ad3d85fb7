package app

import (
	"context"
	"fmt"
	"time"

	"hotel_backoffice/internal/domain"
)

type QueryService struct {
	store    domain.Store
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(s domain.Store, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{store: s, cache: orNop(c), cacheTTL: ttl}
}

func (s *QueryService) ttl() int { return int(s.cacheTTL.Seconds()) }

func (s *QueryService) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	return readThrough(ctx, s.cache, s.ttl(), "hotels", s.store.ListHotels)
}

func (s *QueryService) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	return readThrough(ctx, s.cache, s.ttl(), fmt.Sprintf("hotel:%d", id), func(ctx context.Context) (domain.Hotel, error) {
		return s.store.GetHotel(ctx, id)
	})
}

// RoomsPage is the room listing narrowed to one room type, with its size.
type RoomsPage struct {
	Rooms []domain.Room `json:"rooms"`
	Count int64         `json:"countRooms"`
}

// Rooms are never cached: the per-type count gates room creation and must be current.
func (s *QueryService) ListRooms(ctx context.Context, f domain.RoomFilter) ([]domain.Room, error) {
	return s.store.ListRooms(ctx, f)
}

func (s *QueryService) RoomsByType(ctx context.Context, roomType string) (RoomsPage, error) {
	f := domain.RoomFilter{RoomType: roomType}
	rooms, err := s.store.ListRooms(ctx, f)
	if err != nil {
		return RoomsPage{}, err
	}
	n, err := s.store.CountRooms(ctx, f)
	if err != nil {
		return RoomsPage{}, err
	}
	return RoomsPage{Rooms: rooms, Count: n}, nil
}

func (s *QueryService) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	return s.store.GetRoom(ctx, id)
}

func (s *QueryService) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	return readThrough(ctx, s.cache, s.ttl(), "room-types", s.store.ListRoomTypes)
}

func (s *QueryService) GetRoomType(ctx context.Context, id int64) (domain.RoomType, error) {
	return s.store.GetRoomType(ctx, id)
}

func (s *QueryService) ListAmenities(ctx context.Context, kind domain.AmenityKind) ([]domain.Amenity, error) {
	return readThrough(ctx, s.cache, s.ttl(), "amenities:"+string(kind), func(ctx context.Context) ([]domain.Amenity, error) {
		return s.store.ListAmenities(ctx, kind)
	})
}

func (s *QueryService) GetAmenity(ctx context.Context, kind domain.AmenityKind, id int64) (domain.AmenityDetail, error) {
	key := fmt.Sprintf("amenity:%s:%d", kind, id)
	return readThrough(ctx, s.cache, s.ttl(), key, func(ctx context.Context) (domain.AmenityDetail, error) {
		return s.store.GetAmenity(ctx, kind, id)
	})
}

func (s *QueryService) IconCatalog() []domain.IconCategory {
	return domain.IconCatalog()
}
