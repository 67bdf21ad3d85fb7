// Package memstore is an in-process domain.Store. It backs STORAGE_DRIVER=memory and the
// service-level tests; every method takes the single store lock, so composite operations are
// atomic the same way the MySQL store's transactions are.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"hotel_backoffice/internal/domain"
)

type linkRow struct {
	id        int64
	ownerID   int64
	amenityID int64
}

type Store struct {
	mu sync.RWMutex

	seq       int64
	hotels    map[int64]domain.Hotel
	rooms     map[int64]domain.Room
	roomTypes map[int64]domain.RoomType
	amenities map[domain.AmenityKind]map[int64]domain.Amenity
	links     map[domain.AmenityKind][]linkRow
}

var _ domain.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		hotels:    map[int64]domain.Hotel{},
		rooms:     map[int64]domain.Room{},
		roomTypes: map[int64]domain.RoomType{},
		amenities: map[domain.AmenityKind]map[int64]domain.Amenity{
			domain.HotelAmenity: {},
			domain.RoomAmenity:  {},
		},
		links: map[domain.AmenityKind][]linkRow{},
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// SeedRoomTypes adds domain.DefaultRoomTypes when no room type exists yet.
func (s *Store) SeedRoomTypes() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.roomTypes) > 0 {
		return
	}
	for _, rt := range domain.DefaultRoomTypes() {
		rt.ID = s.nextID()
		s.roomTypes[rt.ID] = rt
	}
}

func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return 0, nil
}

func (s *Store) Stats(ctx context.Context) (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Stats{Hotels: int64(len(s.hotels)), Rooms: int64(len(s.rooms))}, nil
}

// ---- hotels ----

func (s *Store) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Hotel, 0, len(s.hotels))
	for _, id := range sortedKeys(s.hotels) {
		out = append(out, s.hotelView(s.hotels[id]))
	}
	return out, nil
}

func (s *Store) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hotels[id]
	if !ok {
		return domain.Hotel{}, fmt.Errorf("hotel %d: %w", id, domain.ErrNotFound)
	}
	return s.hotelView(h), nil
}

func (s *Store) CreateHotel(ctx context.Context, h *domain.Hotel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h.ID = s.nextID()
	s.hotels[h.ID] = scalarHotel(*h)
	return nil
}

func (s *Store) UpdateHotel(ctx context.Context, h *domain.Hotel, amenityIDs []int64) (domain.LinkDiff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hotels[h.ID]; !ok {
		return domain.LinkDiff{}, fmt.Errorf("hotel %d: %w", h.ID, domain.ErrNotFound)
	}
	var diff domain.LinkDiff
	if amenityIDs != nil {
		var err error
		if diff, err = s.syncLocked(domain.HotelAmenity, h.ID, amenityIDs); err != nil {
			return domain.LinkDiff{}, err
		}
	}
	s.hotels[h.ID] = scalarHotel(*h)
	return diff, nil
}

func (s *Store) DeleteHotel(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hotels[id]; !ok {
		return fmt.Errorf("hotel %d: %w", id, domain.ErrNotFound)
	}
	for _, r := range s.rooms {
		if r.HotelID != nil && *r.HotelID == id {
			return fmt.Errorf("%w: hotel %d still has rooms", domain.ErrHasDependents, id)
		}
	}
	s.dropLinks(domain.HotelAmenity, func(l linkRow) bool { return l.ownerID == id })
	delete(s.hotels, id)
	return nil
}

// ---- rooms ----

func (s *Store) ListRooms(ctx context.Context, f domain.RoomFilter) ([]domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Room{}
	for _, id := range sortedKeys(s.rooms) {
		r := s.rooms[id]
		if matchRoom(r, f) {
			out = append(out, s.roomView(r, true))
		}
	}
	return out, nil
}

func (s *Store) CountRooms(ctx context.Context, f domain.RoomFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, r := range s.rooms {
		if matchRoom(r, f) {
			n++
		}
	}
	return n, nil
}

func (s *Store) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return domain.Room{}, fmt.Errorf("room %d: %w", id, domain.ErrNotFound)
	}
	return s.roomView(r, true), nil
}

func (s *Store) CreateRoom(ctx context.Context, r *domain.Room, amenityIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRoomRefs(*r); err != nil {
		return err
	}
	for _, aid := range amenityIDs {
		if _, ok := s.amenities[domain.RoomAmenity][aid]; !ok {
			return fmt.Errorf("%w: room amenity %d does not exist", domain.ErrValidation, aid)
		}
	}
	r.ID = s.nextID()
	s.rooms[r.ID] = scalarRoom(*r)
	for _, aid := range domain.Diff(nil, amenityIDs).Link {
		s.links[domain.RoomAmenity] = append(s.links[domain.RoomAmenity], linkRow{id: s.nextID(), ownerID: r.ID, amenityID: aid})
	}
	return nil
}

func (s *Store) UpdateRoom(ctx context.Context, r *domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[r.ID]; !ok {
		return fmt.Errorf("room %d: %w", r.ID, domain.ErrNotFound)
	}
	if err := s.checkRoomRefs(*r); err != nil {
		return err
	}
	s.rooms[r.ID] = scalarRoom(*r)
	return nil
}

func (s *Store) DeleteRoom(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; !ok {
		return fmt.Errorf("room %d: %w", id, domain.ErrNotFound)
	}
	s.dropLinks(domain.RoomAmenity, func(l linkRow) bool { return l.ownerID == id })
	delete(s.rooms, id)
	return nil
}

func (s *Store) checkRoomRefs(r domain.Room) error {
	if r.HotelID != nil {
		if _, ok := s.hotels[*r.HotelID]; !ok {
			return fmt.Errorf("%w: hotel %d does not exist", domain.ErrValidation, *r.HotelID)
		}
	}
	if r.RoomTypeID != nil {
		if _, ok := s.roomTypes[*r.RoomTypeID]; !ok {
			return fmt.Errorf("%w: room type %d does not exist", domain.ErrValidation, *r.RoomTypeID)
		}
	}
	return nil
}

// ---- room types ----

func (s *Store) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.RoomType, 0, len(s.roomTypes))
	for _, id := range sortedKeys(s.roomTypes) {
		out = append(out, s.roomTypes[id])
	}
	return out, nil
}

func (s *Store) GetRoomType(ctx context.Context, id int64) (domain.RoomType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rt, ok := s.roomTypes[id]
	if !ok {
		return domain.RoomType{}, fmt.Errorf("room type %d: %w", id, domain.ErrNotFound)
	}
	return rt, nil
}

func (s *Store) CreateRoomType(ctx context.Context, rt *domain.RoomType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt.ID = s.nextID()
	s.roomTypes[rt.ID] = *rt
	return nil
}

func (s *Store) UpdateRoomType(ctx context.Context, rt *domain.RoomType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roomTypes[rt.ID]; !ok {
		return fmt.Errorf("room type %d: %w", rt.ID, domain.ErrNotFound)
	}
	s.roomTypes[rt.ID] = *rt
	for id, r := range s.rooms {
		if r.RoomTypeID != nil && *r.RoomTypeID == rt.ID {
			r.RoomType = rt.TypeName
			s.rooms[id] = r
		}
	}
	return nil
}

func (s *Store) DeleteRoomType(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roomTypes[id]; !ok {
		return fmt.Errorf("room type %d: %w", id, domain.ErrNotFound)
	}
	for _, r := range s.rooms {
		if r.RoomTypeID != nil && *r.RoomTypeID == id {
			return fmt.Errorf("%w: room type %d is used by rooms", domain.ErrHasDependents, id)
		}
	}
	delete(s.roomTypes, id)
	return nil
}

// ---- amenities ----

func (s *Store) ListAmenities(ctx context.Context, kind domain.AmenityKind) ([]domain.Amenity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.amenities[kind]
	out := make([]domain.Amenity, 0, len(set))
	for _, id := range sortedKeys(set) {
		out = append(out, set[id])
	}
	return out, nil
}

func (s *Store) GetAmenity(ctx context.Context, kind domain.AmenityKind, id int64) (domain.AmenityDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.amenities[kind][id]
	if !ok {
		return domain.AmenityDetail{}, fmt.Errorf("%s amenity %d: %w", kind, id, domain.ErrNotFound)
	}
	d := domain.AmenityDetail{Amenity: a}
	for _, l := range s.links[kind] {
		if l.amenityID != id {
			continue
		}
		switch kind {
		case domain.HotelAmenity:
			if h, ok := s.hotels[l.ownerID]; ok {
				d.Hotels = append(d.Hotels, domain.HotelRef{ID: h.ID, Name: h.Name, City: h.City})
			}
		case domain.RoomAmenity:
			if r, ok := s.rooms[l.ownerID]; ok {
				ref := domain.RoomRef{ID: r.ID, RoomType: r.RoomType, Price: r.Price, Hotel: s.hotelRef(r.HotelID)}
				d.Rooms = append(d.Rooms, ref)
			}
		}
	}
	return d, nil
}

func (s *Store) CreateAmenity(ctx context.Context, kind domain.AmenityKind, a *domain.Amenity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextID()
	a.ResolveIcon()
	s.amenities[kind][a.ID] = *a
	return nil
}

func (s *Store) UpdateAmenity(ctx context.Context, kind domain.AmenityKind, a *domain.Amenity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.amenities[kind][a.ID]; !ok {
		return fmt.Errorf("%s amenity %d: %w", kind, a.ID, domain.ErrNotFound)
	}
	a.ResolveIcon()
	s.amenities[kind][a.ID] = *a
	return nil
}

func (s *Store) DeleteAmenity(ctx context.Context, kind domain.AmenityKind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.amenities[kind][id]; !ok {
		return fmt.Errorf("%s amenity %d: %w", kind, id, domain.ErrNotFound)
	}
	s.dropLinks(kind, func(l linkRow) bool { return l.amenityID == id })
	delete(s.amenities[kind], id)
	return nil
}

func (s *Store) Link(ctx context.Context, kind domain.AmenityKind, ownerID, amenityID int64) (domain.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkLinkRefs(kind, ownerID, amenityID); err != nil {
		return domain.Link{}, err
	}
	for _, l := range s.links[kind] {
		if l.ownerID == ownerID && l.amenityID == amenityID {
			return domain.Link{}, fmt.Errorf("%w: link already exists", domain.ErrConflict)
		}
	}
	row := linkRow{id: s.nextID(), ownerID: ownerID, amenityID: amenityID}
	s.links[kind] = append(s.links[kind], row)
	return domain.Link{ID: row.id, Kind: kind, OwnerID: ownerID, AmenityID: amenityID}, nil
}

func (s *Store) Unlink(ctx context.Context, kind domain.AmenityKind, ownerID, amenityID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLinks(kind, func(l linkRow) bool { return l.ownerID == ownerID && l.amenityID == amenityID })
	return nil
}

func (s *Store) SyncLinks(ctx context.Context, kind domain.AmenityKind, ownerID int64, amenityIDs []int64) (domain.LinkDiff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ownerExists(kind, ownerID) {
		return domain.LinkDiff{}, fmt.Errorf("%s %d: %w", kind, ownerID, domain.ErrNotFound)
	}
	return s.syncLocked(kind, ownerID, amenityIDs)
}

func (s *Store) syncLocked(kind domain.AmenityKind, ownerID int64, amenityIDs []int64) (domain.LinkDiff, error) {
	for _, aid := range amenityIDs {
		if _, ok := s.amenities[kind][aid]; !ok {
			return domain.LinkDiff{}, fmt.Errorf("%w: %s amenity %d does not exist", domain.ErrValidation, kind, aid)
		}
	}
	diff := domain.Diff(s.linkedIDs(kind, ownerID), amenityIDs)
	unlink := map[int64]bool{}
	for _, id := range diff.Unlink {
		unlink[id] = true
	}
	s.dropLinks(kind, func(l linkRow) bool { return l.ownerID == ownerID && unlink[l.amenityID] })
	for _, aid := range diff.Link {
		s.links[kind] = append(s.links[kind], linkRow{id: s.nextID(), ownerID: ownerID, amenityID: aid})
	}
	return diff, nil
}

func (s *Store) checkLinkRefs(kind domain.AmenityKind, ownerID, amenityID int64) error {
	if _, ok := s.amenities[kind][amenityID]; !ok {
		return fmt.Errorf("%s amenity %d: %w", kind, amenityID, domain.ErrNotFound)
	}
	if !s.ownerExists(kind, ownerID) {
		return fmt.Errorf("%s %d: %w", kind, ownerID, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) ownerExists(kind domain.AmenityKind, ownerID int64) bool {
	if kind == domain.RoomAmenity {
		_, ok := s.rooms[ownerID]
		return ok
	}
	_, ok := s.hotels[ownerID]
	return ok
}

func (s *Store) linkedIDs(kind domain.AmenityKind, ownerID int64) []int64 {
	var ids []int64
	for _, l := range s.links[kind] {
		if l.ownerID == ownerID {
			ids = append(ids, l.amenityID)
		}
	}
	return ids
}

func (s *Store) dropLinks(kind domain.AmenityKind, match func(linkRow) bool) {
	kept := s.links[kind][:0]
	for _, l := range s.links[kind] {
		if !match(l) {
			kept = append(kept, l)
		}
	}
	s.links[kind] = kept
}

// ---- views ----

func (s *Store) hotelView(h domain.Hotel) domain.Hotel {
	h.Rooms = []domain.Room{}
	for _, id := range sortedKeys(s.rooms) {
		r := s.rooms[id]
		if r.HotelID != nil && *r.HotelID == h.ID {
			h.Rooms = append(h.Rooms, s.roomView(r, false))
		}
	}
	h.Amenities = s.linkedAmenities(domain.HotelAmenity, h.ID)
	// reviews have no write path, so the memory store never holds any
	h.Reviews = []domain.Review{}
	return h
}

func (s *Store) roomView(r domain.Room, withHotel bool) domain.Room {
	if r.RoomTypeID != nil {
		if rt, ok := s.roomTypes[*r.RoomTypeID]; ok {
			r.Type = &rt
		}
	}
	if withHotel {
		r.Hotel = s.hotelRef(r.HotelID)
	}
	r.Amenities = s.linkedAmenities(domain.RoomAmenity, r.ID)
	return r
}

func (s *Store) hotelRef(id *int64) *domain.HotelRef {
	if id == nil {
		return nil
	}
	h, ok := s.hotels[*id]
	if !ok {
		return nil
	}
	return &domain.HotelRef{ID: h.ID, Name: h.Name, City: h.City}
}

func (s *Store) linkedAmenities(kind domain.AmenityKind, ownerID int64) []domain.Amenity {
	out := []domain.Amenity{}
	for _, aid := range domain.Diff(nil, s.linkedIDs(kind, ownerID)).Link {
		if a, ok := s.amenities[kind][aid]; ok {
			out = append(out, a)
		}
	}
	return out
}

func matchRoom(r domain.Room, f domain.RoomFilter) bool {
	if f.RoomType != "" && r.RoomType != f.RoomType {
		return false
	}
	if f.HotelID != nil && (r.HotelID == nil || *r.HotelID != *f.HotelID) {
		return false
	}
	return true
}

func scalarHotel(h domain.Hotel) domain.Hotel {
	h.Rooms, h.Amenities, h.Reviews = nil, nil, nil
	return h
}

func scalarRoom(r domain.Room) domain.Room {
	r.Type, r.Hotel, r.Amenities = nil, nil, nil
	return r
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
