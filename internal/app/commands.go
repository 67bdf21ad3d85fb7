package app

import (
	"context"
	"errors"
	"fmt"

	"hotel_backoffice/internal/domain"
)

// CommandService owns every write: validation, coercion, cascade rules and cache
// invalidation. Link and cascade atomicity lives in the store.
type CommandService struct {
	store domain.Store
	cache domain.Cache
}

func NewCommandService(s domain.Store, c domain.Cache) *CommandService {
	return &CommandService{store: s, cache: orNop(c)}
}

// ---- hotels ----

func (s *CommandService) CreateHotel(ctx context.Context, b Body) (domain.Hotel, error) {
	in, err := DecodeHotel(b)
	if err != nil {
		return domain.Hotel{}, err
	}
	h, err := in.NewHotel()
	if err != nil {
		return domain.Hotel{}, err
	}
	if err := s.store.CreateHotel(ctx, &h); err != nil {
		return domain.Hotel{}, err
	}
	invalidate(ctx, s.cache)
	return s.store.GetHotel(ctx, h.ID)
}

// UpdateHotel applies a partial update. A present amenityIds replaces the hotel's
// links in the same transaction.
func (s *CommandService) UpdateHotel(ctx context.Context, id int64, b Body) (domain.Hotel, error) {
	in, err := DecodeHotel(b)
	if err != nil {
		return domain.Hotel{}, err
	}
	cur, err := s.store.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	next, err := in.Apply(cur)
	if err != nil {
		return domain.Hotel{}, err
	}
	if _, err := s.store.UpdateHotel(ctx, &next, in.AmenityIDs); err != nil {
		return domain.Hotel{}, err
	}
	invalidate(ctx, s.cache)
	return s.store.GetHotel(ctx, id)
}

func (s *CommandService) DeleteHotel(ctx context.Context, id int64) error {
	if err := s.store.DeleteHotel(ctx, id); err != nil {
		if errors.Is(err, domain.ErrHasDependents) {
			return fmt.Errorf("%w: delete its rooms first", err)
		}
		return err
	}
	invalidate(ctx, s.cache)
	return nil
}

// ---- rooms ----

func (s *CommandService) CreateRoom(ctx context.Context, b Body) (domain.Room, error) {
	in, err := DecodeRoom(b)
	if err != nil {
		return domain.Room{}, err
	}
	r, err := in.NewRoom()
	if err != nil {
		return domain.Room{}, err
	}
	if err := s.fillRoomType(ctx, &r); err != nil {
		return domain.Room{}, err
	}
	if err := s.store.CreateRoom(ctx, &r, in.AmenityIDs); err != nil {
		return domain.Room{}, err
	}
	invalidate(ctx, s.cache)
	return s.store.GetRoom(ctx, r.ID)
}

// UpdateRoom applies a partial update. Room links change through SetAmenities only.
func (s *CommandService) UpdateRoom(ctx context.Context, id int64, b Body) (domain.Room, error) {
	in, err := DecodeRoom(b)
	if err != nil {
		return domain.Room{}, err
	}
	cur, err := s.store.GetRoom(ctx, id)
	if err != nil {
		return domain.Room{}, err
	}
	next := in.Apply(cur)
	switch {
	case in.RoomTypeID != nil && in.RoomType == "":
		next.RoomType = ""
		if err := s.fillRoomType(ctx, &next); err != nil {
			return domain.Room{}, err
		}
	case in.RoomType != "" && in.RoomTypeID == nil && in.RoomType != cur.RoomType:
		if next.RoomTypeID, err = s.roomTypeIDByName(ctx, in.RoomType); err != nil {
			return domain.Room{}, err
		}
	}
	if err := s.store.UpdateRoom(ctx, &next); err != nil {
		return domain.Room{}, err
	}
	invalidate(ctx, s.cache)
	return s.store.GetRoom(ctx, id)
}

func (s *CommandService) DeleteRoom(ctx context.Context, id int64) error {
	if err := s.store.DeleteRoom(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache)
	return nil
}

// fillRoomType copies the type name into the free-text roomType when only the id was given.
func (s *CommandService) fillRoomType(ctx context.Context, r *domain.Room) error {
	if r.RoomType != "" || r.RoomTypeID == nil {
		return nil
	}
	rt, err := s.store.GetRoomType(ctx, *r.RoomTypeID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: room type %d does not exist", domain.ErrValidation, *r.RoomTypeID)
	}
	if err != nil {
		return err
	}
	r.RoomType = rt.TypeName
	return nil
}

// roomTypeIDByName returns the id of the room type named name, or nil when the name is
// free text with no catalog entry.
func (s *CommandService) roomTypeIDByName(ctx context.Context, name string) (*int64, error) {
	types, err := s.store.ListRoomTypes(ctx)
	if err != nil {
		return nil, err
	}
	for _, rt := range types {
		if rt.TypeName == name {
			id := rt.ID
			return &id, nil
		}
	}
	return nil, nil
}

// ---- room types ----

func (s *CommandService) CreateRoomType(ctx context.Context, b Body) (domain.RoomType, error) {
	in, err := DecodeRoomType(b)
	if err != nil {
		return domain.RoomType{}, err
	}
	if in.TypeName == "" {
		return domain.RoomType{}, fmt.Errorf("%w: typeName is required", domain.ErrValidation)
	}
	rt := domain.RoomType{TypeName: in.TypeName, Description: in.Description}
	if err := s.store.CreateRoomType(ctx, &rt); err != nil {
		return domain.RoomType{}, err
	}
	invalidate(ctx, s.cache)
	return rt, nil
}

func (s *CommandService) UpdateRoomType(ctx context.Context, id int64, b Body) (domain.RoomType, error) {
	in, err := DecodeRoomType(b)
	if err != nil {
		return domain.RoomType{}, err
	}
	rt, err := s.store.GetRoomType(ctx, id)
	if err != nil {
		return domain.RoomType{}, err
	}
	rt.TypeName = orKeep(in.TypeName, rt.TypeName)
	rt.Description = orKeep(in.Description, rt.Description)
	if err := s.store.UpdateRoomType(ctx, &rt); err != nil {
		return domain.RoomType{}, err
	}
	invalidate(ctx, s.cache)
	return rt, nil
}

func (s *CommandService) DeleteRoomType(ctx context.Context, id int64) error {
	if err := s.store.DeleteRoomType(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache)
	return nil
}

// ---- amenities ----

func (s *CommandService) CreateAmenity(ctx context.Context, kind domain.AmenityKind, b Body) (domain.Amenity, error) {
	in, err := DecodeAmenity(b)
	if err != nil {
		return domain.Amenity{}, err
	}
	a, err := in.NewAmenity()
	if err != nil {
		return domain.Amenity{}, err
	}
	if err := s.store.CreateAmenity(ctx, kind, &a); err != nil {
		return domain.Amenity{}, err
	}
	invalidate(ctx, s.cache)
	return a, nil
}

func (s *CommandService) UpdateAmenity(ctx context.Context, kind domain.AmenityKind, id int64, b Body) (domain.Amenity, error) {
	in, err := DecodeAmenity(b)
	if err != nil {
		return domain.Amenity{}, err
	}
	cur, err := s.store.GetAmenity(ctx, kind, id)
	if err != nil {
		return domain.Amenity{}, err
	}
	a := in.Apply(cur.Amenity)
	if err := s.store.UpdateAmenity(ctx, kind, &a); err != nil {
		return domain.Amenity{}, err
	}
	invalidate(ctx, s.cache)
	return a, nil
}

func (s *CommandService) DeleteAmenity(ctx context.Context, kind domain.AmenityKind, id int64) error {
	if err := s.store.DeleteAmenity(ctx, kind, id); err != nil {
		return err
	}
	invalidate(ctx, s.cache)
	return nil
}

// LinkResult is the outcome of one PATCH link/unlink. Link is nil for unlink.
type LinkResult struct {
	Action domain.LinkAction
	Link   *domain.Link
}

// ApplyLink links or unlinks one (owner, amenity) pair. Unlinking a pair that is not
// linked succeeds.
func (s *CommandService) ApplyLink(ctx context.Context, kind domain.AmenityKind, amenityID int64, b Body) (LinkResult, error) {
	req, err := DecodeLink(kind, b)
	if err != nil {
		return LinkResult{}, err
	}
	res := LinkResult{Action: req.Action}
	switch req.Action {
	case domain.ActionLink:
		l, err := s.store.Link(ctx, kind, req.OwnerID, amenityID)
		if err != nil {
			return res, err
		}
		res.Link = &l
	case domain.ActionUnlink:
		if err := s.store.Unlink(ctx, kind, req.OwnerID, amenityID); err != nil {
			return res, err
		}
	}
	invalidate(ctx, s.cache)
	return res, nil
}

// SetAmenities replaces the owner's links with the requested set in one transaction.
func (s *CommandService) SetAmenities(ctx context.Context, kind domain.AmenityKind, ownerID int64, b Body) (domain.LinkDiff, error) {
	ids, err := DecodeAmenityIDs(b)
	if err != nil {
		return domain.LinkDiff{}, err
	}
	diff, err := s.store.SyncLinks(ctx, kind, ownerID, ids)
	if err != nil {
		return domain.LinkDiff{}, err
	}
	if !diff.Empty() {
		invalidate(ctx, s.cache)
	}
	return diff, nil
}
