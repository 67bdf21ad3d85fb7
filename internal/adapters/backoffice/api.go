package backoffice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"hotel_backoffice/internal/app"
	"hotel_backoffice/internal/domain"
)

// Request bodies. Empty fields are omitted, so an update only touches what is set.

type HotelRequest struct {
	Name     string   `json:"name,omitempty"`
	Address  string   `json:"address,omitempty"`
	City     string   `json:"city,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	ImageURL *string  `json:"imageUrl,omitempty"`
}

type RoomRequest struct {
	HotelID      *int64   `json:"hotelId,omitempty"`
	RoomType     string   `json:"roomType,omitempty"`
	RoomTypeID   *int64   `json:"roomTypeId,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Availability *bool    `json:"availability,omitempty"`
	ImageURL     *string  `json:"imageUrl,omitempty"`
	AmenityIDs   []int64  `json:"amenityIds,omitempty"`
}

type RoomTypeRequest struct {
	TypeName    string `json:"typeName,omitempty"`
	Description string `json:"description,omitempty"`
}

type AmenityRequest struct {
	Name        string  `json:"amenityName,omitempty"`
	Description string  `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// ErrRoomTypeFull is returned by CreateRoomChecked when the type already holds
// domain.MaxRoomsPerType rooms. No create request is sent in that case.
var ErrRoomTypeFull = errors.New("room type is full")

type messageResponse struct {
	Message string `json:"message"`
}

func (c *Client) Health(ctx context.Context) (app.HealthReport, error) {
	var out app.HealthReport
	return out, c.do(ctx, http.MethodGet, "/api/health", nil, &out)
}

func (c *Client) AmenityIcons(ctx context.Context) ([]domain.IconCategory, error) {
	var out []domain.IconCategory
	return out, c.do(ctx, http.MethodGet, "/api/amenity-icons", nil, &out)
}

// ---- hotels ----

func (c *Client) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	var out []domain.Hotel
	return out, c.do(ctx, http.MethodGet, "/api/hotels", nil, &out)
}

func (c *Client) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	var out domain.Hotel
	return out, c.do(ctx, http.MethodGet, fmt.Sprintf("/api/hotels/%d", id), nil, &out)
}

func (c *Client) CreateHotel(ctx context.Context, req HotelRequest) (domain.Hotel, error) {
	var out domain.Hotel
	return out, c.do(ctx, http.MethodPost, "/api/hotels", req, &out)
}

func (c *Client) UpdateHotel(ctx context.Context, id int64, req HotelRequest) (domain.Hotel, error) {
	var out domain.Hotel
	return out, c.do(ctx, http.MethodPut, fmt.Sprintf("/api/hotels/%d", id), req, &out)
}

func (c *Client) DeleteHotel(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/hotels/%d", id), nil, &messageResponse{})
}

// CreateHotelWithAmenities creates the hotel, then links each selected amenity
// concurrently. A failed link leaves the created hotel in place; the returned hotel and
// report reflect what was applied.
func (c *Client) CreateHotelWithAmenities(ctx context.Context, req HotelRequest, amenityIDs []int64) (domain.Hotel, ReconcileReport, error) {
	h, err := c.CreateHotel(ctx, req)
	if err != nil || len(amenityIDs) == 0 {
		return h, ReconcileReport{}, err
	}
	rep, linkErr := c.apply(ctx, domain.HotelAmenity, h.ID, domain.Diff(nil, amenityIDs), DefaultConcurrency)
	got, err := c.GetHotel(ctx, h.ID)
	if err != nil {
		got = h
	}
	if linkErr != nil {
		return got, rep, fmt.Errorf("hotel %d created, linking amenities: %w", h.ID, linkErr)
	}
	return got, rep, err
}

// ---- rooms ----

func (c *Client) ListRooms(ctx context.Context) ([]domain.Room, error) {
	var out []domain.Room
	return out, c.do(ctx, http.MethodGet, "/api/rooms", nil, &out)
}

func (c *Client) RoomsByType(ctx context.Context, roomType string) (app.RoomsPage, error) {
	var out app.RoomsPage
	path := "/api/rooms?roomtype=" + url.QueryEscape(roomType)
	return out, c.do(ctx, http.MethodGet, path, nil, &out)
}

func (c *Client) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	var out domain.Room
	return out, c.do(ctx, http.MethodGet, fmt.Sprintf("/api/rooms/%d", id), nil, &out)
}

func (c *Client) CreateRoom(ctx context.Context, req RoomRequest) (domain.Room, error) {
	var out domain.Room
	return out, c.do(ctx, http.MethodPost, "/api/rooms", req, &out)
}

// CreateRoomChecked reads the current size of the room's type and refuses to create the
// room once the type holds domain.MaxRoomsPerType rooms. The check is advisory: two
// concurrent callers can both pass it.
func (c *Client) CreateRoomChecked(ctx context.Context, req RoomRequest) (domain.Room, error) {
	name := req.RoomType
	if name == "" && req.RoomTypeID != nil {
		rt, err := c.GetRoomType(ctx, *req.RoomTypeID)
		if err != nil {
			return domain.Room{}, err
		}
		name = rt.TypeName
	}
	if name == "" {
		return domain.Room{}, fmt.Errorf("%w: roomType or roomTypeId is required", domain.ErrValidation)
	}
	page, err := c.RoomsByType(ctx, name)
	if err != nil {
		return domain.Room{}, err
	}
	if page.Count >= domain.MaxRoomsPerType {
		return domain.Room{}, fmt.Errorf("%w: %q has %d rooms, limit is %d", ErrRoomTypeFull, name, page.Count, domain.MaxRoomsPerType)
	}
	return c.CreateRoom(ctx, req)
}

func (c *Client) UpdateRoom(ctx context.Context, id int64, req RoomRequest) (domain.Room, error) {
	var out domain.Room
	return out, c.do(ctx, http.MethodPut, fmt.Sprintf("/api/rooms/%d", id), req, &out)
}

func (c *Client) DeleteRoom(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/rooms/%d", id), nil, &messageResponse{})
}

// ---- room types ----

func (c *Client) ListRoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	var out []domain.RoomType
	return out, c.do(ctx, http.MethodGet, "/api/room-types", nil, &out)
}

func (c *Client) GetRoomType(ctx context.Context, id int64) (domain.RoomType, error) {
	var out domain.RoomType
	return out, c.do(ctx, http.MethodGet, fmt.Sprintf("/api/room-types/%d", id), nil, &out)
}

func (c *Client) CreateRoomType(ctx context.Context, req RoomTypeRequest) (domain.RoomType, error) {
	var out domain.RoomType
	return out, c.do(ctx, http.MethodPost, "/api/room-types", req, &out)
}

func (c *Client) UpdateRoomType(ctx context.Context, id int64, req RoomTypeRequest) (domain.RoomType, error) {
	var out domain.RoomType
	return out, c.do(ctx, http.MethodPut, fmt.Sprintf("/api/room-types/%d", id), req, &out)
}

func (c *Client) DeleteRoomType(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/room-types/%d", id), nil, &messageResponse{})
}

// ---- amenities ----

func amenityPath(kind domain.AmenityKind) string {
	if kind == domain.RoomAmenity {
		return "/api/room-amenities"
	}
	return "/api/hotel-amenities"
}

func ownerPath(kind domain.AmenityKind, ownerID int64) string {
	if kind == domain.RoomAmenity {
		return fmt.Sprintf("/api/rooms/%d/amenities", ownerID)
	}
	return fmt.Sprintf("/api/hotels/%d/amenities", ownerID)
}

func (c *Client) ListAmenities(ctx context.Context, kind domain.AmenityKind) ([]domain.Amenity, error) {
	var out []domain.Amenity
	return out, c.do(ctx, http.MethodGet, amenityPath(kind), nil, &out)
}

func (c *Client) GetAmenity(ctx context.Context, kind domain.AmenityKind, id int64) (domain.AmenityDetail, error) {
	var out domain.AmenityDetail
	return out, c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", amenityPath(kind), id), nil, &out)
}

func (c *Client) CreateAmenity(ctx context.Context, kind domain.AmenityKind, req AmenityRequest) (domain.Amenity, error) {
	var out domain.Amenity
	return out, c.do(ctx, http.MethodPost, amenityPath(kind), req, &out)
}

func (c *Client) UpdateAmenity(ctx context.Context, kind domain.AmenityKind, id int64, req AmenityRequest) (domain.Amenity, error) {
	var out domain.Amenity
	return out, c.do(ctx, http.MethodPut, fmt.Sprintf("%s/%d", amenityPath(kind), id), req, &out)
}

func (c *Client) DeleteAmenity(ctx context.Context, kind domain.AmenityKind, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", amenityPath(kind), id), nil, &messageResponse{})
}

func linkBody(kind domain.AmenityKind, ownerID int64, action domain.LinkAction) map[string]any {
	return map[string]any{kind.OwnerField(): ownerID, "action": string(action)}
}

// Link links one amenity to its owner. An existing pair fails with an error matching
// domain.ErrConflict.
func (c *Client) Link(ctx context.Context, kind domain.AmenityKind, ownerID, amenityID int64) (domain.Link, error) {
	var raw map[string]int64
	path := fmt.Sprintf("%s/%d", amenityPath(kind), amenityID)
	if err := c.do(ctx, http.MethodPatch, path, linkBody(kind, ownerID, domain.ActionLink), &raw); err != nil {
		return domain.Link{}, err
	}
	return domain.Link{ID: raw["id"], Kind: kind, OwnerID: raw[kind.OwnerField()], AmenityID: raw["amenityId"]}, nil
}

func (c *Client) Unlink(ctx context.Context, kind domain.AmenityKind, ownerID, amenityID int64) error {
	path := fmt.Sprintf("%s/%d", amenityPath(kind), amenityID)
	return c.do(ctx, http.MethodPatch, path, linkBody(kind, ownerID, domain.ActionUnlink), &messageResponse{})
}

// SetAmenities replaces the owner's links server-side in one transaction.
func (c *Client) SetAmenities(ctx context.Context, kind domain.AmenityKind, ownerID int64, amenityIDs []int64) (domain.LinkDiff, error) {
	if amenityIDs == nil {
		amenityIDs = []int64{}
	}
	var out domain.LinkDiff
	body := map[string][]int64{"amenityIds": amenityIDs}
	return out, c.do(ctx, http.MethodPut, ownerPath(kind, ownerID), body, &out)
}
