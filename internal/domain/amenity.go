package domain

import (
	"encoding/json"
	"fmt"
)

// AmenityKind selects between the two amenity catalogs and their link tables.
type AmenityKind string

const (
	HotelAmenity AmenityKind = "hotel"
	RoomAmenity  AmenityKind = "room"
)

func (k AmenityKind) Valid() bool { return k == HotelAmenity || k == RoomAmenity }

// OwnerField is the JSON/body key naming the owning entity of a link.
func (k AmenityKind) OwnerField() string {
	if k == RoomAmenity {
		return "roomId"
	}
	return "hotelId"
}

type Amenity struct {
	ID          int64   `json:"id"`
	Name        string  `json:"amenityName"`
	Description string  `json:"description"`
	Icon        *string `json:"icon"`
	// IconKey is the catalog name Icon resolves to, "unknown" when it does not resolve.
	IconKey string `json:"iconKey"`
}

// ResolveIcon fills IconKey from Icon.
func (a *Amenity) ResolveIcon() {
	if a.Icon == nil {
		a.IconKey = IconUnknown.String()
		return
	}
	a.IconKey = LookupIcon(*a.Icon).String()
}

// AmenityDetail is an amenity together with everything linked to it.
type AmenityDetail struct {
	Amenity
	Hotels []HotelRef `json:"hotels,omitempty"`
	Rooms  []RoomRef  `json:"rooms,omitempty"`
}

type RoomRef struct {
	ID       int64     `json:"id"`
	RoomType string    `json:"roomType"`
	Price    float64   `json:"price"`
	Hotel    *HotelRef `json:"hotel,omitempty"`
}

// Link is one row of a hotel or room amenity join table.
type Link struct {
	ID        int64
	Kind      AmenityKind
	OwnerID   int64
	AmenityID int64
}

func (l Link) MarshalJSON() ([]byte, error) {
	out := map[string]int64{"id": l.ID, "amenityId": l.AmenityID}
	out[l.Kind.OwnerField()] = l.OwnerID
	return json.Marshal(out)
}

// LinkAction is the verb of a single link mutation.
type LinkAction string

const (
	ActionLink   LinkAction = "link"
	ActionUnlink LinkAction = "unlink"
)

func ParseLinkAction(s string) (LinkAction, error) {
	switch LinkAction(s) {
	case ActionLink, ActionUnlink:
		return LinkAction(s), nil
	}
	return "", fmt.Errorf("%w: action must be %q or %q", ErrValidation, ActionLink, ActionUnlink)
}
