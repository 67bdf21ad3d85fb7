package domain

// MinRating and MaxRating bound Hotel.Rating.
const (
	MinRating = 1.0
	MaxRating = 5.0
)

// MaxRoomsPerType is the advisory cap checked by clients before creating a room.
const MaxRoomsPerType = 10

type Hotel struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Rating    float64   `json:"rating"`
	ImageURL  *string   `json:"imageUrl"`
	Rooms     []Room    `json:"rooms"`
	Amenities []Amenity `json:"amenities"`
	Reviews   []Review  `json:"reviews"`
}

type Room struct {
	ID           int64     `json:"id"`
	HotelID      *int64    `json:"hotelId"`
	RoomType     string    `json:"roomType"`
	RoomTypeID   *int64    `json:"roomTypeId"`
	Price        float64   `json:"price"`
	Availability bool      `json:"availability"`
	ImageURL     *string   `json:"imageUrl"`
	Type         *RoomType `json:"type,omitempty"`
	Hotel        *HotelRef `json:"hotel,omitempty"`
	Amenities    []Amenity `json:"amenities"`
}

type RoomType struct {
	ID          int64  `json:"id"`
	TypeName    string `json:"typeName"`
	Description string `json:"description"`
}

// HotelRef is the short form of a hotel embedded in other views.
type HotelRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

// RoomFilter narrows room listings. An empty RoomType matches every room.
type RoomFilter struct {
	RoomType string
	HotelID  *int64
}

// Stats is the row count snapshot reported by health checks.
type Stats struct {
	Hotels int64 `json:"hotels"`
	Rooms  int64 `json:"rooms"`
}

// DefaultRoomTypes is the catalog a fresh store starts with.
func DefaultRoomTypes() []RoomType {
	return []RoomType{
		{TypeName: "Standard", Description: "Standard room"},
		{TypeName: "Superior", Description: "Superior room"},
		{TypeName: "Deluxe", Description: "Deluxe room"},
		{TypeName: "Suite", Description: "Suite"},
	}
}
