package mysql

import "time"

type hotelRecord struct {
	ID        int64                    `gorm:"primaryKey;autoIncrement"`
	Name      string                   `gorm:"type:varchar(255);not null"`
	Address   string                   `gorm:"type:varchar(255);not null"`
	City      string                   `gorm:"type:varchar(120);not null;index"`
	ImageURL  *string                  `gorm:"column:image_url;type:varchar(1024)"`
	Rating    float64                  `gorm:"type:double;not null"`
	Rooms     []roomRecord             `gorm:"foreignKey:HotelID"`
	Amenities []hotelAmenityLinkRecord `gorm:"foreignKey:HotelID"`
	Reviews   []reviewRecord           `gorm:"foreignKey:HotelID"`
}

func (hotelRecord) TableName() string { return "hotels" }

type roomTypeRecord struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	TypeName    string `gorm:"column:type_name;type:varchar(100);not null"`
	Description string `gorm:"type:text"`
}

func (roomTypeRecord) TableName() string { return "room_types" }

type roomRecord struct {
	ID           int64                   `gorm:"primaryKey;autoIncrement"`
	HotelID      *int64                  `gorm:"column:hotel_id;index"`
	RoomType     string                  `gorm:"column:room_type;type:varchar(100);not null;index"`
	RoomTypeID   *int64                  `gorm:"column:room_type_id;index"`
	Price        float64                 `gorm:"type:decimal(10,2);not null"`
	Availability bool                    `gorm:"not null"`
	ImageURL     *string                 `gorm:"column:image_url;type:varchar(1024)"`
	Hotel        *hotelRecord            `gorm:"foreignKey:HotelID"`
	Type         *roomTypeRecord         `gorm:"foreignKey:RoomTypeID"`
	Amenities    []roomAmenityLinkRecord `gorm:"foreignKey:RoomID"`
}

func (roomRecord) TableName() string { return "rooms" }

type reviewRecord struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	HotelID    int64     `gorm:"column:hotel_id;not null;index"`
	Rating     float64   `gorm:"type:double;not null"`
	Comments   string    `gorm:"type:text"`
	ReviewDate time.Time `gorm:"column:review_date;not null"`
}

func (reviewRecord) TableName() string { return "reviews" }

type hotelAmenityRecord struct {
	ID          int64                    `gorm:"primaryKey;autoIncrement"`
	AmenityName string                   `gorm:"column:amenity_name;type:varchar(255);not null"`
	Description string                   `gorm:"type:text"`
	Icon        *string                  `gorm:"type:varchar(64)"`
	Links       []hotelAmenityLinkRecord `gorm:"foreignKey:AmenityID"`
}

func (hotelAmenityRecord) TableName() string { return "hotel_amenities" }

type roomAmenityRecord struct {
	ID          int64                   `gorm:"primaryKey;autoIncrement"`
	AmenityName string                  `gorm:"column:amenity_name;type:varchar(255);not null"`
	Description string                  `gorm:"type:text"`
	Icon        *string                 `gorm:"type:varchar(64)"`
	Links       []roomAmenityLinkRecord `gorm:"foreignKey:AmenityID"`
}

func (roomAmenityRecord) TableName() string { return "room_amenities" }

// Link tables carry no unique index on (owner, amenity); uniqueness is an existence
// check in Link and SyncLinks.
type hotelAmenityLinkRecord struct {
	ID        int64               `gorm:"primaryKey;autoIncrement"`
	HotelID   int64               `gorm:"column:hotel_id;not null;index"`
	AmenityID int64               `gorm:"column:amenity_id;not null;index"`
	Hotel     *hotelRecord        `gorm:"foreignKey:HotelID"`
	Amenity   *hotelAmenityRecord `gorm:"foreignKey:AmenityID"`
}

func (hotelAmenityLinkRecord) TableName() string { return "hotel_amenities_links" }

type roomAmenityLinkRecord struct {
	ID        int64              `gorm:"primaryKey;autoIncrement"`
	RoomID    int64              `gorm:"column:room_id;not null;index"`
	AmenityID int64              `gorm:"column:amenity_id;not null;index"`
	Room      *roomRecord        `gorm:"foreignKey:RoomID"`
	Amenity   *roomAmenityRecord `gorm:"foreignKey:AmenityID"`
}

func (roomAmenityLinkRecord) TableName() string { return "room_amenities_links" }

// migrationOrder lists parents before children.
var migrationOrder = []any{
	&roomTypeRecord{},
	&hotelRecord{},
	&hotelAmenityRecord{},
	&roomAmenityRecord{},
	&roomRecord{},
	&reviewRecord{},
	&hotelAmenityLinkRecord{},
	&roomAmenityLinkRecord{},
}
