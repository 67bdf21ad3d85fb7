package mysql

import "hotel_backoffice/internal/domain"

func hotelFromDomain(h domain.Hotel) hotelRecord {
	return hotelRecord{
		ID:       h.ID,
		Name:     h.Name,
		Address:  h.Address,
		City:     h.City,
		ImageURL: h.ImageURL,
		Rating:   h.Rating,
	}
}

func (h hotelRecord) toDomain() domain.Hotel {
	out := domain.Hotel{
		ID:        h.ID,
		Name:      h.Name,
		Address:   h.Address,
		City:      h.City,
		Rating:    h.Rating,
		ImageURL:  h.ImageURL,
		Rooms:     make([]domain.Room, 0, len(h.Rooms)),
		Amenities: make([]domain.Amenity, 0, len(h.Amenities)),
		Reviews:   make([]domain.Review, 0, len(h.Reviews)),
	}
	for _, r := range h.Rooms {
		out.Rooms = append(out.Rooms, r.toDomain(false))
	}
	for _, l := range h.Amenities {
		if l.Amenity != nil {
			out.Amenities = append(out.Amenities, l.Amenity.toDomain())
		}
	}
	for _, rv := range h.Reviews {
		out.Reviews = append(out.Reviews, domain.Review{
			ID:         rv.ID,
			HotelID:    rv.HotelID,
			Rating:     rv.Rating,
			Comments:   rv.Comments,
			ReviewDate: rv.ReviewDate,
		})
	}
	return out
}

func roomFromDomain(r domain.Room) roomRecord {
	return roomRecord{
		ID:           r.ID,
		HotelID:      r.HotelID,
		RoomType:     r.RoomType,
		RoomTypeID:   r.RoomTypeID,
		Price:        r.Price,
		Availability: r.Availability,
		ImageURL:     r.ImageURL,
	}
}

func (r roomRecord) toDomain(withHotel bool) domain.Room {
	out := domain.Room{
		ID:           r.ID,
		HotelID:      r.HotelID,
		RoomType:     r.RoomType,
		RoomTypeID:   r.RoomTypeID,
		Price:        r.Price,
		Availability: r.Availability,
		ImageURL:     r.ImageURL,
		Amenities:    make([]domain.Amenity, 0, len(r.Amenities)),
	}
	if r.Type != nil {
		rt := r.Type.toDomain()
		out.Type = &rt
	}
	if withHotel && r.Hotel != nil {
		out.Hotel = &domain.HotelRef{ID: r.Hotel.ID, Name: r.Hotel.Name, City: r.Hotel.City}
	}
	for _, l := range r.Amenities {
		if l.Amenity != nil {
			out.Amenities = append(out.Amenities, l.Amenity.toDomain())
		}
	}
	return out
}

func (rt roomTypeRecord) toDomain() domain.RoomType {
	return domain.RoomType{ID: rt.ID, TypeName: rt.TypeName, Description: rt.Description}
}

func (a hotelAmenityRecord) toDomain() domain.Amenity {
	return amenityRow{ID: a.ID, AmenityName: a.AmenityName, Description: a.Description, Icon: a.Icon}.toDomain()
}

func (a roomAmenityRecord) toDomain() domain.Amenity {
	return amenityRow{ID: a.ID, AmenityName: a.AmenityName, Description: a.Description, Icon: a.Icon}.toDomain()
}
