package domain

import "time"

// Review is read-only in the back-office; it is only surfaced nested under a hotel.
type Review struct {
	ID         int64     `json:"id"`
	HotelID    int64     `json:"hotelId"`
	Rating     float64   `json:"rating"`
	Comments   string    `json:"comments"`
	ReviewDate time.Time `json:"reviewDate"`
}
