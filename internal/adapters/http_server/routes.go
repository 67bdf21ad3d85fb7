package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotel_backoffice/internal/app"
	"hotel_backoffice/internal/domain"
)

type Handlers struct {
	Q      *app.QueryService
	C      *app.CommandService
	Health *app.HealthService
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/test-db", h.testDB)
		r.Get("/amenity-icons", h.listIcons)

		r.Route("/hotels", func(r chi.Router) {
			r.Get("/", h.listHotels)
			r.Post("/", h.createHotel)
			r.Get("/{id}", h.getHotel)
			r.Put("/{id}", h.updateHotel)
			r.Delete("/{id}", h.deleteHotel)
			r.Put("/{id}/amenities", h.setAmenities(domain.HotelAmenity))
		})

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", h.listRooms)
			r.Post("/", h.createRoom)
			r.Get("/{id}", h.getRoom)
			r.Put("/{id}", h.updateRoom)
			r.Delete("/{id}", h.deleteRoom)
			r.Put("/{id}/amenities", h.setAmenities(domain.RoomAmenity))
		})

		r.Route("/room-types", func(r chi.Router) {
			r.Get("/", h.listRoomTypes)
			r.Post("/", h.createRoomType)
			r.Get("/{id}", h.getRoomType)
			r.Put("/{id}", h.updateRoomType)
			r.Delete("/{id}", h.deleteRoomType)
		})

		r.Route("/hotel-amenities", h.amenityRoutes(domain.HotelAmenity))
		r.Route("/room-amenities", h.amenityRoutes(domain.RoomAmenity))
	})
}
