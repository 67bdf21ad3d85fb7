package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotel_backoffice/internal/adapters/observability"
	"hotel_backoffice/internal/domain"
)

// amenityRoutes serves one amenity catalog; hotel and room amenities share every handler.
func (h *Handlers) amenityRoutes(kind domain.AmenityKind) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			out, err := h.Q.ListAmenities(r.Context(), kind)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, r, http.StatusOK, out)
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			b, err := decodeBody(r)
			if err != nil {
				writeError(w, r, err)
				return
			}
			out, err := h.C.CreateAmenity(r.Context(), kind, b)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, r, http.StatusCreated, out)
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathID(r, "id")
			if err != nil {
				writeError(w, r, err)
				return
			}
			out, err := h.Q.GetAmenity(r.Context(), kind, id)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, r, http.StatusOK, out)
		})

		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathID(r, "id")
			if err != nil {
				writeError(w, r, err)
				return
			}
			b, err := decodeBody(r)
			if err != nil {
				writeError(w, r, err)
				return
			}
			out, err := h.C.UpdateAmenity(r.Context(), kind, id, b)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, r, http.StatusOK, out)
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := pathID(r, "id")
			if err != nil {
				writeError(w, r, err)
				return
			}
			if err := h.C.DeleteAmenity(r.Context(), kind, id); err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, r, http.StatusOK, messageBody{Message: "Amenity and links deleted"})
		})

		r.Patch("/{id}", h.patchLink(kind))
	}
}

// patchLink handles {hotelId|roomId, action} against amenity {id}.
func (h *Handlers) patchLink(kind domain.AmenityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		b, err := decodeBody(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		res, err := h.C.ApplyLink(r.Context(), kind, id, b)
		action := string(res.Action)
		if action == "" {
			action = "invalid"
		}
		observability.ObserveLink(string(kind), action, err)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if res.Link != nil {
			writeJSON(w, r, http.StatusOK, res.Link)
			return
		}
		writeJSON(w, r, http.StatusOK, messageBody{Message: "Link removed"})
	}
}

// setAmenities replaces an owner's links in one transaction and reports the diff.
func (h *Handlers) setAmenities(kind domain.AmenityKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		b, err := decodeBody(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		diff, err := h.C.SetAmenities(r.Context(), kind, id, b)
		observability.ObserveLink(string(kind), "sync", err)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, diff)
	}
}

func (h *Handlers) listIcons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.Q.IconCatalog())
}
