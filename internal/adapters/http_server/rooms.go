package httpserver

import (
	"net/http"
	"strings"

	"hotel_backoffice/internal/domain"
)

// listRooms returns a plain array, or {rooms, countRooms} when ?roomtype= is given.
func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	if rt := strings.TrimSpace(r.URL.Query().Get("roomtype")); rt != "" {
		page, err := h.Q.RoomsByType(r.Context(), rt)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, page)
		return
	}
	out, err := h.Q.ListRooms(r.Context(), domain.RoomFilter{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Q.GetRoom(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) createRoom(w http.ResponseWriter, r *http.Request) {
	b, err := decodeBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.C.CreateRoom(r.Context(), b)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, out)
}

func (h *Handlers) updateRoom(w http.ResponseWriter, r *http.Request) {
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
	out, err := h.C.UpdateRoom(r.Context(), id, b)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) deleteRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.C.DeleteRoom(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, messageBody{Message: "Room deleted successfully"})
}
