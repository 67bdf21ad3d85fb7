package httpserver

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"hotel_backoffice/internal/app"
)

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	rep := h.Health.Health(r.Context())
	status := http.StatusOK
	if !rep.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, r, status, rep)
}

type testDBResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Data    *app.DBCheck `json:"data,omitempty"`
}

func (h *Handlers) testDB(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Health.CheckDB(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("test-db check failed")
		writeJSON(w, r, http.StatusInternalServerError, testDBResponse{Status: "error", Message: "Database connection failed"})
		return
	}
	writeJSON(w, r, http.StatusOK, testDBResponse{Status: "success", Message: "Database connection successful", Data: &stats})
}
