package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_backoffice/internal/domain"
)

type HealthService struct {
	store domain.Store
	env   string
	now   func() time.Time
}

func NewHealthService(s domain.Store, env string) *HealthService {
	return &HealthService{store: s, env: env, now: time.Now}
}

type HealthReport struct {
	Status      string       `json:"status"`
	Timestamp   time.Time    `json:"timestamp"`
	Database    string       `json:"database"`
	Environment string       `json:"environment"`
	Stats       domain.Stats `json:"stats"`
}

func (r HealthReport) Healthy() bool { return r.Status == "ok" }

// Health never returns an error; a failing database shows up in the report.
func (s *HealthService) Health(ctx context.Context) HealthReport {
	rep := HealthReport{Status: "ok", Timestamp: s.now().UTC(), Database: "connected", Environment: s.env}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("health: database check failed")
		rep.Status, rep.Database = "error", "disconnected"
		return rep
	}
	rep.Stats = stats
	return rep
}

type DBCheck struct {
	LatencyMs int64 `json:"latencyMs"`
	Hotels    int64 `json:"hotels"`
	Rooms     int64 `json:"rooms"`
}

// CheckDB measures a round trip and reads the row counts.
func (s *HealthService) CheckDB(ctx context.Context) (DBCheck, error) {
	lat, err := s.store.Ping(ctx)
	if err != nil {
		return DBCheck{}, err
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return DBCheck{}, err
	}
	return DBCheck{LatencyMs: lat.Milliseconds(), Hotels: stats.Hotels, Rooms: stats.Rooms}, nil
}
