package observability

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const namespace = "hotel"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Served API requests by route pattern."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "Served API request latency.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 15},
		},
		[]string{"route", "method"},
	)
	ClientRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "client_requests_total", Help: "Back-office API calls made by the Go client; status 0 is a transport error."},
		[]string{"service", "endpoint", "status"},
	)
	ClientLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "client_request_duration_seconds",
			Help:    "Back-office API call latency seen by the Go client.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_events_total", Help: "Read-through cache events."},
		[]string{"cache", "event"}, // hit|miss|set|del|incr|error
	)
	LinkOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "amenity_link_ops_total", Help: "Amenity link mutations."},
		[]string{"kind", "action", "result"}, // action: link|unlink|sync
	)
)

// Serve exposes /metrics on its own listener. An empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	return srv
}

// InitRegistry registers the service collectors plus any extra ones (e.g. DB pool stats).
func InitRegistry(extra ...prometheus.Collector) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ClientRequests, ClientLatency, CacheEvents, LinkOps)
	reg.MustRegister(extra...)
	return reg
}

// RuntimeCollectors are the Go runtime and process collectors the default registry carries.
func RuntimeCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
}

// DBStatsCollector exports connection pool stats of db under dbName.
func DBStatsCollector(db *sql.DB, dbName string) prometheus.Collector {
	return collectors.NewDBStatsCollector(db, dbName)
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveClient(service, endpoint string, status int, dur time.Duration) {
	ClientRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ClientLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) {
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveLink(kind, action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	LinkOps.WithLabelValues(kind, action, result).Inc()
}
