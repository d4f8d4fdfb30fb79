package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/faculty-locator-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the locator.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	cacheLatency      prometheus.Observer
	cacheWrite        prometheus.Observer
	cacheLookups      *prometheus.CounterVec
	facultyGenerated  prometheus.Counter
	facultyCustom     prometheus.Counter
	roomRedraws       prometheus.Counter
	roomCollisions    prometheus.Counter
	locationLookups   *prometheus.CounterVec
	exportsRendered   *prometheus.CounterVec
	exportJobs        *prometheus.CounterVec
	directoryStrength prometheus.Gauge
}

// NewMetricsService registers core Prometheus collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by result",
	}, []string{"result"})

	facultyGenerated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "faculty_generated_total",
		Help: "Faculty records created with a generated timetable",
	})

	facultyCustom := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "faculty_custom_total",
		Help: "Faculty records created with a caller supplied timetable",
	})

	roomRedraws := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "room_redraws_total",
		Help: "Room draws rejected because the room was already taken at that start time",
	})

	roomCollisions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "room_collisions_accepted_total",
		Help: "Room assignments accepted as duplicates after the room pool was exhausted",
	})

	locationLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "location_lookups_total",
		Help: "Location resolutions by resulting session kind",
	}, []string{"kind"})

	exportsRendered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_exports_total",
		Help: "Timetable exports rendered by format",
	}, []string{"format"})

	exportJobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "export_jobs_total",
		Help: "Background export jobs by terminal or intermediate status",
	}, []string{"status"})

	directoryStrength := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "directory_faculty_count",
		Help: "Faculty records held in the directory",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		requestDuration, requestTotal,
		cacheLatency, cacheWrite, cacheLookups,
		facultyGenerated, facultyCustom, roomRedraws, roomCollisions,
		locationLookups, exportsRendered, exportJobs, directoryStrength, goroutines,
	)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		cacheLatency:      cacheLatency,
		cacheWrite:        cacheWrite,
		cacheLookups:      cacheLookups,
		facultyGenerated:  facultyGenerated,
		facultyCustom:     facultyCustom,
		roomRedraws:       roomRedraws,
		roomCollisions:    roomCollisions,
		locationLookups:   locationLookups,
		exportsRendered:   exportsRendered,
		exportJobs:        exportJobs,
		directoryStrength: directoryStrength,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordFacultyAdded counts a new directory record and updates the directory gauge.
func (m *MetricsService) RecordFacultyAdded(generated bool, total int) {
	if m == nil {
		return
	}
	if generated {
		m.facultyGenerated.Inc()
	} else {
		m.facultyCustom.Inc()
	}
	m.directoryStrength.Set(float64(total))
}

// RecordRoomRedraw counts a rejected room draw.
func (m *MetricsService) RecordRoomRedraw() {
	if m == nil {
		return
	}
	m.roomRedraws.Inc()
}

// RecordRoomCollision counts a duplicate room assignment accepted after exhaustion.
func (m *MetricsService) RecordRoomCollision() {
	if m == nil {
		return
	}
	m.roomCollisions.Inc()
}

// RecordLocationLookup counts a resolved location by kind.
func (m *MetricsService) RecordLocationLookup(kind models.SessionKind) {
	if m == nil {
		return
	}
	m.locationLookups.WithLabelValues(string(kind)).Inc()
}

// RecordExport counts a rendered export by format.
func (m *MetricsService) RecordExport(format string) {
	if m == nil {
		return
	}
	m.exportsRendered.WithLabelValues(format).Inc()
}

// RecordExportJob counts an export job transition.
func (m *MetricsService) RecordExportJob(status models.ExportJobStatus) {
	if m == nil {
		return
	}
	m.exportJobs.WithLabelValues(string(status)).Inc()
}
