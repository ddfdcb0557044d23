package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics. It also receives analysis pipeline
// events, so one instance is shared by the router and the pipeline service.
type Metrics struct {
	requestsTotal      atomic.Uint64
	requestsInProgress atomic.Int64
	requestsSuccess    atomic.Uint64
	requestsFailed     atomic.Uint64

	uploadsRejected   atomic.Uint64
	analysesStarted   atomic.Uint64
	analysesSucceeded atomic.Uint64
	analysesFailed    atomic.Uint64
	analysisMillis    atomic.Uint64

	startTime time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

func (m *Metrics) UploadRejected(error) { m.uploadsRejected.Add(1) }

func (m *Metrics) AnalysisStarted() { m.analysesStarted.Add(1) }

func (m *Metrics) AnalysisSucceeded(d time.Duration) {
	m.analysesSucceeded.Add(1)
	m.analysisMillis.Add(uint64(d.Milliseconds()))
}

func (m *Metrics) AnalysisFailed(error) { m.analysesFailed.Add(1) }

// Snapshot returns current metrics
func (m *Metrics) Snapshot() map[string]interface{} {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	succeeded := m.analysesSucceeded.Load()
	var avgMS float64
	if succeeded > 0 {
		avgMS = float64(m.analysisMillis.Load()) / float64(succeeded)
	}

	return map[string]interface{}{
		"requests_total":       m.requestsTotal.Load(),
		"requests_in_progress": m.requestsInProgress.Load(),
		"requests_success":     m.requestsSuccess.Load(),
		"requests_failed":      m.requestsFailed.Load(),
		"uploads_rejected":     m.uploadsRejected.Load(),
		"analyses_started":     m.analysesStarted.Load(),
		"analyses_succeeded":   succeeded,
		"analyses_failed":      m.analysesFailed.Load(),
		"analysis_avg_ms":      avgMS,
		"uptime_seconds":       time.Since(m.startTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes":       mem.Alloc,
			"total_alloc_bytes": mem.TotalAlloc,
			"sys_bytes":         mem.Sys,
			"num_gc":            mem.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// Middleware tracks request metrics
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requestsTotal.Add(1)
		m.requestsInProgress.Add(1)
		defer m.requestsInProgress.Add(-1)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			m.requestsSuccess.Add(1)
		} else {
			m.requestsFailed.Add(1)
		}
	})
}

// Handler returns metrics as JSON
func (m *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m.Snapshot())
}
