package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"
)

const checkTimeout = 5 * time.Second

// HealthChecker is one dependency the service needs to answer requests.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// CheckFunc adapts a function to HealthChecker.
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Check(ctx context.Context) error { return f(ctx) }

// DatabaseHealthChecker pings the catalog database.
type DatabaseHealthChecker struct {
	DB *sql.DB
}

func (d *DatabaseHealthChecker) Check(ctx context.Context) error {
	if d.DB == nil {
		return errors.New("no database handle")
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.DB.PingContext(ctx)
}

type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
}

type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Ready is the readiness body: the names of failing checks, sorted.
type Ready struct {
	Status  string   `json:"status"`
	Failing []string `json:"failing,omitempty"`
}

func runChecks(ctx context.Context, checkers map[string]HealthChecker) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	hs := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Checks:    make(map[string]CheckStatus, len(checkers)),
	}
	for name, c := range checkers {
		if err := c.Check(ctx); err != nil {
			hs.Status = "unhealthy"
			hs.Checks[name] = CheckStatus{Status: "unhealthy", Message: err.Error()}
			continue
		}
		hs.Checks[name] = CheckStatus{Status: "healthy"}
	}
	return hs
}

// HealthHandler reports every check; 503 if any fails.
func HealthHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hs := runChecks(r.Context(), checkers)
		code := http.StatusOK
		if hs.Status != "healthy" {
			code = http.StatusServiceUnavailable
		}
		writeHealth(w, code, hs)
	}
}

// ReadinessHandler answers 503 while any check fails and lists the failing names.
func ReadinessHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hs := runChecks(r.Context(), checkers)
		body := Ready{Status: "ready"}
		for name, c := range hs.Checks {
			if c.Status != "healthy" {
				body.Failing = append(body.Failing, name)
			}
		}
		code := http.StatusOK
		if len(body.Failing) > 0 {
			sort.Strings(body.Failing)
			body.Status = "not_ready"
			code = http.StatusServiceUnavailable
		}
		writeHealth(w, code, body)
	}
}

// LivenessHandler only proves the process serves HTTP.
func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeHealth(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
