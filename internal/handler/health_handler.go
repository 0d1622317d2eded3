package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const healthCheckTimeout = 3 * time.Second

// HealthCheck probes one dependency. A failing critical check makes the
// whole service unhealthy; any other failure only degrades it.
type HealthCheck struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

type DependencyStatus struct {
	Service string `json:"service"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency,omitempty"`
}

type HealthResponse struct {
	Status    string             `json:"status"`
	Timestamp string             `json:"timestamp"`
	Uptime    string             `json:"uptime"`
	Services  []DependencyStatus `json:"services"`
}

type HealthHandler struct {
	checks    []HealthCheck
	startTime time.Time
}

func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, startTime: time.Now()}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	overall := "healthy"
	services := make([]DependencyStatus, 0, len(h.checks))
	for _, c := range h.checks {
		start := time.Now()
		err := c.Check(ctx)
		status := DependencyStatus{
			Service: c.Name,
			Status:  "healthy",
			Latency: time.Since(start).String(),
		}
		if err != nil {
			status.Status = "unhealthy"
			status.Error = err.Error()
			if c.Critical {
				overall = "unhealthy"
			} else if overall == "healthy" {
				overall = "degraded"
			}
		}
		services = append(services, status)
	}

	code := http.StatusOK
	if overall == "unhealthy" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    fmt.Sprintf("%.0fs", time.Since(h.startTime).Seconds()),
		Services:  services,
	})
}
