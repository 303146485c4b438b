package handlers

import (
	"net/http"
	"time"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	version   string
	startedAt time.Time
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version, startedAt: time.Now()}
}

type healthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime"`
}

// Live handles GET /healthz. It answers as long as the process can serve
// requests at all.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthStatus{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Ready handles GET /readyz. The service is stateless apart from the output
// directory, which is validated at startup, so readiness tracks liveness.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthStatus{
		Status: "ready",
		Uptime: time.Since(h.startedAt).Round(time.Second).String(),
	})
}
