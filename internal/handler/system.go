package handler

import (
	"net/http"

	"github.com/tabscan/tabscan/internal/model"
)

// SystemHandler serves service-level endpoints: health probes and version
// information.
type SystemHandler struct {
	version string
}

// NewSystemHandler builds a SystemHandler reporting the given version.
func NewSystemHandler(version string) *SystemHandler {
	return &SystemHandler{version: version}
}

// Health handles GET /healthz. Returns 200 whenever the process is up; the
// engine holds no dependencies that could degrade.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Service: "tabscan",
	})
}
