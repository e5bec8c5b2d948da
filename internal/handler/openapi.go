package handler

import (
	"net/http"

	"github.com/tabscan/tabscan/internal/openapi"
)

// OpenAPIHandler serves the generated API description.
type OpenAPIHandler struct {
	version string
}

// NewOpenAPIHandler builds the handler for the given service version.
func NewOpenAPIHandler(version string) *OpenAPIHandler {
	return &OpenAPIHandler{version: version}
}

// Serve handles GET /openapi.json. The base URL is derived from the
// incoming request so the spec is valid wherever the service is reachable.
func (h *OpenAPIHandler) Serve(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	doc := openapi.Generate(h.version, scheme+"://"+r.Host)
	writeJSON(w, http.StatusOK, doc)
}
