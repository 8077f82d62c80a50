package http

import (
	"net/http"

	"github.com/m-mizutani/classzip/pkg/domain/model"
	"github.com/m-mizutani/classzip/pkg/domain/types"
)

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, &model.HealthStatus{
		Status:  "healthy",
		Service: types.ServiceName,
		Version: types.Version,
	})
}
