package model

// HealthStatus is the body of the health check endpoint.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// ErrorResponse is the JSON body of every error answered by the HTTP API.
type ErrorResponse struct {
	Error string `json:"error"`
}
