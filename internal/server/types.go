// Package server provides the HTTP API for metadata and download resolution.
package server

import "social-dl/internal/media"

// MediaRequest is the request body for the metadata and download endpoints.
type MediaRequest struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
	Format  string `json:"format"`
}

// ErrorResponse is returned by every failing endpoint.
type ErrorResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

// RootResponse is the service banner.
type RootResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// HealthResponse is the response for the health endpoint.
type HealthResponse struct {
	Success   bool     `json:"success"`
	Status    string   `json:"status"`
	Timestamp string   `json:"timestamp"`
	Providers []string `json:"providers"`
	Message   string   `json:"message"`
}

// PlatformStatus describes one platform in the status endpoint.
type PlatformStatus struct {
	Supported bool     `json:"supported"`
	Status    string   `json:"status"`
	Formats   []string `json:"formats"`
}

// MetadataResponse is the response for the metadata endpoint.
type MetadataResponse struct {
	Success  bool                  `json:"success"`
	Metadata media.NormalizedMedia `json:"metadata"`
}

// DownloadResponse is the response for the download endpoint.
type DownloadResponse struct {
	Success bool `json:"success"`
	*media.ResolvedDownload
}

// NotFoundResponse is returned for unknown routes.
type NotFoundResponse struct {
	Success            bool     `json:"success"`
	Error              string   `json:"error"`
	AvailableEndpoints []string `json:"availableEndpoints"`
}
