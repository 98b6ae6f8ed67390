package uniprot

import (
	"errors"
	"fmt"
)

// Common errors returned by the UniProtKB client.
var (
	// ErrNotFound indicates the accession or entry name is unknown.
	ErrNotFound = errors.New("not found in UniProtKB")

	// ErrRateLimited indicates the service pushed back on request volume.
	ErrRateLimited = errors.New("UniProtKB rate limit exceeded")

	// ErrNetworkError indicates a connectivity problem.
	ErrNetworkError = errors.New("network error communicating with UniProtKB")

	// ErrInvalidResponse indicates a response that could not be parsed.
	ErrInvalidResponse = errors.New("invalid response from UniProtKB")
)

// APIError represents a non-2xx answer from the UniProtKB REST API.
type APIError struct {
	StatusCode int
	Message    string
	Accession  string // set when the failing request was for a specific entry
}

func (e *APIError) Error() string {
	if e.Accession != "" {
		return fmt.Sprintf("UniProtKB API error (status %d): %s (accession: %s)", e.StatusCode, e.Message, e.Accession)
	}
	return fmt.Sprintf("UniProtKB API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error indicates a missing entry.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsRateLimited returns true if the error indicates throttling by the
// service.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
