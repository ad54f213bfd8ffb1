package lookup

import (
	"errors"
	"fmt"
)

var (
	// ErrLookupFailed indicates search service returned non successful status.
	ErrLookupFailed = errors.New("HAL search failed")
	// ErrInvalidResponse indicates response body could not be decoded.
	ErrInvalidResponse = errors.New("invalid response from HAL search")
	// ErrUnknownResource indicates resource is not present in descriptor table.
	ErrUnknownResource = errors.New("unknown HAL resource")
)

// StatusError carries HTTP status of failed search.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d for %s", ErrLookupFailed, e.StatusCode, e.URL)
}

func (e *StatusError) Unwrap() error {
	return ErrLookupFailed
}
