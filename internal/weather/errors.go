package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingParams is returned when a point query lacks lat or lon.
	ErrMissingParams = errors.New("latitude and longitude are required")

	// ErrInvalidParams is returned when a query value is present but not numeric.
	ErrInvalidParams = errors.New("invalid query parameter")
)

// ProviderError reports a failed upstream call: a transport failure, a
// non-2xx status or an undecodable body. It is never retried.
type ProviderError struct {
	Op         string // current, forecast or box
	StatusCode int    // 0 when no response was received
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s data (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("failed to fetch %s data: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
