package catalog

import (
	"errors"
	"fmt"
)

// ErrUnknownFilter rejects filter values outside the known set.
var ErrUnknownFilter = errors.New("unknown catalog filter")

// FetchError reports a failed upstream request. Source identifies which
// catalog backend rejected; StatusCode is zero for transport-level failures.
type FetchError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed: status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
