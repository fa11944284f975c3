package warehouse

import (
	"errors"
	"fmt"
)

// Error is a failed warehouse API call. Transient errors (429/503) are
// retried by the client up to its attempt cap; everything else fails the
// operation immediately.
type Error struct {
	StatusCode int
	Message    string
	Transient  bool
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("warehouse api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("warehouse api error: %s", e.Message)
}

// IsTransient reports whether err is a retryable warehouse error.
func IsTransient(err error) bool {
	var we *Error
	return errors.As(err, &we) && we.Transient
}
