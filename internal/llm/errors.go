package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// StatusError is an upstream failure that carries an HTTP status code
type StatusError struct {
	Code    int
	Message string
	Err     error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Code, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// transientMarkers are message fragments providers use for overload and quota errors
var transientMarkers = []string{"overloaded", "quota"}

// IsTransient reports whether err is a rate-limit or overload signal from the model
// provider: status 429 or 503, or a message mentioning overload or quota.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		if se.Code == http.StatusTooManyRequests || se.Code == http.StatusServiceUnavailable {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
