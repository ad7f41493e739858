package prediction

import (
	"fmt"
	"strings"

	"heartdash/domain/core"
)

// Label is the raw prediction label returned by the service. It is empty when
// the response carried no prediction field.
type Label string

// IsEmpty reports whether the service returned no label
func (l Label) IsEmpty() bool {
	return l == ""
}

func (l Label) String() string {
	return string(l)
}

// RequestError describes a failed call to the prediction service.
// StatusCode is zero when the service could not be reached at all.
type RequestError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("prediction service unreachable: %v", e.Err)
	}
	return fmt.Sprintf("prediction service returned %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Unwrap exposes the transport error, or core.ErrPredictionRejected for HTTP
// level failures.
func (e *RequestError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return core.ErrPredictionRejected
}

// IsTransport reports whether the request never got an HTTP response
func (e *RequestError) IsTransport() bool {
	return e.StatusCode == 0
}
