package sdk

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is an error response from the proxi API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("proxi api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound reports whether the error is a 404 API error.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
