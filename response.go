package console

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

// Code is an application-level error code carried by some failure responses.
type Code int

const (
	CodeUnknown      Code = 0
	CodeUnauthorized Code = 401
	CodeForbidden    Code = 403
	CodeNotFound     Code = 404
)

// Handler is a generic function that can be registered for a certain event
// (e.g. deauth, API error code).
type Handler func()

// envelope is the response wrapper used by every console endpoint.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// okEnvelope is an envelope without a payload.
type okEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// APIError is an application-level failure reported by the API, as opposed to
// a transport failure where no response envelope is available.
type APIError struct {
	// Code is set when the failure maps onto an HTTP error status.
	Code Code

	Message string `json:"message"`
}

func (err *APIError) Error() string {
	return err.Message
}

// apiErr converts a success=false envelope into an *APIError.
func apiErr(message string) *APIError {
	return &APIError{Message: message}
}

func catchAPIError(_ *resty.Client, res *resty.Response) error {
	if !res.IsError() {
		return nil
	}

	var err error

	if apiErr, ok := res.Error().(*APIError); ok && apiErr.Message != "" {
		apiErr.Code = Code(res.StatusCode())
		err = apiErr
	} else {
		err = fmt.Errorf("%v", res.Status())
	}

	return fmt.Errorf("%v: %w", res.StatusCode(), err)
}

func catchDialError(res *resty.Response, err error) bool {
	return res.RawResponse == nil
}
