package airquality

import "errors"

var (
	// ErrInvalidQuery is returned when query parameters fail validation.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrEmptyResponse is returned when the API returns no hourly data.
	ErrEmptyResponse = errors.New("empty response")

	// ErrMalformedResponse is returned when the API response cannot be
	// turned into a well-formed hourly series.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrVariableNotFound is returned when a response lacks the requested variable.
	ErrVariableNotFound = errors.New("variable not found in response")
)
