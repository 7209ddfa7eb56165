package cmr

import "errors"

var (
	// ErrRequestFailed is returned when the search request cannot be sent or answered.
	ErrRequestFailed = errors.New("CMR request failed")

	// ErrUnexpectedStatus is returned when CMR answers with a non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected CMR response status")

	// ErrDecodeResponse is returned when the response body is not valid JSON.
	ErrDecodeResponse = errors.New("failed to decode CMR response")
)
