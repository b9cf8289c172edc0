package backend

import "errors"

var (
	// ErrStatus indicates a non-2xx response from the ingest API
	ErrStatus = errors.New("unexpected response status")

	// ErrDecode indicates the response body was not the expected JSON shape
	ErrDecode = errors.New("malformed response body")
)
