package client

import "errors"

var (
	// ErrNotFound indicates no entry exists at the requested (owner, path).
	ErrNotFound = errors.New("client: entry not found")

	// ErrRequestFailed indicates the server returned an unexpected status.
	ErrRequestFailed = errors.New("client: request failed")

	// ErrInvalidPrefix indicates a List prefix that is neither empty nor
	// slash-terminated.
	ErrInvalidPrefix = errors.New("client: list prefix must be empty or end with \"/\"")
)
