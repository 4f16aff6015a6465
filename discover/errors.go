package discover

import "errors"

var (
	// ErrLookupFailed indicates the DNS query could not be completed.
	ErrLookupFailed = errors.New("discover: DNS lookup failed")

	// ErrDNSSECFailed indicates the response was not DNSSEC-authenticated.
	ErrDNSSECFailed = errors.New("discover: DNSSEC validation failed")

	// ErrNoEndpoint indicates no endpoint record was found for the host.
	ErrNoEndpoint = errors.New("discover: no endpoint record")
)
