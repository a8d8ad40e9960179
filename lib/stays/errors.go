package stays

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned on an upstream 429. It is terminal for the
// current attempt: backends never retry it, the composite client may fall
// back to the other backend instead.
var ErrRateLimited = errors.New("rate limit exceeded, try again later")

// NotFoundError is returned on a 404 for an id-addressed resource.
type NotFoundError struct {
	ListingID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("listing not found: %s", e.ListingID)
}

// ParseError covers non-2xx statuses and bodies that fail to decode into
// the expected shape. Reason names the operation so a single diagnostic
// line is enough to locate the failure.
type ParseError struct {
	Reason string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("failed to parse response: %s", e.Reason)
}

// TransportError wraps a failure that happened before any HTTP status was
// received: DNS, dial, TLS, or a timeout. Op names the request that failed.
type TransportError struct {
	Op  string
	Err error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e TransportError) Unwrap() error {
	return e.Err
}

// InvalidParamsError is raised by local validation before any network call.
type InvalidParamsError struct {
	Reason string
}

func (e InvalidParamsError) Error() string {
	return fmt.Sprintf("invalid search parameters: %s", e.Reason)
}
