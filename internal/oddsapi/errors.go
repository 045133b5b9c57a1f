package oddsapi

import (
	"errors"
	"fmt"
)

// Reason classifies why a feed call failed. The resilience layer branches
// on it; nothing above that layer ever sees one.
type Reason string

const (
	ReasonNetwork          Reason = "network"
	ReasonRateLimited      Reason = "rate_limited"
	ReasonUpstream         Reason = "upstream_error"
	ReasonEmptyCredentials Reason = "empty_credentials"
	ReasonParse            Reason = "parse"
)

// FeedError is the typed failure outcome of a feed call. The client maps
// every transport, status, and decode failure into one of these; no other
// error type escapes its boundary.
type FeedError struct {
	Reason Reason
	Op     string // endpoint path
	Err    error  // underlying cause, may be nil
}

func (e *FeedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("odds feed %s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("odds feed %s: %s", e.Op, e.Reason)
}

func (e *FeedError) Unwrap() error { return e.Err }

// IsReason reports whether err is a FeedError with the given reason.
func IsReason(err error, r Reason) bool {
	var fe *FeedError
	return errors.As(err, &fe) && fe.Reason == r
}
