package mdns

import "errors"

// ErrNotStarted is returned by the public send/query methods when
// called before Start, or after Stop.
var ErrNotStarted = errors.New("mdns: engine has not been started")

// ErrCancelled is the error with which Resolve's future completes when
// its cancel token fires before a matching answer arrives.
var ErrCancelled = errors.New("mdns: resolve was cancelled")
