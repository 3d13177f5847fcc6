//go:build !linux

package iface

import "github.com/dogmatiq/dodeca/logging"

// subscribePlatform is a no-op on platforms without a netlink-style
// change notification source. Callers are expected to fall back to
// periodic Refresh calls, per RFC 6762's tolerance for poll-based
// change detection where push is unavailable.
func subscribePlatform(logger logging.Logger, onChange func()) (stop func(), err error) {
	logging.Debug(logger, "no interface change notification source on this platform; falling back to polling")
	return func() {}, nil
}
