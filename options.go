package mdns

import (
	"time"

	"github.com/dissolve/mdnscore/iface"
	"github.com/dissolve/mdnscore/transport"
	"github.com/dogmatiq/dodeca/logging"
)

// Option is a function that applies an option to an Engine created by
// New(). Configuration fields are also exported directly on Engine so
// that they may be read or adjusted at any point before Start, per the
// engine's configuration contract.
type Option func(*Engine) error

// UseLogger returns an option that sets the logger used by the engine
// and everything it constructs (the transport and interface monitor).
func UseLogger(l logging.Logger) Option {
	return func(e *Engine) error {
		e.Logger = l
		return nil
	}
}

// DisableIPv4 is an option that prevents the engine from joining the
// mDNS group over IPv4.
func DisableIPv4(e *Engine) error {
	e.UseIPv4 = false
	return nil
}

// DisableIPv6 is an option that prevents the engine from joining the
// mDNS group over IPv6.
func DisableIPv6(e *Engine) error {
	e.UseIPv6 = false
	return nil
}

// WithIncludeLoopback returns an option that sets whether loopback
// interfaces are included even when a non-loopback usable interface
// exists.
func WithIncludeLoopback(include bool) Option {
	return func(e *Engine) error {
		e.IncludeLoopback = include
		return nil
	}
}

// WithEnableUnicastAnswers returns an option that sets whether the
// engine honours the QU bit and legacy-unicast detection by sending
// unicast responses at all; when false, every answer is multicast.
func WithEnableUnicastAnswers(enable bool) Option {
	return func(e *Engine) error {
		e.EnableUnicastAnswers = enable
		return nil
	}
}

// WithHostRecordTTL returns an option overriding the TTL applied to
// host-scoped records by the TTL policy.
func WithHostRecordTTL(d time.Duration) Option {
	return func(e *Engine) error {
		e.HostRecordTTL = d
		return nil
	}
}

// WithNonHostTTL returns an option overriding the TTL applied to
// non-host records by the TTL policy.
func WithNonHostTTL(d time.Duration) Option {
	return func(e *Engine) error {
		e.NonHostTTL = d
		return nil
	}
}

// WithIgnoreDuplicateMessages returns an option controlling whether
// inbound duplicate suppression is applied.
func WithIgnoreDuplicateMessages(ignore bool) Option {
	return func(e *Engine) error {
		e.IgnoreDuplicateMessages = ignore
		return nil
	}
}

// WithScope returns an option setting the IPv6 multicast scope used
// when joining and sending to the mDNS group.
func WithScope(s transport.Scope) Option {
	return func(e *Engine) error {
		e.Scope = s
		return nil
	}
}

// WithNetworkInterfacesFilter returns an option restricting the set of
// interfaces the engine will use, in addition to the baseline
// usability rules.
func WithNetworkInterfacesFilter(f func(iface.Handle) bool) Option {
	return func(e *Engine) error {
		e.NetworkInterfacesFilter = f
		return nil
	}
}
