// Package iface discovers and tracks the network interfaces usable for
// mDNS: operationally up, not receive-only, multicast-capable, per
// RFC 6762 section 3. It exposes both a pull interface (Snapshot,
// Refresh) and a push interface (Subscribe) for learning about
// interface changes.
package iface

import (
	"net"
	"strconv"
)

// Handle is a stable reference to a single usable network interface.
// Two Handles are "the same" interface iff their ID matches.
type Handle struct {
	// ID is the stable identifier for this interface: the OS-assigned
	// interface index, rather than its name, because names are reused
	// by the OS across add/remove cycles (VPN tunnels, USB NICs) in a
	// way that index allocation usually is not.
	ID string

	Name      string
	Up        bool
	Multicast bool
	Loopback  bool
	Addrs     []net.IP

	index int
}

func newHandle(ni net.Interface) Handle {
	h := Handle{
		ID:        strconv.Itoa(ni.Index),
		Name:      ni.Name,
		Up:        ni.Flags&net.FlagUp != 0,
		Multicast: ni.Flags&net.FlagMulticast != 0,
		Loopback:  ni.Flags&net.FlagLoopback != 0,
		index:     ni.Index,
	}

	addrs, err := ni.Addrs()
	if err != nil {
		return h
	}

	for _, a := range addrs {
		if ipNet, ok := a.(*net.IPNet); ok {
			h.Addrs = append(h.Addrs, ipNet.IP)
		}
	}

	return h
}

// Interface reconstructs the net.Interface this handle was derived
// from, for use with the APIs in golang.org/x/net/ipv4 and ipv6 that
// require one.
func (h Handle) Interface() net.Interface {
	flags := net.Flags(0)
	if h.Up {
		flags |= net.FlagUp
	}
	if h.Multicast {
		flags |= net.FlagMulticast
	}
	if h.Loopback {
		flags |= net.FlagLoopback
	}

	return net.Interface{
		Index: h.index,
		Name:  h.Name,
		Flags: flags,
	}
}

// usable reports whether ni meets the mDNS usability bar: up, not
// receive-only, and multicast-capable. FlagRunning is intentionally
// not required: some platforms do not report it for NICs that are
// otherwise perfectly usable.
func usable(ni net.Interface) bool {
	const required = net.FlagUp | net.FlagMulticast
	if ni.Flags&required != required {
		return false
	}

	// "Receive-only" is not represented by a net.Flags value in the Go
	// standard library; an interface with no addresses at all cannot
	// originate a sender socket and is treated as receive-only here.
	addrs, err := ni.Addrs()
	if err != nil || len(addrs) == 0 {
		return false
	}

	return true
}
