package transport

import "net"

// Endpoint identifies the origin or destination of a packet: a remote
// address together with the local interface it arrived on or should be
// sent via.
type Endpoint struct {
	InterfaceIndex int
	Address        *net.UDPAddr
}

// IsLegacy returns true if this endpoint represents a "legacy" mDNS
// querier: one that sent its query from a source port other than 5353,
// and therefore does not implement the full mDNS specification and
// expects a conventional unicast response.
//
// See https://tools.ietf.org/html/rfc6762#section-6.7.
func (ep Endpoint) IsLegacy() bool {
	return ep.Address.Port != Port
}
