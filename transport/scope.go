package transport

import "net"

// Scope is an IPv6 multicast scope, selecting the "x" digit in the
// mDNS group address FF0x::FB.
//
// See RFC 4291 section 2.7 for the scope digit assignments.
type Scope byte

const (
	// ScopeInterface is interface-local scope (digit 1).
	ScopeInterface Scope = 0x1
	// ScopeLinkLocal is link-local scope (digit 2), the mDNS default.
	ScopeLinkLocal Scope = 0x2
	// ScopeRealmLocal is realm-local scope (digit 3).
	ScopeRealmLocal Scope = 0x3
	// ScopeAdminLocal is admin-local scope (digit 4).
	ScopeAdminLocal Scope = 0x4
	// ScopeSiteLocal is site-local scope (digit 5).
	ScopeSiteLocal Scope = 0x5
	// ScopeOrganizationLocal is organization-local scope (digit 8).
	ScopeOrganizationLocal Scope = 0x8
	// ScopeGlobal is global scope (digit e).
	ScopeGlobal Scope = 0xe
)

// DefaultScope is the scope used when none is configured.
const DefaultScope = ScopeLinkLocal

// IPv4Group is the multicast group used for mDNS over IPv4.
//
// See https://tools.ietf.org/html/rfc6762#section-3.
var IPv4Group = net.ParseIP("224.0.0.251")

// IPv4GroupAddress is the address to which mDNS queries are sent over
// IPv4.
var IPv4GroupAddress = &net.UDPAddr{IP: IPv4Group, Port: Port}

// IPv6Group returns the mDNS multicast group address FF0x::FB for the
// given scope.
//
// See https://tools.ietf.org/html/rfc6762#section-3.
func IPv6Group(scope Scope) net.IP {
	ip := make(net.IP, net.IPv6len)
	ip[0] = 0xff
	ip[1] = byte(scope)
	ip[15] = 0xfb
	return ip
}

// IPv6GroupAddress returns the UDP address to which mDNS queries are
// sent over IPv6 at the given scope.
func IPv6GroupAddress(scope Scope) *net.UDPAddr {
	return &net.UDPAddr{IP: IPv6Group(scope), Port: Port}
}

func resolvedScope(s Scope) Scope {
	if s == 0 {
		return DefaultScope
	}
	return s
}
