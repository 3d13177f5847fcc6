package mdns

import (
	"time"

	"github.com/miekg/dns"
)

// HostRecordTTL is the TTL applied to host-scoped records (A, AAAA,
// SRV, HINFO, PTR) by the TTL policy, per RFC 6762 section 10.
const HostRecordTTL = 120 * time.Second

// NonHostTTL is the TTL applied to all other record types by the TTL
// policy, per RFC 6762 section 10.
const NonHostTTL = 75 * time.Minute

// LegacyUnicastMaxTTL is the TTL ceiling applied to records in a legacy
// unicast response, per RFC 6762 section 6.7.
const LegacyUnicastMaxTTL = 10 * time.Second

// hostRecordTypes is the set of record types whose TTL is governed by
// HostRecordTTL rather than NonHostTTL.
var hostRecordTypes = map[uint16]bool{
	dns.TypeA:     true,
	dns.TypeAAAA:  true,
	dns.TypeSRV:   true,
	dns.TypeHINFO: true,
	dns.TypePTR:   true,
}
