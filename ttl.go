package mdns

import (
	"time"

	"github.com/miekg/dns"
)

// updateTTL applies the outbound TTL policy to every record in m's
// Answer, Ns, and Extra sections, per RFC 6762 section 10: host-scoped
// records (A, AAAA, SRV, HINFO, PTR) get hostTTL, everything else gets
// nonHostTTL. Zero TTLs (goodbye records) are preserved unconditionally.
// If legacy is true, every non-zero TTL is additionally clamped to at
// most LegacyUnicastMaxTTL.
func (e *Engine) updateTTL(m *dns.Msg, legacy bool) {
	sections := [][]dns.RR{m.Answer, m.Ns, m.Extra}

	for _, section := range sections {
		for _, rr := range section {
			h := rr.Header()
			if h.Ttl == 0 {
				continue
			}

			if hostRecordTypes[h.Rrtype] {
				h.Ttl = uint32(e.HostRecordTTL / time.Second)
			} else {
				h.Ttl = uint32(e.NonHostTTL / time.Second)
			}

			if legacy {
				if max := uint32(LegacyUnicastMaxTTL / time.Second); h.Ttl > max {
					h.Ttl = max
				}
			}
		}
	}
}
